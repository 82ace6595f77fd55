package analyze

import "sort"

// Pair is one ranked bucket: a key and how many likes landed in it.
type Pair struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// counter counts string keys while remembering first-seen order, so
// ranked ties resolve reproducibly by first occurrence.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) { c.addN(key, 1) }

func (c *counter) addN(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
}

// ranked returns the buckets sorted by count descending. The sort is
// stable over first-seen order, which is the only tie-break.
func (c *counter) ranked() []Pair {
	out := make([]Pair, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Pair{Key: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
