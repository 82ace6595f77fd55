package category

import "strings"

// Uncategorized is assigned when a post carries no hashtags at all;
// General when hashtags exist but match no known category.
const (
	Uncategorized = "uncategorized"
	General       = "general"
)

type entry struct {
	name     string
	keywords []string
}

// table is checked in order; a post matching several categories is
// assigned the first one listed. Keep the order stable: it is the
// tie-break contract for Categorize.
var table = []entry{
	{"food", []string{"food", "foodie", "restaurant", "cooking", "recipe", "delicious"}},
	{"travel", []string{"travel", "vacation", "trip", "explore", "adventure", "wanderlust"}},
	{"fitness", []string{"fitness", "gym", "workout", "health", "exercise", "training"}},
	{"technology", []string{"tech", "technology", "coding", "software", "ai", "programming"}},
	{"lifestyle", []string{"lifestyle", "life", "motivation", "inspiration", "goals"}},
	{"business", []string{"business", "entrepreneur", "startup", "marketing", "success"}},
	{"art", []string{"art", "artist", "creative", "design", "photography", "aesthetic"}},
	{"music", []string{"music", "song", "artist", "concert", "album", "musician"}},
	{"sports", []string{"sports", "football", "basketball", "soccer", "game", "team"}},
	{"fashion", []string{"fashion", "style", "outfit", "ootd", "clothing", "brand"}},
}

// Names returns the category names in table order.
func Names() []string {
	out := make([]string, 0, len(table))
	for _, e := range table {
		out = append(out, e.name)
	}
	return out
}

// Categorize maps a post's hashtags to one content category by
// substring keyword match against the joined lowercase hashtag text.
// It is pure and total: every input yields a category name.
func Categorize(hashtags []string) string {
	if len(hashtags) == 0 {
		return Uncategorized
	}
	text := strings.ToLower(strings.Join(hashtags, " "))
	for _, e := range table {
		for _, kw := range e.keywords {
			if strings.Contains(text, kw) {
				return e.name
			}
		}
	}
	return General
}
