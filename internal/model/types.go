package model

import "time"

// User is an Instagram account encountered during crawl or collection.
// Upserted by ID; never deleted.
type User struct {
	ID             string
	Username       string
	FullName       string
	FollowerCount  int
	FollowingCount int
	IsPrivate      bool
	Bio            string
	LastUpdated    time.Time
}

// NetworkEdge records that Source follows Target, discovered at Depth
// BFS hops from the crawl root. Unique on (source, target, kind);
// the first recorded depth wins on rediscovery.
type NetworkEdge struct {
	SourceID string
	TargetID string
	Kind     string // "following"
	Depth    int
}

// Post is an Instagram media item with its engagement counters.
// Engagement counts are refreshed on re-fetch.
type Post struct {
	ID           string
	AuthorID     string
	URL          string
	Caption      string
	LikeCount    int
	CommentCount int
	Type         string // photo, video, carousel
	Hashtags     []string
	Mentions     []string
	Location     string
	TakenAt      time.Time
}

// Like is evidence that the target user liked a post, annotated with
// the network depth at which the post's author was discovered and the
// category assigned at detection time. Unique on (target, post).
type Like struct {
	TargetUserID string
	PostID       string
	Timestamp    time.Time
	Depth        int
	// DepthKnown is false when the post's author was never seen in the
	// crawled graph; Depth then holds the fallback value 1.
	DepthKnown      bool
	Category        string
	DiscoveryMethod string
}

// HashtagStat is a running frequency of one hashtag across a target
// user's liked posts. Upserted by (hashtag, target).
type HashtagStat struct {
	Hashtag      string
	TargetUserID string
	Frequency    int
	LastSeen     time.Time
}

// DiscoveryNetwork is the discovery method recorded on likes found by
// walking the follow graph.
const DiscoveryNetwork = "network_traversal"
