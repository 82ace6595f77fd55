// Package analyze turns collected like and post records into ranked
// preference statistics. All functions are pure: they take in-memory
// collections and perform no I/O.
package analyze

import (
	"errors"
	"strconv"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/category"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
)

// ErrNoData is returned when an analysis has no likes to work with.
// Callers embed it as a section-level error rather than failing the
// whole report.
var ErrNoData = errors.New("no likes data available")

// Engagement tier labels, in fixed bucket order.
var engagementTiers = []string{"0-1K", "1K-10K", "10K-100K", "100K+"}

func engagementTier(likeCount int) string {
	switch {
	case likeCount < 1000:
		return engagementTiers[0]
	case likeCount < 10000:
		return engagementTiers[1]
	case likeCount < 100000:
		return engagementTiers[2]
	default:
		return engagementTiers[3]
	}
}

// ContentPreferences holds category, post-type, and engagement-tier
// breakdowns of a user's likes.
type ContentPreferences struct {
	CategoryPreferences []Pair `json:"category_preferences,omitempty"`
	PostTypePreferences []Pair `json:"post_type_preferences,omitempty"`
	EngagementLevels    []Pair `json:"engagement_level_preferences,omitempty"`
	TotalLikesAnalyzed  int    `json:"total_likes_analyzed,omitempty"`
	Error               string `json:"error,omitempty"`
}

// Content buckets likes by post category, post type, and like-count
// tier. Every tier appears in the output even when empty, so tier
// counts always sum to the total likes analyzed.
func Content(likes []model.Like, posts map[string]model.Post) (ContentPreferences, error) {
	if len(likes) == 0 {
		return ContentPreferences{}, ErrNoData
	}
	categories := newCounter()
	postTypes := newCounter()
	tiers := newCounter()
	for _, t := range engagementTiers {
		tiers.addN(t, 0)
	}
	for _, like := range likes {
		p, ok := posts[like.PostID]
		if !ok {
			continue
		}
		categories.add(category.Categorize(p.Hashtags))
		if p.Type != "" {
			postTypes.add(p.Type)
		}
		tiers.add(engagementTier(p.LikeCount))
	}
	return ContentPreferences{
		CategoryPreferences: categories.ranked(),
		PostTypePreferences: postTypes.ranked(),
		EngagementLevels:    tiers.ranked(),
		TotalLikesAnalyzed:  len(likes),
	}, nil
}

// DateRange bounds the timestamps of the analyzed likes.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// EngagementPatterns describes when and through which network depths a
// user engages.
type EngagementPatterns struct {
	PeakHours         []Pair     `json:"peak_hours,omitempty"`
	ActiveDays        []Pair     `json:"active_days,omitempty"`
	DepthDistribution []Pair     `json:"network_depth_distribution,omitempty"`
	TotalLikes        int        `json:"total_likes,omitempty"`
	DateRange         *DateRange `json:"date_range,omitempty"`
	Error             string     `json:"error,omitempty"`
}

// Patterns buckets likes by hour of day, weekday, and network depth,
// each ranked descending by count, and computes the covered date range.
func Patterns(likes []model.Like) (EngagementPatterns, error) {
	if len(likes) == 0 {
		return EngagementPatterns{}, ErrNoData
	}
	hours := newCounter()
	days := newCounter()
	depths := newCounter()
	var earliest, latest time.Time
	for _, like := range likes {
		ts := like.Timestamp.UTC()
		hours.add(hourKey(ts.Hour()))
		days.add(ts.Weekday().String())
		depths.add(strconv.Itoa(like.Depth))
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
		if latest.IsZero() || ts.After(latest) {
			latest = ts
		}
	}
	return EngagementPatterns{
		PeakHours:         hours.ranked(),
		ActiveDays:        days.ranked(),
		DepthDistribution: depths.ranked(),
		TotalLikes:        len(likes),
		DateRange:         &DateRange{Earliest: earliest, Latest: latest},
	}, nil
}

func hourKey(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h)
	}
	return strconv.Itoa(h)
}

// HashtagPreferences holds the most-liked hashtags and the category
// breakdown of the posts that carried them.
type HashtagPreferences struct {
	TopHashtags         []Pair `json:"top_hashtags,omitempty"`
	CategoryPreferences []Pair `json:"category_preferences,omitempty"`
	TotalLikesAnalyzed  int    `json:"total_likes_analyzed,omitempty"`
	Error               string `json:"error,omitempty"`
}

// Hashtags frequency-counts hashtags across the liked posts, ranked
// descending and truncated to topN.
func Hashtags(likes []model.Like, posts map[string]model.Post, topN int) (HashtagPreferences, error) {
	if len(likes) == 0 {
		return HashtagPreferences{}, ErrNoData
	}
	tags := newCounter()
	categories := newCounter()
	for _, like := range likes {
		p, ok := posts[like.PostID]
		if !ok || len(p.Hashtags) == 0 {
			continue
		}
		for _, h := range p.Hashtags {
			tags.add(h)
		}
		categories.add(category.Categorize(p.Hashtags))
	}
	top := tags.ranked()
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	return HashtagPreferences{
		TopHashtags:         top,
		CategoryPreferences: categories.ranked(),
		TotalLikesAnalyzed:  len(likes),
	}, nil
}
