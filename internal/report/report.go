// Package report composes the aggregation outputs into one preference
// report with derived recommendations.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/analyze"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/logging"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/store"
)

// ErrUserNotFound is returned when the target user has never been
// stored; no partial report is produced in that case.
var ErrUserNotFound = errors.New("target user not found")

// hashtagStatsKept is how many ranked hashtags are persisted as
// incremental stats per analysis run.
const hashtagStatsKept = 50

// UserInfo is the report header describing the analyzed account.
type UserInfo struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
}

// NetworkMetrics summarizes the crawled graph.
type NetworkMetrics struct {
	TotalConnections  int            `json:"total_connections"`
	DepthDistribution []analyze.Pair `json:"depth_distribution,omitempty"`
}

// InfluentialConnection is one high-follower account in the network.
type InfluentialConnection struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	FollowerCount int    `json:"follower_count"`
}

// NetworkInsights is the network section of the report.
type NetworkInsights struct {
	NetworkMetrics         NetworkMetrics          `json:"network_metrics"`
	InfluentialConnections []InfluentialConnection `json:"influential_connections,omitempty"`
	DepthPreferences       []analyze.Pair          `json:"network_depth_preferences,omitempty"`
}

// Report is the composite analysis artifact.
type Report struct {
	UserInfo           UserInfo                   `json:"user_info"`
	AnalysisTimestamp  time.Time                  `json:"analysis_timestamp"`
	ContentPreferences analyze.ContentPreferences `json:"content_preferences"`
	EngagementPatterns analyze.EngagementPatterns `json:"engagement_patterns"`
	NetworkInsights    NetworkInsights            `json:"network_insights"`
	HashtagAnalysis    analyze.HashtagPreferences `json:"hashtag_analysis"`
	Recommendations    []string                   `json:"recommendations"`
}

// Builder assembles reports from stored records.
type Builder struct {
	db          *store.DB
	topHashtags int
}

func NewBuilder(db *store.DB, topHashtags int) *Builder {
	if topHashtags <= 0 {
		topHashtags = 20
	}
	return &Builder{db: db, topHashtags: topHashtags}
}

// Build looks up the target user by handle and produces the full
// report. A missing user aborts with ErrUserNotFound; empty like data
// only marks the affected sections.
func (b *Builder) Build(ctx context.Context, username string) (Report, error) {
	user, err := b.db.UserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return Report{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return Report{}, err
	}

	likes, err := b.db.LikesByTarget(ctx, user.ID)
	if err != nil {
		return Report{}, err
	}
	postIDs := make([]string, 0, len(likes))
	for _, l := range likes {
		postIDs = append(postIDs, l.PostID)
	}
	posts, err := b.db.PostsByIDs(ctx, postIDs)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		UserInfo: UserInfo{
			UserID:         user.ID,
			Username:       user.Username,
			FullName:       user.FullName,
			FollowerCount:  user.FollowerCount,
			FollowingCount: user.FollowingCount,
		},
		AnalysisTimestamp: time.Now().UTC(),
	}

	content, err := analyze.Content(likes, posts)
	if err != nil {
		content.Error = err.Error()
	}
	rep.ContentPreferences = content

	patterns, err := analyze.Patterns(likes)
	if err != nil {
		patterns.Error = err.Error()
	}
	rep.EngagementPatterns = patterns

	hashtags, err := analyze.Hashtags(likes, posts, hashtagStatsKept)
	if err != nil {
		hashtags.Error = err.Error()
	} else {
		b.persistHashtagStats(ctx, user.ID, hashtags.TopHashtags)
		if len(hashtags.TopHashtags) > b.topHashtags {
			hashtags.TopHashtags = hashtags.TopHashtags[:b.topHashtags]
		}
	}
	rep.HashtagAnalysis = hashtags

	insights, err := b.networkInsights(ctx, patterns)
	if err != nil {
		return Report{}, err
	}
	rep.NetworkInsights = insights

	rep.Recommendations = Recommendations(content, patterns, hashtags)
	return rep, nil
}

func (b *Builder) networkInsights(ctx context.Context, patterns analyze.EngagementPatterns) (NetworkInsights, error) {
	edges, err := b.db.Edges(ctx)
	if err != nil {
		return NetworkInsights{}, err
	}
	depths := make(map[string]int)
	var depthPairs []analyze.Pair
	for _, e := range edges {
		key := fmt.Sprintf("%d", e.Depth)
		if _, ok := depths[key]; !ok {
			depthPairs = append(depthPairs, analyze.Pair{Key: key})
		}
		depths[key]++
	}
	for i := range depthPairs {
		depthPairs[i].Count = depths[depthPairs[i].Key]
	}

	influential, err := b.db.InfluentialConnections(ctx, 10)
	if err != nil {
		return NetworkInsights{}, err
	}
	conns := make([]InfluentialConnection, 0, len(influential))
	for _, u := range influential {
		conns = append(conns, InfluentialConnection{
			UserID:        u.ID,
			Username:      u.Username,
			FullName:      u.FullName,
			FollowerCount: u.FollowerCount,
		})
	}

	return NetworkInsights{
		NetworkMetrics: NetworkMetrics{
			TotalConnections:  len(edges),
			DepthDistribution: depthPairs,
		},
		InfluentialConnections: conns,
		DepthPreferences:       patterns.DepthDistribution,
	}, nil
}

func (b *Builder) persistHashtagStats(ctx context.Context, targetUserID string, top []analyze.Pair) {
	now := time.Now().UTC()
	for _, p := range top {
		stat := model.HashtagStat{Hashtag: p.Key, TargetUserID: targetUserID, Frequency: p.Count, LastSeen: now}
		if err := b.db.UpsertHashtagStat(ctx, stat); err != nil {
			logging.Error("hashtag_stat_store_failed", map[string]any{"hashtag": p.Key, "error": err.Error()})
		}
	}
}

// Recommendations derives up to four ordered suggestions, one per
// rule; a rule with no supporting data emits nothing.
func Recommendations(content analyze.ContentPreferences, patterns analyze.EngagementPatterns, hashtags analyze.HashtagPreferences) []string {
	var out []string
	if len(content.CategoryPreferences) > 0 {
		out = append(out, fmt.Sprintf("Focus on %s content - highest engagement category", content.CategoryPreferences[0].Key))
	}
	if len(patterns.PeakHours) > 0 {
		out = append(out, fmt.Sprintf("Optimal posting time: %s:00 - peak engagement hour", patterns.PeakHours[0].Key))
	}
	if len(hashtags.TopHashtags) > 0 {
		top := hashtags.TopHashtags
		if len(top) > 5 {
			top = top[:5]
		}
		names := make([]string, 0, len(top))
		for _, p := range top {
			names = append(names, p.Key)
		}
		out = append(out, fmt.Sprintf("Use hashtags: %s - frequently liked", strings.Join(names, ", ")))
	}
	if len(patterns.DepthDistribution) > 0 {
		if patterns.DepthDistribution[0].Key == "1" {
			out = append(out, "Engage more with direct connections - preferred network level")
		} else {
			out = append(out, "Explore extended network - likes content from deeper connections")
		}
	}
	return out
}
