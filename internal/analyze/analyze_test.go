package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
)

func likeAt(post string, depth int, ts time.Time) model.Like {
	return model.Like{TargetUserID: "target", PostID: post, Depth: depth, DepthKnown: true, Timestamp: ts}
}

func TestContentNoData(t *testing.T) {
	_, err := Content(nil, nil)
	require.ErrorIs(t, err, ErrNoData)
}

func TestContentTierCountsSumToTotal(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	posts := map[string]model.Post{
		"p1": {ID: "p1", Type: "photo", LikeCount: 500, Hashtags: []string{"food"}},
		"p2": {ID: "p2", Type: "video", LikeCount: 5_000, Hashtags: []string{"travel"}},
		"p3": {ID: "p3", Type: "photo", LikeCount: 50_000, Hashtags: []string{"food"}},
		"p4": {ID: "p4", Type: "carousel", LikeCount: 500_000, Hashtags: []string{"gym"}},
	}
	likes := []model.Like{
		likeAt("p1", 1, base), likeAt("p2", 1, base), likeAt("p3", 2, base), likeAt("p4", 2, base),
	}
	got, err := Content(likes, posts)
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalLikesAnalyzed)
	sum := 0
	for _, p := range got.EngagementLevels {
		sum += p.Count
	}
	assert.Equal(t, got.TotalLikesAnalyzed, sum)
	// All four tiers are present even if unpopulated.
	assert.Len(t, got.EngagementLevels, 4)
	// food appears twice and ranks first.
	assert.Equal(t, "food", got.CategoryPreferences[0].Key)
	assert.Equal(t, 2, got.CategoryPreferences[0].Count)
}

func TestContentSkipsMissingPosts(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	likes := []model.Like{likeAt("gone", 1, base)}
	got, err := Content(likes, map[string]model.Post{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalLikesAnalyzed)
	assert.Empty(t, got.CategoryPreferences)
}

func TestPatternsNoData(t *testing.T) {
	_, err := Patterns(nil)
	require.ErrorIs(t, err, ErrNoData)
}

func TestPatternsBuckets(t *testing.T) {
	// Monday 2025-06-02.
	mon14 := time.Date(2025, 6, 2, 14, 5, 0, 0, time.UTC)
	tue18 := time.Date(2025, 6, 3, 18, 30, 0, 0, time.UTC)
	likes := []model.Like{
		likeAt("p1", 1, mon14), likeAt("p2", 1, mon14.Add(10*time.Minute)), likeAt("p3", 2, tue18),
	}
	got, err := Patterns(likes)
	require.NoError(t, err)

	assert.Equal(t, "14", got.PeakHours[0].Key)
	assert.Equal(t, 2, got.PeakHours[0].Count)
	assert.Equal(t, "Monday", got.ActiveDays[0].Key)
	assert.Equal(t, "1", got.DepthDistribution[0].Key)
	require.NotNil(t, got.DateRange)
	assert.Equal(t, mon14, got.DateRange.Earliest)
	assert.Equal(t, tue18, got.DateRange.Latest)
}

func TestPatternsTieBreakIsFirstSeen(t *testing.T) {
	h9 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	h11 := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	likes := []model.Like{likeAt("p1", 1, h9), likeAt("p2", 1, h11)}
	got, err := Patterns(likes)
	require.NoError(t, err)
	// Equal counts keep first-seen order.
	assert.Equal(t, "09", got.PeakHours[0].Key)
	assert.Equal(t, "11", got.PeakHours[1].Key)
}

func TestHashtagsRankingAndTruncation(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	posts := map[string]model.Post{
		"p1": {ID: "p1", Hashtags: []string{"food", "yummy"}},
		"p2": {ID: "p2", Hashtags: []string{"food", "travel"}},
		"p3": {ID: "p3", Hashtags: []string{"food"}},
	}
	likes := []model.Like{likeAt("p1", 1, base), likeAt("p2", 1, base), likeAt("p3", 1, base)}

	got, err := Hashtags(likes, posts, 2)
	require.NoError(t, err)
	require.Len(t, got.TopHashtags, 2)
	assert.Equal(t, Pair{Key: "food", Count: 3}, got.TopHashtags[0])
	// yummy and travel tie at 1; yummy was seen first.
	assert.Equal(t, "yummy", got.TopHashtags[1].Key)
	assert.Equal(t, 3, got.TotalLikesAnalyzed)
	assert.Equal(t, "food", got.CategoryPreferences[0].Key)
}

func TestHashtagsNoData(t *testing.T) {
	_, err := Hashtags(nil, nil, 20)
	require.ErrorIs(t, err, ErrNoData)
}
