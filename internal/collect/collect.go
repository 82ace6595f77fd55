package collect

import (
	"context"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/category"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/igclient"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/logging"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/metrics"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/ratelimit"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/store"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/textutil"
)

// Limits bound an engagement-collection run.
type Limits struct {
	MinLikes         int
	MaxPostsPerUser  int
	MaxUsersChecked  int
	MaxPostsToCheck  int
	MaxLikersPerPost int
}

// Collector fetches recent posts for discovered users, keeps the ones
// above the engagement threshold, and checks which of them the target
// user liked. Individual API failures are logged and skipped; no
// retries happen inside these loops.
type Collector struct {
	db      *store.DB
	client  igclient.Client
	limiter *ratelimit.Limiter
}

func New(db *store.DB, client igclient.Client, limiter *ratelimit.Limiter) *Collector {
	return &Collector{db: db, client: client, limiter: limiter}
}

// HighEngagementPosts fetches up to MaxPostsPerUser recent posts per
// user, persists those with at least MinLikes likes (with hashtags and
// mentions extracted from the caption), and returns the qualifying
// post ids.
func (c *Collector) HighEngagementPosts(ctx context.Context, userIDs []string, limits Limits) ([]string, error) {
	metrics.CollectRuns.Inc()
	if limits.MaxUsersChecked > 0 && len(userIDs) > limits.MaxUsersChecked {
		userIDs = userIDs[:limits.MaxUsersChecked]
	}
	logging.Info("collect_posts_start", map[string]any{"users": len(userIDs), "min_likes": limits.MinLikes})

	var qualifying []string
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return qualifying, err
		}
		posts, err := c.client.GetUserPosts(ctx, userID, limits.MaxPostsPerUser)
		if err != nil {
			metrics.CollectErrors.Inc()
			logging.Error("collect_posts_failed", map[string]any{"user": userID, "error": err.Error()})
			continue
		}
		for _, p := range posts {
			if p.LikeCount < limits.MinLikes {
				continue
			}
			p.Hashtags = textutil.ExtractHashtags(p.Caption)
			p.Mentions = textutil.ExtractMentions(p.Caption)
			if err := c.db.UpsertPost(ctx, p); err != nil {
				logging.Error("collect_store_post_failed", map[string]any{"post": p.ID, "error": err.Error()})
				continue
			}
			qualifying = append(qualifying, p.ID)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return qualifying, err
		}
	}
	logging.Info("collect_posts_done", map[string]any{"qualifying": len(qualifying)})
	return qualifying, nil
}

// FindTargetLikes checks each post's likers for the target user and
// records a Like per match. The like's depth is the network depth at
// which the post's author was discovered; when the author is absent
// from the crawled graph the record is explicitly flagged
// (DepthKnown=false) and the depth falls back to 1.
func (c *Collector) FindTargetLikes(ctx context.Context, targetUserID string, postIDs []string, limits Limits) ([]model.Like, error) {
	if limits.MaxPostsToCheck > 0 && len(postIDs) > limits.MaxPostsToCheck {
		postIDs = postIDs[:limits.MaxPostsToCheck]
	}
	logging.Info("collect_likes_start", map[string]any{"target": targetUserID, "posts": len(postIDs)})

	posts, err := c.db.PostsByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	var found []model.Like
	for _, postID := range postIDs {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		likers, err := c.client.GetPostLikers(ctx, postID, limits.MaxLikersPerPost)
		if err != nil {
			metrics.CollectErrors.Inc()
			logging.Error("collect_likers_failed", map[string]any{"post": postID, "error": err.Error()})
			continue
		}
		if containsUser(likers, targetUserID) {
			like := model.Like{
				TargetUserID:    targetUserID,
				PostID:          postID,
				Timestamp:       time.Now().UTC(),
				Depth:           1,
				DiscoveryMethod: model.DiscoveryNetwork,
				Category:        category.Uncategorized,
			}
			if p, ok := posts[postID]; ok {
				like.Category = category.Categorize(p.Hashtags)
				depth, known, err := c.db.DepthOf(ctx, p.AuthorID)
				if err != nil {
					logging.Error("collect_depth_lookup_failed", map[string]any{"author": p.AuthorID, "error": err.Error()})
				} else if known {
					like.Depth = depth
					like.DepthKnown = true
				} else {
					logging.Warn("collect_author_not_in_graph", map[string]any{"post": postID, "author": p.AuthorID})
				}
			}
			if _, err := c.db.InsertLike(ctx, like); err != nil {
				logging.Error("collect_store_like_failed", map[string]any{"post": postID, "error": err.Error()})
			} else {
				found = append(found, like)
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return found, err
		}
	}
	logging.Info("collect_likes_done", map[string]any{"target": targetUserID, "found": len(found)})
	return found, nil
}

func containsUser(users []model.User, id string) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
