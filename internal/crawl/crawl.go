package crawl

import (
	"context"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/igclient"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/logging"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/metrics"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/ratelimit"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/store"
)

// Limits bound a crawl run. MaxTotal is the hard safety cap on
// discovered users regardless of depth.
type Limits struct {
	MaxDepth         int
	MaxUsersPerLevel int
	MaxTotal         int
}

// Crawler walks the "follows" relation breadth-first from a root user,
// persisting every discovered account and edge. Execution is
// sequential; the limiter's deliberate pauses are the only suspension
// points.
type Crawler struct {
	db      *store.DB
	client  igclient.Client
	limiter *ratelimit.Limiter
}

func New(db *store.DB, client igclient.Client, limiter *ratelimit.Limiter) *Crawler {
	return &Crawler{db: db, client: client, limiter: limiter}
}

type frontierItem struct {
	userID string
	depth  int
}

// Crawl runs bounded BFS from rootID and returns the discovered user
// ids in discovery order. Per-user fetch failures are logged and
// treated as empty follow lists; they never abort the run.
func (c *Crawler) Crawl(ctx context.Context, rootID string, limits Limits) ([]string, error) {
	start := time.Now()
	metrics.CrawlRuns.Inc()
	defer metrics.ObserveCrawlDuration(start)

	logging.Info("crawl_start", map[string]any{"root": rootID, "max_depth": limits.MaxDepth})

	queue := []frontierItem{{userID: rootID, depth: 0}}
	visited := make(map[string]struct{})
	var discovered []string

	for len(queue) > 0 && len(discovered) < limits.MaxTotal {
		if err := ctx.Err(); err != nil {
			return discovered, err
		}
		cur := queue[0]
		queue = queue[1:]

		if _, ok := visited[cur.userID]; ok || cur.depth >= limits.MaxDepth {
			continue
		}
		visited[cur.userID] = struct{}{}

		following, err := c.client.GetFollowing(ctx, cur.userID, limits.MaxUsersPerLevel)
		if err != nil {
			metrics.CrawlErrors.Inc()
			logging.Error("crawl_following_failed", map[string]any{"user": cur.userID, "error": err.Error()})
			following = nil
		}
		if len(following) > limits.MaxUsersPerLevel {
			following = following[:limits.MaxUsersPerLevel]
		}

		for _, u := range following {
			if err := c.db.UpsertUser(ctx, u); err != nil {
				logging.Error("crawl_store_user_failed", map[string]any{"user": u.ID, "error": err.Error()})
				continue
			}
			edge := model.NetworkEdge{SourceID: cur.userID, TargetID: u.ID, Kind: "following", Depth: cur.depth + 1}
			if _, err := c.db.InsertEdge(ctx, edge); err != nil {
				logging.Error("crawl_store_edge_failed", map[string]any{"source": cur.userID, "target": u.ID, "error": err.Error()})
				continue
			}
			discovered = append(discovered, u.ID)
			if cur.depth+1 < limits.MaxDepth {
				queue = append(queue, frontierItem{userID: u.ID, depth: cur.depth + 1})
			}
			if len(discovered) >= limits.MaxTotal {
				break
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return discovered, err
		}
	}

	logging.Info("crawl_done", map[string]any{"root": rootID, "discovered": len(discovered)})
	return discovered, nil
}
