package store

import (
	"context"
	"testing"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertUserIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u := model.User{ID: "1", Username: "alice", FullName: "Alice", FollowerCount: 10}
	if err := db.UpsertUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	u.FollowerCount = 20
	if err := db.UpsertUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, err := db.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.FollowerCount != 20 {
		t.Fatalf("expected refreshed follower count 20, got %d", got.FollowerCount)
	}
	var count int
	if err := db.sql.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user row, got %d", count)
	}
}

func TestUserNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.UserByUsername(context.Background(), "ghost")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertEdgeFirstDepthWins(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ins, err := db.InsertEdge(ctx, model.NetworkEdge{SourceID: "a", TargetID: "b", Kind: "following", Depth: 2})
	if err != nil || !ins {
		t.Fatalf("expected first insert, got %v %v", ins, err)
	}
	ins, err = db.InsertEdge(ctx, model.NetworkEdge{SourceID: "a", TargetID: "b", Kind: "following", Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	if ins {
		t.Fatal("expected duplicate edge to be ignored")
	}
	depth, known, err := db.DepthOf(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if !known || depth != 2 {
		t.Fatalf("expected first-recorded depth 2, got %d known=%v", depth, known)
	}
}

func TestDepthOfUnknownUser(t *testing.T) {
	db := openTestDB(t)
	_, known, err := db.DepthOf(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if known {
		t.Fatal("expected unknown depth for user outside the graph")
	}
}

func TestInsertLikeIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	l := model.Like{TargetUserID: "t", PostID: "p", Timestamp: time.Now(), Depth: 1, DepthKnown: true, Category: "food", DiscoveryMethod: model.DiscoveryNetwork}
	ins, err := db.InsertLike(ctx, l)
	if err != nil || !ins {
		t.Fatalf("expected insert, got %v %v", ins, err)
	}
	ins, err = db.InsertLike(ctx, l)
	if err != nil {
		t.Fatal(err)
	}
	if ins {
		t.Fatal("expected duplicate like to be ignored")
	}
	likes, err := db.LikesByTarget(ctx, "t")
	if err != nil {
		t.Fatal(err)
	}
	if len(likes) != 1 {
		t.Fatalf("expected 1 like, got %d", len(likes))
	}
	if likes[0].Category != "food" || !likes[0].DepthKnown {
		t.Fatalf("unexpected like row: %+v", likes[0])
	}
}

func TestUpsertPostRefreshesCounts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := model.Post{ID: "p1", AuthorID: "a", URL: "https://instagram.com/p/x", LikeCount: 100, Type: "photo", Hashtags: []string{"food"}, TakenAt: time.Now()}
	if err := db.UpsertPost(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.LikeCount = 150
	if err := db.UpsertPost(ctx, p); err != nil {
		t.Fatal(err)
	}
	posts, err := db.PostsByIDs(ctx, []string{"p1"})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := posts["p1"]
	if !ok {
		t.Fatal("missing post")
	}
	if got.LikeCount != 150 {
		t.Fatalf("expected refreshed like count 150, got %d", got.LikeCount)
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0] != "food" {
		t.Fatalf("hashtags did not round-trip: %v", got.Hashtags)
	}
}

func TestUpsertHashtagStatReplacesFrequency(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	s := model.HashtagStat{Hashtag: "food", TargetUserID: "t", Frequency: 3, LastSeen: now}
	if err := db.UpsertHashtagStat(ctx, s); err != nil {
		t.Fatal(err)
	}
	s.Frequency = 7
	if err := db.UpsertHashtagStat(ctx, s); err != nil {
		t.Fatal(err)
	}
	stats, err := db.HashtagStatsByTarget(ctx, "t")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Frequency != 7 {
		t.Fatalf("expected single stat with frequency 7, got %+v", stats)
	}
}

func TestNetworkSummaryOrderedByFollowers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_ = db.UpsertUser(ctx, model.User{ID: "a", Username: "a", FollowerCount: 5})
	_ = db.UpsertUser(ctx, model.User{ID: "b", Username: "b", FollowerCount: 500})
	_, _ = db.InsertEdge(ctx, model.NetworkEdge{SourceID: "root", TargetID: "a", Kind: "following", Depth: 1})
	_, _ = db.InsertEdge(ctx, model.NetworkEdge{SourceID: "root", TargetID: "b", Kind: "following", Depth: 1})
	members, err := db.NetworkSummary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0].Username != "b" {
		t.Fatalf("expected b first by follower count, got %+v", members)
	}
}

func TestRunLog(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	id, err := db.StartRun(ctx, "collection", "t")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.FinishRun(ctx, id, RunCompleted, 5, ""); err != nil {
		t.Fatal(err)
	}
	var status string
	var records int
	if err := db.sql.QueryRow(`SELECT status, records_processed FROM processing_log WHERE id=?`, id).Scan(&status, &records); err != nil {
		t.Fatal(err)
	}
	if status != RunCompleted || records != 5 {
		t.Fatalf("unexpected run log row: %s %d", status, records)
	}
}
