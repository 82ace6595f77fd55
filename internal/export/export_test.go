package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/report"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/store"
)

func seededDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	_ = db.UpsertUser(ctx, model.User{ID: "t", Username: "target"})
	_ = db.UpsertUser(ctx, model.User{ID: "a", Username: "author", FullName: "Author", FollowerCount: 9000})
	_, _ = db.InsertEdge(ctx, model.NetworkEdge{SourceID: "t", TargetID: "a", Kind: "following", Depth: 1})
	_ = db.UpsertPost(ctx, model.Post{ID: "p1", AuthorID: "a", URL: "u", Caption: "nice #food", LikeCount: 12000, Type: "photo", Hashtags: []string{"food"}, TakenAt: time.Now()})
	_, _ = db.InsertLike(ctx, model.Like{TargetUserID: "t", PostID: "p1", Timestamp: time.Now(), Depth: 1, DepthKnown: true, Category: "food", DiscoveryMethod: model.DiscoveryNetwork})
	_ = db.UpsertHashtagStat(ctx, model.HashtagStat{Hashtag: "food", TargetUserID: "t", Frequency: 4, LastSeen: time.Now()})
	return db
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	rep := report.Report{AnalysisTimestamp: time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)}
	rep.UserInfo.Username = "target"
	path, err := WriteReport(dir, "target", rep)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "target_analysis_20250602_140000.json") {
		t.Fatalf("unexpected artifact name: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded report.Report
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.UserInfo.Username != "target" {
		t.Fatalf("report did not round-trip: %+v", decoded.UserInfo)
	}
}

func TestExportLikesCSV(t *testing.T) {
	db := seededDB(t)
	dir := t.TempDir()
	path, err := ExportLikes(context.Background(), db, "t", dir, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][2] != "post_category" || rows[1][2] != "food" {
		t.Fatalf("unexpected csv content: %v", rows)
	}
}

func TestExportHashtagsJSON(t *testing.T) {
	db := seededDB(t)
	dir := t.TempDir()
	path, err := ExportHashtags(context.Background(), db, "t", dir, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(b, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["hashtag"] != "food" {
		t.Fatalf("unexpected json content: %v", rows)
	}
}

func TestExportNetworkCSV(t *testing.T) {
	db := seededDB(t)
	dir := t.TempDir()
	path, err := ExportNetwork(context.Background(), db, "t", dir, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "author" {
		t.Fatalf("unexpected network rows: %v", rows)
	}
}
