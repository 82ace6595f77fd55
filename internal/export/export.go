// Package export persists reports and tabular data as file artifacts.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/report"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/store"
)

// Formats accepted by the tabular exporters.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// WriteReport saves the report as a timestamped JSON artifact under
// dir and returns the written path.
func WriteReport(dir, username string, rep report.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_analysis_%s.json", username, rep.AnalysisTimestamp.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// likeRow is one exported like joined with its post.
type likeRow struct {
	LikeTimestamp  string `json:"like_timestamp"`
	NetworkDepth   int    `json:"network_depth"`
	PostCategory   string `json:"post_category"`
	PostLikeCount  int    `json:"post_like_count"`
	PostComments   int    `json:"post_comment_count"`
	PostType       string `json:"post_type"`
	Hashtags       string `json:"hashtags"`
	CaptionPreview string `json:"caption_preview"`
}

// ExportLikes writes the target user's likes, joined with post data,
// as CSV or JSON under dir.
func ExportLikes(ctx context.Context, db *store.DB, targetUserID, dir, format string) (string, error) {
	likes, err := db.LikesByTarget(ctx, targetUserID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.PostID)
	}
	posts, err := db.PostsByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	rows := make([]likeRow, 0, len(likes))
	for _, l := range likes {
		row := likeRow{
			LikeTimestamp: l.Timestamp.Format(time.RFC3339),
			NetworkDepth:  l.Depth,
			PostCategory:  l.Category,
		}
		if p, ok := posts[l.PostID]; ok {
			row.PostLikeCount = p.LikeCount
			row.PostComments = p.CommentCount
			row.PostType = p.Type
			row.Hashtags = joinComma(p.Hashtags)
			row.CaptionPreview = preview(p.Caption, 100)
		}
		rows = append(rows, row)
	}
	name := "user_likes_" + targetUserID
	if format == FormatJSON {
		return writeJSON(dir, name+".json", rows)
	}
	header := []string{"like_timestamp", "network_depth", "post_category", "post_like_count", "post_comment_count", "post_type", "hashtags", "caption_preview"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.LikeTimestamp, strconv.Itoa(r.NetworkDepth), r.PostCategory,
			strconv.Itoa(r.PostLikeCount), strconv.Itoa(r.PostComments),
			r.PostType, r.Hashtags, r.CaptionPreview,
		})
	}
	return writeCSV(dir, name+".csv", header, records)
}

type hashtagRow struct {
	Hashtag   string `json:"hashtag"`
	Frequency int    `json:"frequency"`
	LastSeen  string `json:"last_seen"`
}

// ExportHashtags writes the target user's stored hashtag stats,
// most frequent first.
func ExportHashtags(ctx context.Context, db *store.DB, targetUserID, dir, format string) (string, error) {
	stats, err := db.HashtagStatsByTarget(ctx, targetUserID)
	if err != nil {
		return "", err
	}
	rows := make([]hashtagRow, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, hashtagRow{Hashtag: s.Hashtag, Frequency: s.Frequency, LastSeen: s.LastSeen.Format(time.RFC3339)})
	}
	name := "hashtag_analysis_" + targetUserID
	if format == FormatJSON {
		return writeJSON(dir, name+".json", rows)
	}
	header := []string{"hashtag", "frequency", "last_seen"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Hashtag, strconv.Itoa(r.Frequency), r.LastSeen})
	}
	return writeCSV(dir, name+".csv", header, records)
}

type networkRow struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	NetworkDepth   int    `json:"network_depth"`
}

// ExportNetwork writes the crawled network summary ordered by follower
// count descending.
func ExportNetwork(ctx context.Context, db *store.DB, targetUserID, dir, format string) (string, error) {
	members, err := db.NetworkSummary(ctx)
	if err != nil {
		return "", err
	}
	rows := make([]networkRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, networkRow{
			UserID:         m.UserID,
			Username:       m.Username,
			FullName:       m.FullName,
			FollowerCount:  m.FollowerCount,
			FollowingCount: m.FollowingCount,
			NetworkDepth:   m.Depth,
		})
	}
	name := "network_summary_" + targetUserID
	if format == FormatJSON {
		return writeJSON(dir, name+".json", rows)
	}
	header := []string{"user_id", "username", "full_name", "follower_count", "following_count", "network_depth"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.UserID, r.Username, r.FullName,
			strconv.Itoa(r.FollowerCount), strconv.Itoa(r.FollowingCount), strconv.Itoa(r.NetworkDepth),
		})
	}
	return writeCSV(dir, name+".csv", header, records)
}

func writeJSON(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(dir, name string, header []string, records [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	w.Flush()
	return path, w.Error()
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
