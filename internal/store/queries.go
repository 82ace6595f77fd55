package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
)

const userColumns = `user_id, username, full_name, follower_count, following_count, is_private, bio, last_updated`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var private int
	var updated int64
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.FollowerCount, &u.FollowingCount, &private, &u.Bio, &updated)
	if err != nil {
		return u, err
	}
	u.IsPrivate = private != 0
	u.LastUpdated = time.Unix(updated, 0).UTC()
	return u, nil
}

// UserByUsername looks a user up by handle.
func (d *DB) UserByUsername(ctx context.Context, username string) (model.User, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username=?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// UserByID looks a user up by platform identifier.
func (d *DB) UserByID(ctx context.Context, userID string) (model.User, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=?`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// LikesByTarget returns all recorded likes for a target user in
// insertion order.
func (d *DB) LikesByTarget(ctx context.Context, targetUserID string) ([]model.Like, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT target_user_id, post_id, like_timestamp, network_depth, depth_known, post_category, discovery_method
	FROM target_user_likes WHERE target_user_id=? ORDER BY id`, targetUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Like
	for rows.Next() {
		var l model.Like
		var ts int64
		var known int
		if err := rows.Scan(&l.TargetUserID, &l.PostID, &ts, &l.Depth, &known, &l.Category, &l.DiscoveryMethod); err != nil {
			return nil, err
		}
		l.Timestamp = time.Unix(ts, 0).UTC()
		l.DepthKnown = known != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// PostsByIDs returns the stored posts for the given ids, keyed by post id.
func (d *DB) PostsByIDs(ctx context.Context, ids []string) (map[string]model.Post, error) {
	out := make(map[string]model.Post, len(ids))
	for _, id := range ids {
		row := d.sql.QueryRowContext(ctx, `
		SELECT post_id, author_user_id, post_url, caption, like_count, comment_count, post_type, hashtags, mentions, location, post_date
		FROM posts WHERE post_id=?`, id)
		p, err := scanPost(row)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, nil
}

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	var hashtags, mentions string
	var postDate sql.NullInt64
	err := row.Scan(&p.ID, &p.AuthorID, &p.URL, &p.Caption, &p.LikeCount, &p.CommentCount, &p.Type, &hashtags, &mentions, &p.Location, &postDate)
	if err != nil {
		return p, err
	}
	_ = json.Unmarshal([]byte(hashtags), &p.Hashtags)
	_ = json.Unmarshal([]byte(mentions), &p.Mentions)
	if postDate.Valid {
		p.TakenAt = time.Unix(postDate.Int64, 0).UTC()
	}
	return p, nil
}

// DepthOf returns the shallowest recorded network depth at which the
// user appears as an edge target, and whether any edge exists at all.
func (d *DB) DepthOf(ctx context.Context, userID string) (int, bool, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT MIN(network_depth) FROM user_network WHERE target_user_id=?`, userID)
	var depth sql.NullInt64
	if err := row.Scan(&depth); err != nil {
		return 0, false, err
	}
	if !depth.Valid {
		return 0, false, nil
	}
	return int(depth.Int64), true, nil
}

// Edges returns every recorded network edge in discovery order.
func (d *DB) Edges(ctx context.Context) ([]model.NetworkEdge, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT source_user_id, target_user_id, relationship_type, network_depth FROM user_network ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.NetworkEdge
	for rows.Next() {
		var e model.NetworkEdge
		if err := rows.Scan(&e.SourceID, &e.TargetID, &e.Kind, &e.Depth); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InfluentialConnections returns the network's discovered users ranked
// by follower count, highest first.
func (d *DB) InfluentialConnections(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT `+userColumns+` FROM users
	WHERE user_id IN (SELECT DISTINCT target_user_id FROM user_network)
	ORDER BY follower_count DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// HashtagStatsByTarget returns stored hashtag stats for a target user,
// most frequent first.
func (d *DB) HashtagStatsByTarget(ctx context.Context, targetUserID string) ([]model.HashtagStat, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT hashtag, target_user_id, frequency, last_seen FROM hashtag_stats
	WHERE target_user_id=? ORDER BY frequency DESC, id`, targetUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.HashtagStat
	for rows.Next() {
		var s model.HashtagStat
		var seen int64
		if err := rows.Scan(&s.Hashtag, &s.TargetUserID, &s.Frequency, &seen); err != nil {
			return nil, err
		}
		s.LastSeen = time.Unix(seen, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// NetworkMember is a discovered connection joined with its user record,
// used by network summary exports.
type NetworkMember struct {
	UserID         string
	Username       string
	FullName       string
	FollowerCount  int
	FollowingCount int
	Depth          int
}

// NetworkSummary returns the crawled network joined with user records,
// ordered by follower count descending.
func (d *DB) NetworkSummary(ctx context.Context) ([]NetworkMember, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT n.target_user_id, u.username, u.full_name, u.follower_count, u.following_count, MIN(n.network_depth)
	FROM user_network n JOIN users u ON u.user_id = n.target_user_id
	GROUP BY n.target_user_id
	ORDER BY u.follower_count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []NetworkMember
	for rows.Next() {
		var m NetworkMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.FullName, &m.FollowerCount, &m.FollowingCount, &m.Depth); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
