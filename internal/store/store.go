package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/metrics"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/retry"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// DB wraps the SQLite database holding users, network edges, posts,
// target-user likes, and hashtag stats. Every write is a single
// statement, so each record commits or rolls back independently; a
// failed write never poisons the rest of a batch.
type DB struct {
	sql   *sql.DB
	retry retry.Policy
}

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// single connection: serializes writers and keeps :memory: databases
	// on one handle
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d, retry: retry.Policy{MaxAttempts: 3, BaseDelay: 50 * time.Millisecond, Jitter: 50 * time.Millisecond}}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS users (
	  user_id TEXT PRIMARY KEY,
	  username TEXT UNIQUE NOT NULL,
	  full_name TEXT DEFAULT '',
	  follower_count INTEGER DEFAULT 0,
	  following_count INTEGER DEFAULT 0,
	  is_private INTEGER DEFAULT 0,
	  bio TEXT DEFAULT '',
	  created_at INTEGER NOT NULL,
	  last_updated INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS user_network (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  source_user_id TEXT NOT NULL,
	  target_user_id TEXT NOT NULL,
	  relationship_type TEXT NOT NULL,
	  network_depth INTEGER NOT NULL,
	  discovered_at INTEGER NOT NULL,
	  UNIQUE(source_user_id, target_user_id, relationship_type)
	);
	CREATE INDEX IF NOT EXISTS idx_network_target ON user_network(target_user_id);
	CREATE TABLE IF NOT EXISTS posts (
	  post_id TEXT PRIMARY KEY,
	  author_user_id TEXT NOT NULL,
	  post_url TEXT NOT NULL,
	  caption TEXT DEFAULT '',
	  like_count INTEGER DEFAULT 0,
	  comment_count INTEGER DEFAULT 0,
	  post_type TEXT DEFAULT 'photo',
	  hashtags TEXT DEFAULT '[]',
	  mentions TEXT DEFAULT '[]',
	  location TEXT DEFAULT '',
	  post_date INTEGER,
	  last_updated INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_user_id);
	CREATE TABLE IF NOT EXISTS target_user_likes (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  target_user_id TEXT NOT NULL,
	  post_id TEXT NOT NULL,
	  like_timestamp INTEGER NOT NULL,
	  network_depth INTEGER NOT NULL,
	  depth_known INTEGER NOT NULL DEFAULT 1,
	  post_category TEXT DEFAULT 'general',
	  discovery_method TEXT DEFAULT 'network_traversal',
	  UNIQUE(target_user_id, post_id)
	);
	CREATE INDEX IF NOT EXISTS idx_likes_target ON target_user_likes(target_user_id);
	CREATE TABLE IF NOT EXISTS hashtag_stats (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  hashtag TEXT NOT NULL,
	  target_user_id TEXT NOT NULL,
	  frequency INTEGER NOT NULL DEFAULT 1,
	  last_seen INTEGER NOT NULL,
	  UNIQUE(hashtag, target_user_id)
	);
	CREATE TABLE IF NOT EXISTS processing_log (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  process_type TEXT NOT NULL,
	  status TEXT NOT NULL,
	  target_user_id TEXT,
	  records_processed INTEGER DEFAULT 0,
	  error_message TEXT,
	  started_at INTEGER NOT NULL,
	  completed_at INTEGER
	);
	`)
	return err
}

// exec runs a write statement, retrying transient busy/locked failures.
func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := retry.Do(ctx, d.retry, func() error {
		var err error
		res, err = d.sql.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		metrics.StoreErrors.Inc()
	}
	return res, err
}

// UpsertUser inserts a user or refreshes its mutable fields.
func (d *DB) UpsertUser(ctx context.Context, u model.User) error {
	now := time.Now().UTC().Unix()
	_, err := d.exec(ctx, `
	INSERT INTO users(user_id, username, full_name, follower_count, following_count, is_private, bio, created_at, last_updated)
	VALUES(?,?,?,?,?,?,?,?,?)
	ON CONFLICT(user_id) DO UPDATE SET
	  username=excluded.username,
	  full_name=excluded.full_name,
	  follower_count=excluded.follower_count,
	  following_count=excluded.following_count,
	  is_private=excluded.is_private,
	  bio=excluded.bio,
	  last_updated=excluded.last_updated`,
		u.ID, u.Username, u.FullName, u.FollowerCount, u.FollowingCount, boolInt(u.IsPrivate), u.Bio, now, now)
	return err
}

// InsertEdge records a network relationship with insert-if-absent
// semantics: an edge already present keeps its first-discovered depth.
// It reports whether a new row was written.
func (d *DB) InsertEdge(ctx context.Context, e model.NetworkEdge) (bool, error) {
	res, err := d.exec(ctx, `
	INSERT INTO user_network(source_user_id, target_user_id, relationship_type, network_depth, discovered_at)
	VALUES(?,?,?,?,?)
	ON CONFLICT(source_user_id, target_user_id, relationship_type) DO NOTHING`,
		e.SourceID, e.TargetID, e.Kind, e.Depth, time.Now().UTC().Unix())
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpsertPost inserts a post or refreshes its engagement counters.
func (d *DB) UpsertPost(ctx context.Context, p model.Post) error {
	hb, _ := json.Marshal(emptyIfNil(p.Hashtags))
	mb, _ := json.Marshal(emptyIfNil(p.Mentions))
	_, err := d.exec(ctx, `
	INSERT INTO posts(post_id, author_user_id, post_url, caption, like_count, comment_count, post_type, hashtags, mentions, location, post_date, last_updated)
	VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT(post_id) DO UPDATE SET
	  like_count=excluded.like_count,
	  comment_count=excluded.comment_count,
	  last_updated=excluded.last_updated`,
		p.ID, p.AuthorID, p.URL, p.Caption, p.LikeCount, p.CommentCount, p.Type, string(hb), string(mb), p.Location, p.TakenAt.UTC().Unix(), time.Now().UTC().Unix())
	return err
}

// InsertLike records a target-user like once per (target, post).
// It reports whether a new row was written.
func (d *DB) InsertLike(ctx context.Context, l model.Like) (bool, error) {
	res, err := d.exec(ctx, `
	INSERT INTO target_user_likes(target_user_id, post_id, like_timestamp, network_depth, depth_known, post_category, discovery_method)
	VALUES(?,?,?,?,?,?,?)
	ON CONFLICT(target_user_id, post_id) DO NOTHING`,
		l.TargetUserID, l.PostID, l.Timestamp.UTC().Unix(), l.Depth, boolInt(l.DepthKnown), l.Category, l.DiscoveryMethod)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpsertHashtagStat writes the latest full frequency for a
// (hashtag, target) pair. Re-running an analysis replaces the count
// rather than compounding it.
func (d *DB) UpsertHashtagStat(ctx context.Context, s model.HashtagStat) error {
	_, err := d.exec(ctx, `
	INSERT INTO hashtag_stats(hashtag, target_user_id, frequency, last_seen)
	VALUES(?,?,?,?)
	ON CONFLICT(hashtag, target_user_id) DO UPDATE SET
	  frequency=excluded.frequency,
	  last_seen=excluded.last_seen`,
		s.Hashtag, s.TargetUserID, s.Frequency, s.LastSeen.UTC().Unix())
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
