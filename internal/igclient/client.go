package igclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/metrics"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
)

// ErrNotFound is returned when the platform reports no such user or media.
var ErrNotFound = errors.New("not found")

// Client defines the platform capabilities the core consumes. Any call
// may fail or rate-limit; callers treat failures as non-fatal and skip
// the affected item.
type Client interface {
	ResolveUser(ctx context.Context, username string) (model.User, error)
	GetFollowing(ctx context.Context, userID string, limit int) ([]model.User, error)
	GetUserPosts(ctx context.Context, userID string, limit int) ([]model.Post, error)
	GetPostLikers(ctx context.Context, postID string, limit int) ([]model.User, error)
}

// HTTPClient is a session-token client for the Instagram web API.
type HTTPClient struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxAttempts  int
	baseBackoff  time.Duration
}

func NewHTTPClient(sessionToken, baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://i.instagram.com/api/v1"
	}
	return &HTTPClient{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		limiter:      newDefaultLimiter(),
		maxAttempts:  getEnvInt("IG_API_MAX_ATTEMPTS", 5),
		baseBackoff:  time.Duration(getEnvInt("IG_API_BASE_BACKOFF_MS", 500)) * time.Millisecond,
	}
}

func (c *HTTPClient) auth(req *http.Request) {
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}
	req.Header.Set("Accept", "application/json")
}

type rawUser struct {
	PK             string `json:"pk"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	IsPrivate      bool   `json:"is_private"`
	Biography      string `json:"biography"`
}

func (r rawUser) toModel() model.User {
	return model.User{
		ID:             r.PK,
		Username:       r.Username,
		FullName:       r.FullName,
		FollowerCount:  r.FollowerCount,
		FollowingCount: r.FollowingCount,
		IsPrivate:      r.IsPrivate,
		Bio:            r.Biography,
	}
}

type rawMedia struct {
	PK           string `json:"pk"`
	Code         string `json:"code"`
	CaptionText  string `json:"caption_text"`
	LikeCount    int    `json:"like_count"`
	CommentCount int    `json:"comment_count"`
	MediaType    int    `json:"media_type"`
	TakenAt      int64  `json:"taken_at"`
	Location     struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (r rawMedia) toModel(authorID string) model.Post {
	return model.Post{
		ID:           r.PK,
		AuthorID:     authorID,
		URL:          "https://instagram.com/p/" + r.Code,
		Caption:      r.CaptionText,
		LikeCount:    r.LikeCount,
		CommentCount: r.CommentCount,
		Type:         mediaTypeName(r.MediaType),
		Location:     r.Location.Name,
		TakenAt:      time.Unix(r.TakenAt, 0).UTC(),
	}
}

func mediaTypeName(t int) string {
	switch t {
	case 2:
		return "video"
	case 8:
		return "carousel"
	default:
		return "photo"
	}
}

// ResolveUser looks a user up by handle.
func (c *HTTPClient) ResolveUser(ctx context.Context, username string) (model.User, error) {
	var out model.User
	if username == "" {
		return out, errors.New("empty username")
	}
	u := fmt.Sprintf("%s/users/by/username/%s", c.baseURL, url.PathEscape(username))
	var raw struct {
		User rawUser `json:"user"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return out, err
	}
	return raw.User.toModel(), nil
}

// GetFollowing returns up to limit accounts the user follows.
func (c *HTTPClient) GetFollowing(ctx context.Context, userID string, limit int) ([]model.User, error) {
	u := fmt.Sprintf("%s/users/%s/following?count=%d", c.baseURL, url.PathEscape(userID), clamp(limit, 1, 200))
	var raw struct {
		Users []rawUser `json:"users"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(raw.Users))
	for _, r := range raw.Users {
		out = append(out, r.toModel())
	}
	return out, nil
}

// GetUserPosts returns up to limit recent media for a user.
func (c *HTTPClient) GetUserPosts(ctx context.Context, userID string, limit int) ([]model.Post, error) {
	u := fmt.Sprintf("%s/users/%s/media?count=%d", c.baseURL, url.PathEscape(userID), clamp(limit, 1, 50))
	var raw struct {
		Items []rawMedia `json:"items"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Post, 0, len(raw.Items))
	for _, r := range raw.Items {
		out = append(out, r.toModel(userID))
	}
	return out, nil
}

// GetPostLikers returns up to limit accounts that liked a post.
func (c *HTTPClient) GetPostLikers(ctx context.Context, postID string, limit int) ([]model.User, error) {
	u := fmt.Sprintf("%s/media/%s/likers?count=%d", c.baseURL, url.PathEscape(postID), clamp(limit, 1, 1000))
	var raw struct {
		Users []rawUser `json:"users"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(raw.Users))
	for _, r := range raw.Users {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.auth(req)
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("instagram api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *HTTPClient) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	backoff := c.baseBackoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599) {
				ra := resp.Header.Get("Retry-After")
				_ = resp.Body.Close()
				metrics.IncAPIRetry(req.URL.Path)
				wait := backoff
				if ra != "" {
					if secs, err := strconv.Atoi(ra); err == nil {
						wait = time.Duration(secs) * time.Second
					} else if t, err := http.ParseTime(ra); err == nil {
						if d := time.Until(t); d > 0 {
							wait = d
						}
					}
				}
				// jitter +/-20%
				jitter := time.Duration(float64(wait) * 0.2)
				if jitter > 0 {
					wait = wait - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter))
				}
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				backoff *= 2
				continue
			}
			return resp, nil
		}
		lastErr = err
		metrics.IncAPIRetry(req.URL.Path)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("request failed after %d attempts: %v", c.maxAttempts, lastErr)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil && i > 0 {
		return i
	}
	return def
}
