package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultRedditAuthURL = "https://www.reddit.com/api/v1/access_token"
	defaultRedditAPIURL  = "https://oauth.reddit.com"
)

// RedditOptions are the script-app credentials and target subreddit.
type RedditOptions struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Subreddit    string
	UserAgent    string

	// Overridable for tests.
	AuthURL string
	APIURL  string
}

// RedditPublisher submits self posts using the OAuth password grant.
type RedditPublisher struct {
	opts   RedditOptions
	client *http.Client
	logger *slog.Logger

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewRedditPublisher(opts RedditOptions, client *http.Client, logger *slog.Logger) *RedditPublisher {
	if opts.AuthURL == "" {
		opts.AuthURL = defaultRedditAuthURL
	}
	if opts.APIURL == "" {
		opts.APIURL = defaultRedditAPIURL
	}
	opts.APIURL = strings.TrimRight(opts.APIURL, "/")
	return &RedditPublisher{opts: opts, client: client, logger: logger}
}

func (p *RedditPublisher) Name() string { return "reddit" }

type redditToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

type redditSubmitResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"json"`
}

func (p *RedditPublisher) Publish(ctx context.Context, title, body string) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		return p.fail(title, err)
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("kind", "self")
	form.Set("sr", p.opts.Subreddit)
	form.Set("title", title)
	form.Set("text", body)

	var out redditSubmitResponse
	if err := p.post(ctx, p.opts.APIURL+"/api/submit", form, func(r *http.Request) {
		r.Header.Set("Authorization", "bearer "+token)
	}, &out); err != nil {
		return p.fail(title, fmt.Errorf("submit: %w", err))
	}
	if len(out.JSON.Errors) > 0 {
		return p.fail(title, fmt.Errorf("submit rejected: %v", out.JSON.Errors))
	}

	p.logger.Info("reddit post submitted", "subreddit", p.opts.Subreddit, "title", title, "url", out.JSON.Data.URL)
	return nil
}

// accessToken returns a cached bearer token, refreshing it a minute before
// it expires.
func (p *RedditPublisher) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expires) {
		return p.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", p.opts.Username)
	form.Set("password", p.opts.Password)

	var tok redditToken
	if err := p.post(ctx, p.opts.AuthURL, form, func(r *http.Request) {
		r.SetBasicAuth(p.opts.ClientID, p.opts.ClientSecret)
	}, &tok); err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token: no access token (%s)", tok.Error)
	}

	p.token = tok.AccessToken
	p.expires = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return p.token, nil
}

func (p *RedditPublisher) post(ctx context.Context, endpoint string, form url.Values, auth func(*http.Request), v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.opts.UserAgent)
	auth(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (p *RedditPublisher) fail(title string, err error) error {
	return &PublishError{Sink: p.Name(), Title: title, Err: err}
}
