// Package publish delivers rendered recaps to an external sink.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/dci-recap/internal/config"
)

// ErrPublish is the sentinel every publish failure wraps.
var ErrPublish = errors.New("publish failed")

// PublishError records which sink rejected a post.
type PublishError struct {
	Sink  string
	Title string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %q to %s: %v", e.Title, e.Sink, e.Err)
}

func (e *PublishError) Unwrap() []error { return []error{ErrPublish, e.Err} }

// Publisher posts a titled Markdown body.
type Publisher interface {
	Publish(ctx context.Context, title, body string) error
	Name() string
}

const httpTimeout = 30 * time.Second

// New constructs the publisher selected by cfg.Publisher.
func New(cfg *config.Config, logger *slog.Logger) (Publisher, error) {
	client := &http.Client{Timeout: httpTimeout}
	switch cfg.Publisher {
	case config.PublisherLog, "":
		return NewLogPublisher(logger), nil
	case config.PublisherReddit:
		return NewRedditPublisher(RedditOptions{
			ClientID:     cfg.Reddit.ClientID,
			ClientSecret: cfg.Reddit.ClientSecret,
			Username:     cfg.Reddit.Username,
			Password:     cfg.Reddit.Password,
			Subreddit:    cfg.Reddit.Subreddit,
			UserAgent:    cfg.UserAgent,
		}, client, logger), nil
	case config.PublisherTelegram:
		return NewTelegramPublisher(cfg.Telegram.BotToken, cfg.Telegram.ChatID, client, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown publisher %q", config.ErrInvalidConfig, cfg.Publisher)
	}
}

// truncate shortens a response body for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
