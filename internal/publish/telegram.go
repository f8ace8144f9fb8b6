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
	"unicode/utf8"
)

const (
	defaultTelegramBaseURL = "https://api.telegram.org"
	telegramMaxMessage     = 4096
)

// TelegramPublisher sends posts to one chat via the Bot API.
type TelegramPublisher struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
	logger   *slog.Logger
}

func NewTelegramPublisher(botToken, chatID string, client *http.Client, logger *slog.Logger) *TelegramPublisher {
	return &TelegramPublisher{
		baseURL:  defaultTelegramBaseURL,
		botToken: botToken,
		chatID:   chatID,
		client:   client,
		logger:   logger.With("component", "telegram"),
	}
}

// WithBaseURL points the publisher at another Bot API host.
func (p *TelegramPublisher) WithBaseURL(base string) *TelegramPublisher {
	p.baseURL = strings.TrimRight(base, "/")
	return p
}

func (p *TelegramPublisher) Name() string { return "telegram" }

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Publish sends title and body as plain text. Telegram has no Markdown
// tables, so the body is sent verbatim rather than parsed. Posts longer than
// one message are split on line boundaries and sent in order; a failed part
// fails the whole post.
func (p *TelegramPublisher) Publish(ctx context.Context, title, body string) error {
	if p.botToken == "" || p.chatID == "" {
		return p.fail(title, fmt.Errorf("telegram publisher misconfigured"))
	}

	parts := splitMessage(title+"\n\n"+body, telegramMaxMessage)
	if len(parts) > 1 {
		p.logger.Info("post exceeds one message, splitting", "title", title, "parts", len(parts))
	}
	for i, text := range parts {
		if err := p.send(ctx, text); err != nil {
			if len(parts) > 1 {
				err = fmt.Errorf("part %d/%d: %w", i+1, len(parts), err)
			}
			return p.fail(title, err)
		}
	}
	return nil
}

func (p *TelegramPublisher) send(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", p.chatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", p.baseURL, p.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		// The URL carries the token; report the operation only.
		return fmt.Errorf("do request: %w", redactURLError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read response: status %d: %w", resp.StatusCode, err)
	}
	var out telegramResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode response: status %d: %w: %s", resp.StatusCode, err, truncate(string(raw), 200))
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("telegram error: status %d: %s", resp.StatusCode, truncate(out.Description, 200))
	}
	return nil
}

func (p *TelegramPublisher) fail(title string, err error) error {
	return &PublishError{Sink: p.Name(), Title: title, Err: err}
}

func redactURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// splitMessage breaks s into chunks of at most n runes, cutting after a
// newline where possible. A single line longer than n is cut mid-line.
func splitMessage(s string, n int) []string {
	var parts []string
	for utf8.RuneCountInString(s) > n {
		r := []rune(s)
		cut := n
		for i := n - 1; i > 0; i-- {
			if r[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(r[:cut]), "\n"))
		s = string(r[cut:])
	}
	return append(parts, s)
}
