package publish

import (
	"context"
	"log/slog"
)

// LogPublisher writes posts to the logger instead of an external service.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Name() string { return "log" }

func (p *LogPublisher) Publish(_ context.Context, title, body string) error {
	p.logger.Info("recap", "title", title, "body", body)
	return nil
}
