// Package poll runs the detect-parse-publish-record cycle and the worker
// that repeats it.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/metrics"
	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
	"github.com/albapepper/dci-recap/internal/publish"
	"github.com/albapepper/dci-recap/internal/recap"
	"github.com/albapepper/dci-recap/internal/seen"
)

// ErrCycleInProgress is returned when a cycle is triggered while another one
// is still running in this process.
var ErrCycleInProgress = errors.New("poll cycle already in progress")

// persistTimeout bounds the final write of a cycle. The write runs detached
// from the cycle's context so a cancelled cycle still records what it posted.
const persistTimeout = 30 * time.Second

// Fetcher lists events and fetches their score detail.
type Fetcher interface {
	ListEvents(ctx context.Context, year int) ([]competitionsuite.Event, error)
	FetchDetail(ctx context.Context, eventID string) (competitionsuite.Detail, error)
}

// Options are the per-cycle settings.
type Options struct {
	Target         string
	Year           int
	PublishEnabled bool
	DeliveryMode   string
	PublishEmpty   bool
	Footer         string
}

// OptionsFromConfig copies the cycle settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Target:         cfg.TargetParticipant,
		Year:           cfg.Year,
		PublishEnabled: cfg.PublishEnabled,
		DeliveryMode:   cfg.DeliveryMode,
		PublishEmpty:   cfg.PublishEmptyRecaps,
		Footer:         cfg.Footer,
	}
}

// Cycle holds the collaborators of one poll pass. Run must not overlap
// itself; wrap the cycle in a Runner. Preview and Events are read-only and
// may run alongside it.
type Cycle struct {
	fetcher   Fetcher
	store     seen.Store
	publisher publish.Publisher
	opts      Options
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewCycle wires a cycle. m may be nil.
func NewCycle(f Fetcher, s seen.Store, p publish.Publisher, opts Options, logger *slog.Logger, m *metrics.Metrics) *Cycle {
	if opts.DeliveryMode == "" {
		opts.DeliveryMode = config.AtLeastOnce
	}
	return &Cycle{
		fetcher:   f,
		store:     s,
		publisher: p,
		opts:      opts,
		logger:    logger,
		metrics:   m,
	}
}

// Options returns the settings the cycle runs with.
func (c *Cycle) Options() Options { return c.opts }

// Run performs one pass: load the seen record, list events, handle each new
// one in upstream order, then persist once if anything was appended.
//
// Per-event failures are counted and logged; the event stays unrecorded so
// the next cycle retries it. Only load, list and persist failures are
// returned as errors.
func (c *Cycle) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	log := c.logger.With("run_id", result.RunID)

	err := c.run(ctx, log, result)

	result.Duration = time.Since(start)
	c.metrics.ObserveCycle(result.Duration, err)
	if err != nil {
		log.Error("poll cycle failed", "error", err, "summary", result.Summary())
		return result, err
	}
	log.Info("poll cycle complete", "summary", result.Summary())
	return result, nil
}

func (c *Cycle) run(ctx context.Context, log *slog.Logger, result *Result) error {
	record, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load seen record: %w", err)
	}

	events, err := c.fetcher.ListEvents(ctx, c.opts.Year)
	if err != nil {
		return fmt.Errorf("list events for %d: %w", c.opts.Year, err)
	}
	result.Listed = len(events)
	log.Debug("events listed", "year", c.opts.Year, "count", len(events), "seen", record.Len())

	appended := 0
	var cancelled error
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		if record.Contains(ev.ID) {
			continue
		}
		result.New++

		if c.handle(ctx, log.With("event_id", ev.ID, "event", ev.Name), ev, result) {
			if record.Append(seen.Entry{Name: ev.Name, Date: ev.Date, ID: ev.ID}) {
				appended++
			}
		}
	}

	if appended > 0 {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		err := c.store.Persist(pctx, record)
		cancel()
		if err != nil {
			return fmt.Errorf("persist seen record: %w", err)
		}
		result.Recorded = appended
		c.metrics.Recorded(appended)
	}
	c.metrics.SeenEntries(record.Len())
	return cancelled
}

// handle processes one new event and reports whether it should be recorded.
func (c *Cycle) handle(ctx context.Context, log *slog.Logger, ev competitionsuite.Event, result *Result) bool {
	detail, err := c.fetcher.FetchDetail(ctx, ev.ID)
	if err != nil {
		result.FetchFailed++
		result.AddErrorf("event %s: %v", ev.ID, err)
		c.metrics.EventOutcome(metrics.OutcomeFetchFailed)
		log.Warn("detail fetch failed, will retry next cycle", "error", err)
		return false
	}

	r, ok, err := recap.Parse(detail, ev, c.opts.Target)
	if err != nil {
		result.Malformed++
		result.AddErrorf("event %s: %v", ev.ID, err)
		c.metrics.EventOutcome(metrics.OutcomeMalformed)
		log.Error("malformed score data, event not recorded", "error", err)
		return false
	}
	if !ok {
		result.SkippedAbsent++
		c.metrics.EventOutcome(metrics.OutcomeSkippedAbsent)
		log.Info("participant did not compete, recording without a post", "participant", c.opts.Target)
		return true
	}
	if r.Empty() && !c.opts.PublishEmpty {
		result.SkippedEmpty++
		c.metrics.EventOutcome(metrics.OutcomeSkippedEmpty)
		log.Info("no visual captions, recording without a post")
		return true
	}

	body := recap.Render(r, c.opts.Footer)
	if !c.opts.PublishEnabled {
		result.Unposted++
		c.metrics.EventOutcome(metrics.OutcomeUnposted)
		log.Info("publishing disabled, recording without a post", "title", r.Title, "body", body)
		return true
	}

	if err := c.publisher.Publish(ctx, r.Title, body); err != nil {
		result.PublishFailed++
		result.AddErrorf("event %s: %v", ev.ID, err)
		c.metrics.EventOutcome(metrics.OutcomePublishFailed)
		if c.opts.DeliveryMode == config.AtMostOnce {
			log.Error("publish failed, recording anyway", "delivery_mode", c.opts.DeliveryMode, "error", err)
			return true
		}
		log.Error("publish failed, will retry next cycle", "delivery_mode", c.opts.DeliveryMode, "error", err)
		return false
	}

	result.Published++
	c.metrics.EventOutcome(metrics.OutcomePublished)
	log.Info("recap published", "publisher", c.publisher.Name(), "captions", len(r.Captions))
	return true
}
