package poll

import (
	"context"
	"fmt"

	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
	"github.com/albapepper/dci-recap/internal/recap"
)

// Preview is a rendered recap that was neither published nor recorded.
type Preview struct {
	Event    competitionsuite.Event `json:"event"`
	Found    bool                   `json:"found"`
	Recap    recap.Recap            `json:"recap"`
	Markdown string                 `json:"markdown,omitempty"`
}

// Preview fetches and renders the recap for one event. The event's name and
// date come from the configured year's listing when it is present there.
func (c *Cycle) Preview(ctx context.Context, eventID string) (*Preview, error) {
	ev := competitionsuite.Event{ID: eventID}
	events, err := c.fetcher.ListEvents(ctx, c.opts.Year)
	if err != nil {
		return nil, fmt.Errorf("list events for %d: %w", c.opts.Year, err)
	}
	for _, e := range events {
		if e.ID == eventID {
			ev = e
			break
		}
	}

	detail, err := c.fetcher.FetchDetail(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch event %s: %w", eventID, err)
	}

	r, ok, err := recap.Parse(detail, ev, c.opts.Target)
	if err != nil {
		return nil, fmt.Errorf("parse event %s: %w", eventID, err)
	}

	p := &Preview{Event: ev, Found: ok, Recap: r}
	if ok {
		p.Markdown = recap.Render(r, c.opts.Footer)
	}
	return p, nil
}

// Events lists the configured year's events, each flagged as seen or not.
func (c *Cycle) Events(ctx context.Context) ([]EventStatus, error) {
	record, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seen record: %w", err)
	}
	events, err := c.fetcher.ListEvents(ctx, c.opts.Year)
	if err != nil {
		return nil, fmt.Errorf("list events for %d: %w", c.opts.Year, err)
	}

	out := make([]EventStatus, 0, len(events))
	for _, e := range events {
		out = append(out, EventStatus{Event: e, Seen: record.Contains(e.ID)})
	}
	return out, nil
}

// EventStatus pairs an upstream event with whether it has been handled.
type EventStatus struct {
	competitionsuite.Event
	Seen bool `json:"seen"`
}
