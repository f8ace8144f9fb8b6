package poll

import (
	"fmt"
	"time"
)

// Result tracks the outcome of one poll cycle.
type Result struct {
	RunID         string        `json:"run_id"`
	Listed        int           `json:"listed"`
	New           int           `json:"new"`
	Published     int           `json:"published"`
	Unposted      int           `json:"unposted"`
	SkippedAbsent int           `json:"skipped_absent"`
	SkippedEmpty  int           `json:"skipped_empty"`
	FetchFailed   int           `json:"fetch_failed"`
	Malformed     int           `json:"malformed"`
	PublishFailed int           `json:"publish_failed"`
	Recorded      int           `json:"recorded"`
	Duration      time.Duration `json:"duration_ns"`
	Errors        []string      `json:"errors,omitempty"`
}

// AddErrorf records a formatted per-event error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"listed=%d new=%d published=%d unposted=%d absent=%d empty=%d fetch_failed=%d malformed=%d publish_failed=%d recorded=%d dur=%s",
		r.Listed, r.New, r.Published, r.Unposted, r.SkippedAbsent, r.SkippedEmpty,
		r.FetchFailed, r.Malformed, r.PublishFailed, r.Recorded,
		r.Duration.Round(time.Millisecond))
}
