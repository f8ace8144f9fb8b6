// Package recap turns a competitionsuite performances payload into the
// Visual caption recap for one participant and renders it as Markdown.
//
// Parsing is pure: no I/O, no logging. Structural problems in the payload are
// reported as ErrMalformedScoreData; a participant that did not compete is not
// an error.
package recap

import (
	"errors"

	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
)

// VisualCategory is the only score category a recap reports.
const VisualCategory = "Visual"

// subScoresPerCaption is the fixed (content, achievement) pair.
const subScoresPerCaption = 2

// ErrMalformedScoreData marks a payload that does not have the expected shape.
var ErrMalformedScoreData = errors.New("malformed score data")

// EventSummary identifies the event a recap belongs to.
type EventSummary = competitionsuite.Event

// CaptionRecord is one judged Visual subcaption.
type CaptionRecord struct {
	JudgeFullName string  `json:"judge"`
	Subcaption    string  `json:"subcaption"`
	Content       float64 `json:"content"`
	Achievement   float64 `json:"achievement"`
}

// Total is the caption score: content plus achievement.
func (c CaptionRecord) Total() float64 {
	return c.Content + c.Achievement
}

// Recap is the per-event summary handed to a publisher.
type Recap struct {
	Title       string          `json:"title"`
	Date        string          `json:"date"`
	Participant string          `json:"participant"`
	Captions    []CaptionRecord `json:"captions"`
}

// Empty reports whether the recap has no caption rows.
func (r Recap) Empty() bool {
	return len(r.Captions) == 0
}
