package recap

import (
	"errors"
	"fmt"

	"github.com/albapepper/dci-recap/internal/provider"
	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
)

// FindParticipant returns the first performance whose group name matches
// target exactly.
func FindParticipant(detail competitionsuite.Detail, target string) (*competitionsuite.Performance, bool) {
	for i := range detail {
		if detail[i].GroupName == target {
			return &detail[i], true
		}
	}
	return nil, false
}

// ExtractVisualCaptions reads every subcaption of the participant's Visual
// category, in payload order.
func ExtractVisualCaptions(p *competitionsuite.Performance) ([]CaptionRecord, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: no performance", ErrMalformedScoreData)
	}

	var visual *competitionsuite.Category
	for i := range p.Categories {
		if p.Categories[i].Name == VisualCategory {
			visual = &p.Categories[i]
			break
		}
	}
	if visual == nil {
		return nil, fmt.Errorf("%w: %s has no %s category", ErrMalformedScoreData, p.GroupName, VisualCategory)
	}

	records := make([]CaptionRecord, 0, len(visual.Captions))
	for i, caption := range visual.Captions {
		rec, err := captionRecord(caption)
		if err != nil {
			return nil, fmt.Errorf("%w: %s caption %d (%q): %s", ErrMalformedScoreData, VisualCategory, i, caption.Name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// captionRecord validates one subcaption. Errors returned here are plain
// descriptions; the caller adds the sentinel and position.
func captionRecord(c competitionsuite.Caption) (CaptionRecord, error) {
	if c.JudgeFirstName == nil || c.JudgeLastName == nil {
		return CaptionRecord{}, errors.New("judge name missing")
	}
	if len(c.Subcaptions) != subScoresPerCaption {
		return CaptionRecord{}, fmt.Errorf("want %d sub-scores, got %d", subScoresPerCaption, len(c.Subcaptions))
	}

	content, ok := provider.ExtractScore(c.Subcaptions[0].Score)
	if !ok {
		return CaptionRecord{}, fmt.Errorf("content score %s is not numeric", string(c.Subcaptions[0].Score))
	}
	achievement, ok := provider.ExtractScore(c.Subcaptions[1].Score)
	if !ok {
		return CaptionRecord{}, fmt.Errorf("achievement score %s is not numeric", string(c.Subcaptions[1].Score))
	}

	return CaptionRecord{
		JudgeFullName: *c.JudgeFirstName + " " + *c.JudgeLastName,
		Subcaption:    c.Name,
		Content:       content,
		Achievement:   achievement,
	}, nil
}

// Parse builds the recap for target. ok is false, with a nil error, when the
// target did not compete in this event.
func Parse(detail competitionsuite.Detail, summary EventSummary, target string) (r Recap, ok bool, err error) {
	p, found := FindParticipant(detail, target)
	if !found {
		return Recap{}, false, nil
	}

	captions, err := ExtractVisualCaptions(p)
	if err != nil {
		return Recap{}, false, err
	}

	return Recap{
		Title:       summary.Name,
		Date:        summary.Date,
		Participant: target,
		Captions:    captions,
	}, true, nil
}
