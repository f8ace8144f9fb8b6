package recap

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestRender_Golden(t *testing.T) {
	r := Recap{
		Title:       "Show One",
		Date:        "2022-06-01",
		Participant: "Bluecoats",
		Captions: []CaptionRecord{
			{JudgeFullName: "Jane Doe", Subcaption: "Visual Proficiency", Content: 9.5, Achievement: 9.75},
			{JudgeFullName: "John Smith", Subcaption: "Visual Analysis", Content: 9.25, Achievement: 9.5},
		},
	}

	g := goldie.New(t)
	g.Assert(t, "recap", []byte(Render(r, "*beep boop, I'm a bot*")))
}

func TestRender_EmptyGolden(t *testing.T) {
	r := Recap{Title: "Show Two", Participant: "Bluecoats"}

	g := goldie.New(t)
	g.Assert(t, "recap_empty", []byte(Render(r, "")))
}

func TestRender_RowPerCaption(t *testing.T) {
	r := Recap{
		Title:       "Show One",
		Participant: "Bluecoats",
		Captions: []CaptionRecord{
			{JudgeFullName: "Jane Doe", Subcaption: "GE1", Content: 9.5, Achievement: 9.8},
		},
	}

	out := Render(r, "footer")

	assert.Contains(t, out, "GE1|Jane Doe|9.50|9.80|19.30\n")
	assert.Equal(t, 1, strings.Count(out, "Jane Doe"))
	assert.True(t, strings.HasSuffix(out, "---\n\nfooter\n"))
}

func TestRender_EscapesTableCells(t *testing.T) {
	r := Recap{
		Title:       "Show | One",
		Participant: "Bluecoats",
		Captions: []CaptionRecord{
			{JudgeFullName: "Jane|Doe", Subcaption: "GE|1", Content: 1, Achievement: 2},
		},
	}

	out := Render(r, "")

	assert.Contains(t, out, `GE\|1|Jane\|Doe|1.00|2.00|3.00`)
	assert.Contains(t, out, `Show \| One`)
	assert.NotContains(t, out, "---")
}
