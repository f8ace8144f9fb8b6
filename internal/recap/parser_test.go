package recap

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
)

func strp(s string) *string { return &s }

func visualCaption(name, first, last string, scores ...string) competitionsuite.Caption {
	c := competitionsuite.Caption{Name: name, JudgeFirstName: strp(first), JudgeLastName: strp(last)}
	for _, s := range scores {
		c.Subcaptions = append(c.Subcaptions, competitionsuite.SubScore{Score: json.RawMessage(s)})
	}
	return c
}

func performance(group string, captions ...competitionsuite.Caption) competitionsuite.Performance {
	return competitionsuite.Performance{
		GroupName: group,
		Categories: []competitionsuite.Category{
			{Name: "Music", Captions: []competitionsuite.Caption{visualCaption("Brass", "Pat", "Horn", "9.1", "9.2")}},
			{Name: VisualCategory, Captions: captions},
		},
	}
}

var showOne = EventSummary{ID: "e1", Name: "Show One", Date: "2022-06-01"}

func TestFindParticipant(t *testing.T) {
	Convey("Given a detail with several groups", t, func() {
		detail := competitionsuite.Detail{
			performance("Blue Devils"),
			performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", "9.5", "9.8")),
			performance("Bluecoats"),
		}

		Convey("an exact name match returns the first matching performance", func() {
			p, ok := FindParticipant(detail, "Bluecoats")
			So(ok, ShouldBeTrue)
			So(p, ShouldPointTo, &detail[1])
		})

		Convey("matching is exact", func() {
			_, ok := FindParticipant(detail, "bluecoats")
			So(ok, ShouldBeFalse)
			_, ok = FindParticipant(detail, "Blue")
			So(ok, ShouldBeFalse)
		})

		Convey("an empty detail finds nothing", func() {
			_, ok := FindParticipant(nil, "Bluecoats")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestExtractVisualCaptions(t *testing.T) {
	Convey("Given a performance with a Visual category", t, func() {
		Convey("captions are returned in payload order with combined judge names", func() {
			p := performance("Bluecoats",
				visualCaption("GE1", "Jane", "Doe", "9.5", "9.8"),
				visualCaption("Visual Proficiency", "John", "Smith", `{"Score":"9.25"}`, `9.5`),
			)
			records, err := ExtractVisualCaptions(&p)
			So(err, ShouldBeNil)
			So(records, ShouldResemble, []CaptionRecord{
				{JudgeFullName: "Jane Doe", Subcaption: "GE1", Content: 9.5, Achievement: 9.8},
				{JudgeFullName: "John Smith", Subcaption: "Visual Proficiency", Content: 9.25, Achievement: 9.5},
			})
		})

		Convey("an empty Visual category yields no records and no error", func() {
			p := performance("Bluecoats")
			records, err := ExtractVisualCaptions(&p)
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})

		Convey("a caption with a single sub-score is malformed", func() {
			p := performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", "9.5"))
			_, err := ExtractVisualCaptions(&p)
			So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
		})

		Convey("a caption with three sub-scores is malformed", func() {
			p := performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", "9.5", "9.8", "1"))
			_, err := ExtractVisualCaptions(&p)
			So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
		})

		Convey("a non-numeric score is malformed", func() {
			p := performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", `"n/a"`, "9.8"))
			_, err := ExtractVisualCaptions(&p)
			So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
		})

		Convey("a NaN or infinite score is malformed", func() {
			for _, bad := range []string{`"NaN"`, `"-Infinity"`} {
				p := performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", "9.5", bad))
				_, err := ExtractVisualCaptions(&p)
				So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
			}
		})

		Convey("a missing judge name is malformed", func() {
			c := visualCaption("GE1", "Jane", "Doe", "9.5", "9.8")
			c.JudgeLastName = nil
			p := performance("Bluecoats", c)
			_, err := ExtractVisualCaptions(&p)
			So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
		})
	})

	Convey("Given a performance without a Visual category", t, func() {
		p := competitionsuite.Performance{
			GroupName:  "Bluecoats",
			Categories: []competitionsuite.Category{{Name: "Music"}},
		}
		_, err := ExtractVisualCaptions(&p)
		So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
	})

	Convey("Given no performance at all", t, func() {
		_, err := ExtractVisualCaptions(nil)
		So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
	})
}

func TestParse(t *testing.T) {
	Convey("Given the target competed", t, func() {
		detail := competitionsuite.Detail{
			performance("Blue Devils", visualCaption("GE1", "Other", "Judge", "9.9", "9.9")),
			performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", "9.5", "9.8")),
		}

		r, ok, err := Parse(detail, showOne, "Bluecoats")

		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(r.Title, ShouldEqual, "Show One")
		So(r.Date, ShouldEqual, "2022-06-01")
		So(r.Participant, ShouldEqual, "Bluecoats")
		So(r.Captions, ShouldHaveLength, 1)
		So(r.Captions[0].JudgeFullName, ShouldEqual, "Jane Doe")
		So(r.Captions[0].Total(), ShouldAlmostEqual, 19.3, 1e-9)
	})

	Convey("Given the target did not compete", t, func() {
		detail := competitionsuite.Detail{performance("Blue Devils")}

		Convey("Parse reports absence without error", func() {
			_, ok, err := Parse(detail, showOne, "Bluecoats")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("other groups' malformed data is never inspected", func() {
			broken := competitionsuite.Detail{performance("Blue Devils", visualCaption("GE1", "A", "B", "9.5"))}
			_, ok, err := Parse(broken, showOne, "Bluecoats")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given the target's data is malformed", t, func() {
		detail := competitionsuite.Detail{performance("Bluecoats", visualCaption("GE1", "Jane", "Doe", "9.5"))}

		_, ok, err := Parse(detail, showOne, "Bluecoats")
		So(ok, ShouldBeFalse)
		So(errors.Is(err, ErrMalformedScoreData), ShouldBeTrue)
	})

	Convey("Given a raw payload straight off the wire", t, func() {
		payload := `[{"GroupName":"Bluecoats","Categories":[{"Name":"Visual","Captions":[
			{"Name":"GE1","JudgeFirstName":"Jane","JudgeLastName":"Doe","Subcaptions":[{"Score":9.5},{"Score":"9.8"}]}
		]}]}]`
		var detail competitionsuite.Detail
		So(json.Unmarshal([]byte(payload), &detail), ShouldBeNil)

		r, ok, err := Parse(detail, showOne, "Bluecoats")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(r.Captions, ShouldResemble, []CaptionRecord{
			{JudgeFullName: "Jane Doe", Subcaption: "GE1", Content: 9.5, Achievement: 9.8},
		})
	})
}
