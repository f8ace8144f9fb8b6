package recap

import (
	"fmt"
	"strings"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// Render formats the recap as a Markdown post body. footer is appended after
// a horizontal rule when non-empty.
func Render(r Recap, footer string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s %s Recap\n\n", cell(r.Participant), VisualCategory)
	if r.Date != "" {
		fmt.Fprintf(&b, "%s (%s)\n\n", cell(r.Title), cell(r.Date))
	} else {
		fmt.Fprintf(&b, "%s\n\n", cell(r.Title))
	}

	if r.Empty() {
		fmt.Fprintf(&b, "_No %s caption scores were published for this event._\n", VisualCategory)
	} else {
		b.WriteString("Caption|Judge|Content|Achievement|Total\n")
		b.WriteString(":--|:--|--:|--:|--:\n")
		for _, c := range r.Captions {
			fmt.Fprintf(&b, "%s|%s|%.2f|%.2f|%.2f\n",
				cell(c.Subcaption), cell(c.JudgeFullName), c.Content, c.Achievement, c.Total())
		}
	}

	if footer = strings.TrimSpace(footer); footer != "" {
		b.WriteString("\n---\n\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}
	return b.String()
}

func cell(s string) string {
	return cellEscaper.Replace(strings.TrimSpace(s))
}
