package render

import (
	"fmt"
	"strings"

	"github.com/sokinpui/webrev/model"
)

var statusLetters = map[model.Status]string{
	model.StatusAdded:    "A",
	model.StatusRemoved:  "D",
	model.StatusModified: "M",
	model.StatusRenamed:  "R",
	model.StatusCopied:   "C",
}

// StatusLetter is the one-letter tag shown for a file on the index.
func StatusLetter(s model.Status) string {
	if l, ok := statusLetters[s]; ok {
		return l
	}
	return "?"
}

// ChangeSummary formats the line counts of a file or comparison.
func ChangeSummary(changes, additions, deletions int) string {
	return fmt.Sprintf("%d lines changed; %d ins; %d del", changes, additions, deletions)
}

// Index renders the list of changed files with the views offered for each.
func (r *Renderer) Index() string {
	c := r.comparison
	var b strings.Builder

	b.WriteString(fileColor.Sprint(c.Title) + "\n")
	if c.Base != "" || c.Head != "" {
		fmt.Fprintf(&b, "Compare: %s...%s\n", c.Base, c.Head)
	}
	sum := model.Summarize(c.Files)
	fmt.Fprintf(&b, "%d file(s) changed, %s\n\n", sum.Files, ChangeSummary(sum.Changes(), sum.Additions, sum.Deletions))

	if len(c.Files) == 0 {
		b.WriteString("No changes.\n")
		return b.String()
	}

	numWidth := digits(len(c.Files) - 1)
	indent := strings.Repeat(" ", numWidth+5)
	for i, f := range c.Files {
		fmt.Fprintf(&b, "%*d  %s  %s\n", numWidth, i, statusColor.Sprint(StatusLetter(f.Status)), fileColor.Sprint(fileTitle(f)))

		views := make([]string, 0, len(AllViews))
		for _, v := range r.Views(i) {
			views = append(views, string(v))
		}
		b.WriteString(indent + hunkColor.Sprint(strings.Join(views, " ")) + "\n")
		b.WriteString(indent + ChangeSummary(f.Changes(), f.Additions, f.Deletions) + "\n")
	}

	b.WriteString("\nLegend: A added  C copied  D removed  M modified  R renamed\n")
	return b.String()
}
