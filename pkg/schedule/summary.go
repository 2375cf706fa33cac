package schedule

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SummaryLines reduces a course summary HTML fragment to plain text lines:
// <br> becomes a line break, every other tag is stripped, and lines are
// trimmed with empty ones discarded.
func SummaryLines(fragment string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return []string{}
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")

	return SplitLines(doc.Text())
}

// SplitLines splits already stripped text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
