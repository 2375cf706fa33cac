package moodle

import (
	"io"

	"github.com/PuerkitoBio/goquery"

	"manabify/pkg/schedule"
)

const summarySelector = "section.block_course_summary .text_to_html"

// ParseCourseSummary returns the text lines of the course summary block.
// A page without a summary block yields no lines.
func ParseCourseSummary(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	summary := doc.Find(summarySelector).First()
	if summary.Length() == 0 {
		return []string{}, nil
	}

	fragment, err := summary.Html()
	if err != nil {
		return nil, err
	}

	return schedule.SummaryLines(fragment), nil
}
