package moodle

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	dashboardPath      = "/my/"
	courseLinkSelector = `a[href*="course/view.php"]`
	placeholderClass   = ".bg-pulse-grey"
)

var (
	// "コース名\n12345: 線形代数 (2026年度) ..." -> "12345: 線形代数 (2026年度)"
	starredNamePattern = regexp.MustCompile(`(?s)^(コース星付き|コース名).*?\n.*?([0-9]+:[^)]+\([^)]+\)).*$`)
	codedNamePattern   = regexp.MustCompile(`(?s)^.*?([0-9]+:[^)]+\([^)]+\)).*$`)
)

// ExtractCourseInfos finds the course links on a rendered dashboard. Links inside
// loading placeholders and links without text are ignored; URLs are resolved against
// base and the first link per URL wins.
func ExtractCourseInfos(doc *goquery.Document, base *url.URL) []CourseInfo {
	var infos []CourseInfo
	seen := make(map[string]bool)

	doc.Find(courseLinkSelector).Each(func(i int, a *goquery.Selection) {
		if a.Closest(placeholderClass).Length() > 0 {
			return
		}

		href, ok := a.Attr("href")
		if !ok {
			return
		}
		courseURL := normalizeURL(base, href)
		if courseURL == "" || seen[courseURL] {
			return
		}

		name := cleanCourseName(a.Text())
		if name == "" {
			return
		}

		seen[courseURL] = true
		infos = append(infos, CourseInfo{Name: name, URL: courseURL})
	})

	return infos
}

// Discover renders the dashboard and returns the enrolled courses
func Discover(ctx context.Context, r Renderer, base *url.URL) ([]CourseInfo, error) {
	dashboardURL := base.ResolveReference(&url.URL{Path: dashboardPath}).String()

	page, err := r.Render(ctx, dashboardURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard: %w", err)
	}

	return ExtractCourseInfos(doc, base), nil
}

// cleanCourseName keeps the "code: name (term)" part of a card link when present
// and collapses whitespace.
func cleanCourseName(text string) string {
	text = strings.TrimSpace(text)
	if m := starredNamePattern.FindStringSubmatch(text); m != nil {
		text = m[2]
	} else if m := codedNamePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	return strings.Join(strings.Fields(text), " ")
}

func normalizeURL(base *url.URL, href string) string {
	u, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	u.Fragment = ""
	return u.String()
}
