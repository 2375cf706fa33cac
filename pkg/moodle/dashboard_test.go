package moodle

import (
	"context"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const dashboardHTML = `<html><body>
<div data-region="courses-view">
  <div class="card">
    <a class="aalink coursename" href="/course/view.php?id=12">
      <span class="sr-only">コース名</span>
      12345: 線形代数   (2026年度)
    </a>
  </div>
  <div class="card">
    <a href="https://moodle.example.ac.jp/course/view.php?id=12#section-1">duplicate link</a>
  </div>
  <div class="card">
    <a href="course/view.php?id=13">English   Seminar</a>
  </div>
  <div class="card bg-pulse-grey">
    <a href="/course/view.php?id=99">Loading...</a>
  </div>
  <div class="card">
    <a href="/course/view.php?id=14">   </a>
    <a href="/user/profile.php">Profile</a>
  </div>
</div>
</body></html>`

func TestExtractCourseInfos(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dashboardHTML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	base, _ := url.Parse("https://moodle.example.ac.jp/my/")

	got := ExtractCourseInfos(doc, base)
	want := []CourseInfo{
		{Name: "12345: 線形代数 (2026年度)", URL: "https://moodle.example.ac.jp/course/view.php?id=12"},
		{Name: "English Seminar", URL: "https://moodle.example.ac.jp/my/course/view.php?id=13"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractCourseInfos mismatch.\nGot: %+v\nExpected: %+v", got, want)
	}
}

func TestCleanCourseName(t *testing.T) {
	tests := map[string]string{
		"コース星付き\n  12345: 統計学 (2026年度前期) 教員A": "12345: 統計学 (2026年度前期)",
		"コース名\n 777: Data Science (Spring)":     "777: Data Science (Spring)",
		"Favourite 42: Physics (2026)":             "42: Physics (2026)",
		"  Plain   course  name ":                  "Plain course name",
	}

	for in, want := range tests {
		if got := cleanCourseName(in); got != want {
			t.Errorf("cleanCourseName(%q) = %q, want %q", in, got, want)
		}
	}
}

type stubRenderer map[string]string

func (s stubRenderer) Render(_ context.Context, pageURL string) (string, error) {
	return s[pageURL], nil
}

func TestDiscover(t *testing.T) {
	base, _ := url.Parse("https://moodle.example.ac.jp")
	r := stubRenderer{"https://moodle.example.ac.jp/my/": dashboardHTML}

	infos, err := Discover(context.Background(), r, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 courses, got %d: %+v", len(infos), infos)
	}
	if infos[1].URL != "https://moodle.example.ac.jp/course/view.php?id=13" {
		t.Errorf("relative link resolved wrongly: %s", infos[1].URL)
	}
}
