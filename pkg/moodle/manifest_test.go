package moodle

import (
	"reflect"
	"strings"
	"testing"

	"manabify/pkg/schedule"
)

func TestLoadManifest(t *testing.T) {
	manifest := `
courses:
  - name: "12345: 線形代数 (2026年度)"
    url: https://moodle.example.ac.jp/course/view.php?id=12
    summary: "金1-2<br>金1：301教室"
  - name: Duplicate
    url: https://moodle.example.ac.jp/course/view.php?id=12
    summary: "月1"
  - name: Explicit
    url: https://moodle.example.ac.jp/course/view.php?id=13
    schedule:
      - {day: Sun, period: 3, classroom: Gym}
  - name: Nothing
    summary: "online"
`

	courses, err := LoadManifest(strings.NewReader(manifest), schedule.Japanese)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(courses) != 3 {
		t.Fatalf("expected 3 courses (duplicate URL dropped), got %d", len(courses))
	}

	want := []schedule.Entry{
		{Day: schedule.Friday, Period: 1, Classroom: "301教室"},
		{Day: schedule.Friday, Period: 2},
	}
	if !reflect.DeepEqual(courses[0].Schedule, want) {
		t.Errorf("got %+v, want %+v", courses[0].Schedule, want)
	}

	explicit := []schedule.Entry{{Day: schedule.Sunday, Period: 3, Classroom: "Gym"}}
	if !reflect.DeepEqual(courses[1].Schedule, explicit) {
		t.Errorf("got %+v, want %+v", courses[1].Schedule, explicit)
	}

	if len(courses[2].Schedule) != 0 {
		t.Errorf("expected no schedule for online course, got %+v", courses[2].Schedule)
	}
}

func TestLoadManifest_EnglishOverride(t *testing.T) {
	manifest := "lang: en-US\ncourses:\n  - name: Seminar\n    summary: \"Tuesday 2-3\"\n"

	courses, err := LoadManifest(strings.NewReader(manifest), schedule.Japanese)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(courses) != 1 || len(courses[0].Schedule) != 2 || courses[0].Schedule[0].Day != schedule.Tuesday {
		t.Errorf("unexpected courses: %+v", courses)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	if _, err := LoadManifest(strings.NewReader("courses: [ {name: "), schedule.Japanese); err == nil {
		t.Errorf("expected YAML error")
	}
	if _, err := LoadManifest(strings.NewReader("courses:\n  - url: x\n"), schedule.Japanese); err == nil {
		t.Errorf("expected error for course without name")
	}
}
