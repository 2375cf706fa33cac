package moodle

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

// Manifest is an offline course list, e.g.
//
//	lang: ja
//	courses:
//	  - name: "12345: 線形代数 (2026年度)"
//	    url: https://moodle.example.ac.jp/course/view.php?id=12
//	    summary: "金1-2<br>金1：301教室"
type Manifest struct {
	Lang    string           `yaml:"lang"`
	Courses []ManifestCourse `yaml:"courses"`
}

// ManifestCourse carries either raw summary HTML or an explicit schedule
type ManifestCourse struct {
	Name     string           `yaml:"name"`
	URL      string           `yaml:"url"`
	Summary  string           `yaml:"summary"`
	Schedule []schedule.Entry `yaml:"schedule"`
}

// LoadManifest decodes a YAML manifest and parses each course summary.
// The manifest's lang wins over fallback when set.
func LoadManifest(r io.Reader, fallback schedule.Lang) ([]timetable.Course, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	lang := fallback
	if m.Lang != "" {
		lang = schedule.ParseLang(m.Lang)
	}
	parser := schedule.NewParser(lang)

	seen := make(map[string]bool)
	courses := make([]timetable.Course, 0, len(m.Courses))
	for i, mc := range m.Courses {
		if mc.Name == "" {
			return nil, fmt.Errorf("manifest course #%d has no name", i+1)
		}
		if mc.URL != "" {
			if seen[mc.URL] {
				continue
			}
			seen[mc.URL] = true
		}

		entries := mc.Schedule
		if len(entries) == 0 {
			entries = parser.Parse(schedule.SummaryLines(mc.Summary))
		}

		courses = append(courses, timetable.Course{Name: mc.Name, URL: mc.URL, Schedule: entries})
	}

	return courses, nil
}
