package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"manabify/pkg/config"
	"manabify/pkg/moodle"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func staticSource(courses ...timetable.Course) Source {
	return func(context.Context) ([]timetable.Course, error) {
		return courses, nil
	}
}

func sampleCourses() []timetable.Course {
	return []timetable.Course{
		{
			Name: "Algorithms",
			URL:  "https://moodle.example.ac.jp/course/view.php?id=1",
			Schedule: []schedule.Entry{
				{Day: schedule.Monday, Period: 1},
				{Day: schedule.Wednesday, Period: 2, Classroom: "101"},
			},
		},
		{
			Name:     "Seminar",
			URL:      "https://moodle.example.ac.jp/course/view.php?id=2",
			Schedule: []schedule.Entry{{Day: schedule.Monday, Period: 1}, {Day: schedule.Sunday, Period: 3}},
		},
	}
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := NewServer(staticSource(), schedule.Japanese, config.DefaultColors)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestTimetableJSON(t *testing.T) {
	s := NewServer(staticSource(sampleCourses()...), schedule.Japanese, config.DefaultColors)

	rec := do(t, s, http.MethodGet, "/api/timetable", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TimetableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Days) != 6 || resp.Days[0].Label != "月" || resp.Days[5].Label != "土" {
		t.Errorf("unexpected day columns %+v", resp.Days)
	}
	if len(resp.Periods) != 7 {
		t.Errorf("expected 7 periods, got %d", len(resp.Periods))
	}
	if len(resp.Cells) != 2 {
		t.Fatalf("expected 2 non-empty cells, got %+v", resp.Cells)
	}

	mon1 := resp.Cells[0]
	if mon1.Day != schedule.Monday || mon1.Period != 1 || len(mon1.Courses) != 2 {
		t.Fatalf("unexpected first cell %+v", mon1)
	}
	if mon1.Courses[0].Name != "Algorithms" || mon1.Courses[1].Name != "Seminar" {
		t.Errorf("expected input order inside the cell, got %+v", mon1.Courses)
	}

	wed2 := resp.Cells[1]
	if wed2.Day != schedule.Wednesday || wed2.Period != 2 || wed2.Courses[0].Classroom != "101" {
		t.Errorf("unexpected second cell %+v", wed2)
	}

	if len(resp.OffGrid) != 1 || resp.OffGrid[0].Day != schedule.Sunday || resp.OffGrid[0].Courses[0].Name != "Seminar" {
		t.Errorf("expected the Sunday entry to be reported off grid, got %+v", resp.OffGrid)
	}
}

func TestTimetableJSON_EnglishLabels(t *testing.T) {
	s := NewServer(staticSource(), schedule.Japanese, config.DefaultColors)

	rec := do(t, s, http.MethodGet, "/api/timetable?lang=en", "")

	var resp TimetableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Lang != schedule.English || resp.Days[0].Label != "Mon" {
		t.Errorf("expected English labels, got %+v", resp.Days)
	}
	if resp.Cells == nil || len(resp.Cells) != 0 {
		t.Errorf("expected an empty cell list, got %+v", resp.Cells)
	}
}

func TestSourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not logged in", fmt.Errorf("dashboard: %w", moodle.ErrNotLoggedIn), http.StatusUnauthorized},
		{"upstream", errors.New("connection refused"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := func(context.Context) ([]timetable.Course, error) { return nil, tt.err }
			s := NewServer(src, schedule.Japanese, config.DefaultColors)

			for _, path := range []string{"/", "/api/timetable"} {
				rec := do(t, s, http.MethodGet, path, "")
				if rec.Code != tt.status {
					t.Errorf("%s: expected %d, got %d", path, tt.status, rec.Code)
				}
			}
		})
	}
}

func TestPage(t *testing.T) {
	s := NewServer(staticSource(sampleCourses()...), schedule.Japanese, config.Presets["pink"])

	rec := do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %s", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{"manaba-timetable", "Algorithms", "#c2185b"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestParse(t *testing.T) {
	s := NewServer(staticSource(), schedule.Japanese, config.DefaultColors)

	tests := []struct {
		name    string
		body    string
		status  int
		entries []schedule.Entry
	}{
		{
			name:    "lines",
			body:    `{"lines": ["月2-3", "月2：A101"]}`,
			status:  http.StatusOK,
			entries: []schedule.Entry{{Day: schedule.Monday, Period: 2, Classroom: "A101"}, {Day: schedule.Monday, Period: 3}},
		},
		{
			name:    "html",
			body:    `{"html": "<p>Schedule<br>Thu1,2</p>", "lang": "en"}`,
			status:  http.StatusOK,
			entries: []schedule.Entry{{Day: schedule.Thursday, Period: 1}, {Day: schedule.Thursday, Period: 2}},
		},
		{
			name:    "nothing matches",
			body:    `{"lines": ["no schedule here"]}`,
			status:  http.StatusOK,
			entries: []schedule.Entry{},
		},
		{name: "empty", body: `{}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{"lines": `, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/parse", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}

			var resp ParseResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Entries) != len(tt.entries) {
				t.Fatalf("expected %d entries, got %+v", len(tt.entries), resp.Entries)
			}
			for i := range tt.entries {
				if resp.Entries[i] != tt.entries[i] {
					t.Errorf("entry %d: expected %+v, got %+v", i, tt.entries[i], resp.Entries[i])
				}
			}
		})
	}
}
