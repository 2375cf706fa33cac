package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"manabify/pkg/exporter"
	"manabify/pkg/moodle"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// DayColumn describes one rendered grid column
type DayColumn struct {
	Day   schedule.Day `json:"day"`
	Label string       `json:"label"`
}

// CellCourse is a course as listed inside a cell
type CellCourse struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Classroom string `json:"classroom,omitempty"`
}

// Cell is a non-empty grid cell
type Cell struct {
	Day     schedule.Day `json:"day"`
	Period  int          `json:"period"`
	Courses []CellCourse `json:"courses"`
}

// TimetableResponse is returned by GET /api/timetable. Empty cells are omitted.
type TimetableResponse struct {
	Lang    schedule.Lang `json:"lang"`
	Days    []DayColumn   `json:"days"`
	Periods []int         `json:"periods"`
	Cells   []Cell        `json:"cells"`
	OffGrid []Cell        `json:"off_grid"`
}

// ParseRequest is the body of POST /api/parse. Either Lines or HTML must be set.
type ParseRequest struct {
	Lines []string `json:"lines"`
	HTML  string   `json:"html"`
	Lang  string   `json:"lang"`
}

// ParseResponse carries the parsed schedule entries
type ParseResponse struct {
	Lang    schedule.Lang    `json:"lang"`
	Entries []schedule.Entry `json:"entries"`
}

func (s *Server) handleError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, moodle.ErrNotLoggedIn) {
		status = http.StatusUnauthorized
	}
	s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (s *Server) requestLang(c *gin.Context) schedule.Lang {
	if tag := c.Query("lang"); tag != "" {
		return schedule.ParseLang(tag)
	}
	return s.lang
}

func (s *Server) loadGrid(c *gin.Context) (*timetable.Grid, bool) {
	courses, err := s.source(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return nil, false
	}
	return timetable.Build(courses), true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePage(c *gin.Context) {
	g, ok := s.loadGrid(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WritePage(&buf, g, s.requestLang(c), s.colors); err != nil {
		s.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleTimetable(c *gin.Context) {
	g, ok := s.loadGrid(c)
	if !ok {
		return
	}

	lang := s.requestLang(c)
	resp := TimetableResponse{
		Lang:    lang,
		Periods: timetable.Periods,
		Cells:   []Cell{},
		OffGrid: []Cell{},
	}
	for _, d := range timetable.Days {
		resp.Days = append(resp.Days, DayColumn{Day: d, Label: d.Label(lang)})
	}

	for _, p := range timetable.Periods {
		for _, d := range timetable.Days {
			if placements := g.Cell(d, p); len(placements) > 0 {
				resp.Cells = append(resp.Cells, toCell(d, p, placements))
			}
		}
	}

	// Off-grid placements arrive grouped by cell in first-seen order
	off := g.OffGrid()
	for i := 0; i < len(off); {
		j := i
		for j < len(off) && off[j].Entry.Day == off[i].Entry.Day && off[j].Entry.Period == off[i].Entry.Period {
			j++
		}
		resp.OffGrid = append(resp.OffGrid, toCell(off[i].Entry.Day, off[i].Entry.Period, off[i:j]))
		i = j
	}

	c.JSON(http.StatusOK, resp)
}

func toCell(d schedule.Day, period int, placements []timetable.Placement) Cell {
	cell := Cell{Day: d, Period: period}
	for _, pl := range placements {
		cell.Courses = append(cell.Courses, CellCourse{
			Name:      pl.Course.Name,
			URL:       pl.Course.URL,
			Classroom: pl.Entry.Classroom,
		})
	}
	return cell
}

func (s *Server) handleParse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Lines) == 0 && req.HTML == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "either lines or html is required"})
		return
	}

	lang := s.lang
	if req.Lang != "" {
		lang = schedule.ParseLang(req.Lang)
	}

	lines := req.Lines
	if req.HTML != "" {
		lines = append(lines, schedule.SummaryLines(req.HTML)...)
	}

	c.JSON(http.StatusOK, ParseResponse{
		Lang:    lang,
		Entries: schedule.Parse(lines, lang),
	})
}
