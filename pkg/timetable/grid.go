package timetable

import (
	"manabify/pkg/schedule"
)

// Days are the rendered grid columns. Sunday entries are accepted but not rendered.
var Days = []schedule.Day{
	schedule.Monday,
	schedule.Tuesday,
	schedule.Wednesday,
	schedule.Thursday,
	schedule.Friday,
	schedule.Saturday,
}

// Periods are the rendered grid rows
var Periods = []int{1, 2, 3, 4, 5, 6, 7}

// Course is a dashboard course decorated with its parsed weekly schedule
type Course struct {
	Name     string           `json:"name" yaml:"name"`
	URL      string           `json:"url" yaml:"url"`
	Schedule []schedule.Entry `json:"schedule" yaml:"schedule"`
}

// Placement is one course occupying one cell
type Placement struct {
	Course Course
	Entry  schedule.Entry
}

// Key addresses a cell
type Key struct {
	Day    schedule.Day
	Period int
}

// Grid maps every (day, period) to the courses meeting then, in input order.
// Entries outside the rendered axes are kept and reported by OffGrid.
type Grid struct {
	cells map[Key][]Placement
	order []Key
	total int
}

// Build places every schedule entry of every course into its cell.
// Courses are processed in order; simultaneous courses share a cell.
func Build(courses []Course) *Grid {
	g := &Grid{cells: make(map[Key][]Placement)}

	for _, c := range courses {
		for _, e := range c.Schedule {
			key := Key{Day: e.Day, Period: e.Period}
			if _, ok := g.cells[key]; !ok {
				g.order = append(g.order, key)
			}
			g.cells[key] = append(g.cells[key], Placement{Course: c, Entry: e})
			g.total++
		}
	}

	return g
}

// Cell returns the placements for a cell, nil when empty
func (g *Grid) Cell(day schedule.Day, period int) []Placement {
	return g.cells[Key{Day: day, Period: period}]
}

// IsEmpty reports whether no course meets at the given cell
func (g *Grid) IsEmpty(day schedule.Day, period int) bool {
	return len(g.cells[Key{Day: day, Period: period}]) == 0
}

// Len is the number of placements across all cells, rendered or not
func (g *Grid) Len() int {
	return g.total
}

// Rows returns the rendered view: one row per period, one column per day.
func (g *Grid) Rows() [][][]Placement {
	rows := make([][][]Placement, len(Periods))
	for i, p := range Periods {
		rows[i] = make([][]Placement, len(Days))
		for j, d := range Days {
			rows[i][j] = g.Cell(d, p)
		}
	}
	return rows
}

// OffGrid returns placements that exist but have no rendered cell
// (Sunday, or a period outside Periods), in first-seen cell order.
func (g *Grid) OffGrid() []Placement {
	var out []Placement
	for _, key := range g.order {
		if !onGrid(key) {
			out = append(out, g.cells[key]...)
		}
	}
	return out
}

func onGrid(k Key) bool {
	dayOK, periodOK := false, false
	for _, d := range Days {
		if d == k.Day {
			dayOK = true
			break
		}
	}
	for _, p := range Periods {
		if p == k.Period {
			periodOK = true
			break
		}
	}
	return dayOK && periodOK
}

// WithSchedule drops courses without timetable info, which are not rendered
func WithSchedule(courses []Course) []Course {
	var out []Course
	for _, c := range courses {
		if len(c.Schedule) > 0 {
			out = append(out, c)
		}
	}
	return out
}
