package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"manabify/pkg/config"
	"manabify/pkg/moodle"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const cellWidth = 16

// RenderTimetable draws the grid as a bordered terminal table using the palette colors.
// Placements outside the grid are listed below it.
func RenderTimetable(g *timetable.Grid, lang schedule.Lang, colors config.Colors) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Link)).Align(lipgloss.Center)
	periodStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Link)).Align(lipgloss.Center).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Width(cellWidth).Padding(0, 1)
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Link))
	roomStyle := lipgloss.NewStyle().Faint(true)
	emptyStyle := lipgloss.NewStyle().Faint(true)

	headers := []string{""}
	for _, d := range timetable.Days {
		headers = append(headers, d.Label(lang))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Border))).
		BorderRow(true).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return periodStyle
			default:
				return cellStyle
			}
		})

	for i, cells := range g.Rows() {
		row := []string{strconv.Itoa(timetable.Periods[i])}
		for _, placements := range cells {
			if len(placements) == 0 {
				row = append(row, emptyStyle.Render("-"))
				continue
			}
			var parts []string
			for _, pl := range placements {
				s := nameStyle.Render(pl.Course.Name)
				if pl.Entry.Classroom != "" {
					s += "\n" + roomStyle.Render("@ "+pl.Entry.Classroom)
				}
				parts = append(parts, s)
			}
			row = append(row, strings.Join(parts, "\n"))
		}
		t.Row(row...)
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	if off := g.OffGrid(); len(off) > 0 {
		b.WriteString(roomStyle.Render("Not shown in the grid:"))
		b.WriteString("\n")
		for _, pl := range off {
			b.WriteString(fmt.Sprintf("  %s%d  %s", pl.Entry.Day.Label(lang), pl.Entry.Period, pl.Course.Name))
			if pl.Entry.Classroom != "" {
				b.WriteString(" @ " + pl.Entry.Classroom)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// fetchWithSpinner loads the user's courses from Moodle while showing progress
func fetchWithSpinner(cfg *config.AppConfig) ([]timetable.Course, error) {
	var courses []timetable.Course
	var err error

	_ = spinner.New().
		Title("Reading course schedules from Moodle...").
		Action(func() {
			courses, err = moodle.FetchCourses(context.Background(), cfg)
		}).
		Run()

	if errors.Is(err, moodle.ErrNotLoggedIn) {
		fmt.Println(errorStyle.Render("Your Moodle session is missing or expired. Update it under Settings."))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	if len(courses) == 0 {
		fmt.Println(errorStyle.Render("None of your courses list a schedule in their summary."))
	}
	return courses, nil
}

// RunTimetableTUI fetches the dashboard courses and prints the weekly grid
func RunTimetableTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.IsEnabled() {
		fmt.Println(errorStyle.Render("Timetable display is disabled. Enable it under Settings."))
		return nil
	}

	courses, err := fetchWithSpinner(cfg)
	if err != nil || len(courses) == 0 {
		return err
	}

	lang := schedule.ParseLang(cfg.Language)
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n%d courses with a schedule\n", len(courses))))
	fmt.Println(RenderTimetable(timetable.Build(courses), lang, cfg.Palette()))
	return nil
}
