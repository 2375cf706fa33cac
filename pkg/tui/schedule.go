package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"manabify/pkg/config"
	"manabify/pkg/exporter"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"

	"github.com/charmbracelet/huh"
)

// selectCourses lets the user narrow down which loaded courses to export
func selectCourses(courses []timetable.Course, title string) ([]timetable.Course, error) {
	var courseOptions []huh.Option[string]
	for _, c := range courses {
		courseOptions = append(courseOptions, huh.NewOption(c.Name, c.URL).Selected(true))
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description("Space = toggle, Enter = confirm").
				Options(courseOptions...).
				Value(&selected).
				Filterable(true).
				Height(10),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	selectedMap := make(map[string]bool)
	for _, u := range selected {
		selectedMap[u] = true
	}

	var filtered []timetable.Course
	for _, c := range courses {
		if selectedMap[c.URL] {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// RunExportTUI runs the interactive flow for exporting the timetable as a weekly calendar
func RunExportTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	courses, err := fetchWithSpinner(cfg)
	if err != nil || len(courses) == 0 {
		return err
	}

	filtered, err := selectCourses(courses, "Select courses to export")
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		fmt.Println(errorStyle.Render("No courses selected!"))
		return nil
	}

	outputFile := "timetable.ics"
	fromStr := time.Now().Format("2006-01-02")
	weeksStr := "15"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("First day of the term").
				Description("YYYY-MM-DD").
				Value(&fromStr).
				Validate(func(s string) error {
					_, err := time.Parse("2006-01-02", s)
					return err
				}),
			huh.NewInput().
				Title("Number of weeks").
				Value(&weeksStr).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n <= 0 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if !strings.HasSuffix(outputFile, ".ics") {
		outputFile += ".ics"
	}
	from, _ := time.Parse("2006-01-02", fromStr)
	weeks, _ := strconv.Atoi(weeksStr)

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	n, err := exporter.GenerateICS(filtered, file, exporter.ICSOptions{
		Periods: cfg.Periods(),
		Zone:    cfg.Zone(),
		From:    from,
		Weeks:   weeks,
	})
	if err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Exported %d weekly events to %s", n, outputFile)))
	return nil
}

// RunHTMLExportTUI writes the timetable as a standalone manaba styled page
func RunHTMLExportTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	courses, err := fetchWithSpinner(cfg)
	if err != nil || len(courses) == 0 {
		return err
	}

	outputFile := "timetable.html"
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	lang := schedule.ParseLang(cfg.Language)
	if err := exporter.WritePage(file, timetable.Build(courses), lang, cfg.Palette()); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Wrote the timetable of %d courses to %s", len(courses), outputFile)))
	return nil
}
