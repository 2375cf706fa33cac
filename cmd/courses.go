package cmd

import (
	"fmt"
	"os"

	"manabify/pkg/config"
	"manabify/pkg/moodle"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

// loadConfig reads ~/.manabify.json and applies the per-run flag overrides
// without saving them.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		cfg.Language = lang
	}
	if f := cmd.Flags().Lookup("browser"); f != nil && f.Changed {
		cfg.UseBrowser, _ = cmd.Flags().GetBool("browser")
	}
	return cfg, nil
}

// addSourceFlags registers the flags shared by every command that loads courses
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("manifest", "m", "", "Read courses from a YAML manifest instead of Moodle")
	cmd.Flags().Bool("browser", false, "Render the Moodle dashboard with headless Chrome")
}

func readManifest(path string, lang schedule.Lang) ([]timetable.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return moodle.LoadManifest(f, lang)
}

// loadCourses returns the scheduled courses from --manifest or, by default, from Moodle.
func loadCourses(cmd *cobra.Command, cfg *config.AppConfig) ([]timetable.Course, error) {
	lang := schedule.ParseLang(cfg.Language)

	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		courses, err := readManifest(path, lang)
		if err != nil {
			return nil, err
		}
		return timetable.WithSchedule(courses), nil
	}

	var courses []timetable.Course
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Reading course schedules from %s...", cfg.BaseURL)).
		Context(cmd.Context()).
		Action(func() {
			courses, err = moodle.FetchCourses(cmd.Context(), cfg)
		}).
		Run()

	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	return courses, nil
}
