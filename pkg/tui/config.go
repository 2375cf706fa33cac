package tui

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"manabify/pkg/cache"
	"manabify/pkg/config"
	"manabify/pkg/schedule"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI() error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Moodle Site & Session", "moodle"),
						huh.NewOption("Set Day Notation Language", "lang"),
						huh.NewOption("Set Timetable Colors", "colors"),
						huh.NewOption("Enable / Disable Timetable", "enabled"),
						huh.NewOption("Set Cache Backend", "cache"),
						huh.NewOption("Clear Course Cache", "clear"),
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "moodle":
			err = runSetMoodleTUI(cfg)
		case "lang":
			err = runSetLanguageTUI(cfg)
		case "colors":
			err = runSetColorsTUI(cfg)
		case "enabled":
			err = runSetEnabledTUI(cfg)
		case "cache":
			err = runSetCacheTUI(cfg)
		case "clear":
			err = runClearCacheTUI(cfg)
		case "theme":
			err = runSetThemeTUI(cfg)
		case "view":
			fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.manabify.json) ---"))
			fmt.Print(DescribeConfig(cfg))
			fmt.Println()
		}

		if err != nil {
			return err
		}
	}
}

// DescribeConfig renders the settings for display, hiding the session cookie
func DescribeConfig(cfg *config.AppConfig) string {
	var b strings.Builder

	orNotSet := func(s string) string {
		if s == "" {
			return "Not set"
		}
		return s
	}
	session := "Not set"
	if cfg.Session() != "" {
		session = "Set"
	}
	backend := cfg.CacheBackend
	if backend == "" {
		backend = "disk"
	}
	palette := cfg.Palette()

	fmt.Fprintf(&b, "Moodle URL: %s\n", orNotSet(cfg.BaseURL))
	fmt.Fprintf(&b, "Session: %s\n", session)
	fmt.Fprintf(&b, "Language: %s\n", schedule.ParseLang(cfg.Language))
	fmt.Fprintf(&b, "Timetable Enabled: %t\n", cfg.IsEnabled())
	fmt.Fprintf(&b, "Colors: %s %s %s %s %s\n", palette.EmptyCell, palette.CourseCell, palette.Header, palette.Link, palette.Border)
	fmt.Fprintf(&b, "Cache: %s\n", backend)
	fmt.Fprintf(&b, "Browser Rendering: %t\n", cfg.UseBrowser)
	fmt.Fprintf(&b, "Accent Color: %s\n", orNotSet(cfg.AccentColor))
	return b.String()
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL such as https://moodle.example.ac.jp")
	}
	return nil
}

func runSetMoodleTUI(cfg *config.AppConfig) error {
	baseURL := cfg.BaseURL
	session := cfg.SessionCookie
	useBrowser := cfg.UseBrowser

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Moodle site URL").
				Placeholder("https://moodle.example.ac.jp").
				Value(&baseURL).
				Validate(validateBaseURL),
			huh.NewInput().
				Title("MoodleSession cookie").
				Description("Copy it from your browser after logging in. Stored in ~/.manabify.json (mode 0600).").
				EchoMode(huh.EchoModePassword).
				Value(&session),
			huh.NewConfirm().
				Title("Render the dashboard with a headless browser?").
				Description("Needed when the course list is built by JavaScript. Requires Chrome.").
				Value(&useBrowser),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.SessionCookie = strings.TrimSpace(session)
	cfg.UseBrowser = useBrowser
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Moodle site set to %s\n", cfg.BaseURL)))
	return nil
}

func runSetLanguageTUI(cfg *config.AppConfig) error {
	selected := string(schedule.ParseLang(cfg.Language))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which day notation do your course summaries use?").
				Options(
					huh.NewOption("日本語 (月1, 火2-3, 水1,2)", string(schedule.Japanese)),
					huh.NewOption("English (Mon1, Tue2-3, Wed1,2)", string(schedule.English)),
				).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Language = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Day notation changed to: %s\n", selected)))
	return nil
}

func runSetColorsTUI(cfg *config.AppConfig) error {
	names := make([]string, 0, len(config.Presets))
	for name := range config.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	title := cases.Title(language.English)
	var options []huh.Option[string]
	for _, name := range names {
		p := config.Presets[name]
		label := fmt.Sprintf("%s%s %s", colorBlock(p.Link), colorBlock(p.Header), title.String(name))
		options = append(options, huh.NewOption(label, name))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a color preset for the timetable").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if err := cfg.ApplyPreset(selected); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Timetable colors set to %s\n", title.String(selected))))
	return nil
}

func runSetEnabledTUI(cfg *config.AppConfig) error {
	enabled := cfg.IsEnabled()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show the timetable?").
				Affirmative("Enabled").
				Negative("Disabled").
				Value(&enabled),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.SetEnabled(enabled)
	if err := config.Save(cfg); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Timetable %s\n", state)))
	return nil
}

func runSetCacheTUI(cfg *config.AppConfig) error {
	backend := cfg.CacheBackend
	if backend == "" {
		backend = "disk"
	}
	redisURL := cfg.RedisURL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should parsed course schedules be cached?").
				Options(
					huh.NewOption("Disk (~/.manabify_cache)", "disk"),
					huh.NewOption("Memory (this run only)", "memory"),
					huh.NewOption("Redis", "redis"),
				).
				Value(&backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis URL").
				Placeholder("redis://localhost:6379/0").
				Value(&redisURL),
		).WithHideFunc(func() bool { return backend != "redis" }),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.RedisURL = redisURL
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Cache backend set to %s\n", backend)))
	return nil
}

func runClearCacheTUI(cfg *config.AppConfig) error {
	var err error

	_ = spinner.New().
		Title("Clearing cached course schedules...").
		Action(func() {
			err = ClearCache(context.Background(), cfg)
		}).
		Run()

	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Println(accentStyle.Render("\n✅ Course cache cleared\n"))
	return nil
}

// ClearCache empties the configured cache backend
func ClearCache(ctx context.Context, cfg *config.AppConfig) error {
	store, err := cache.Open(cfg)
	if err != nil {
		return err
	}
	if r, ok := store.(*cache.Redis); ok {
		defer r.Close()
	}
	return store.Clear(ctx)
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for manabify").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s manaba Purple", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Matrix Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Beautiful! The theme color is now saved.\n"))
	return nil
}
