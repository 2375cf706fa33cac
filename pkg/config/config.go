package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SessionEnv overrides the stored Moodle session cookie when set
const SessionEnv = "MANABIFY_SESSION"

// Colors mirrors the timetable color settings
type Colors struct {
	EmptyCell  string `json:"empty_cell"`
	CourseCell string `json:"course_cell"`
	Header     string `json:"header"`
	Link       string `json:"link"`
	Border     string `json:"border"`
}

// DefaultColors is used until the user picks a preset or custom colors
var DefaultColors = Colors{
	EmptyCell:  "#ffffff",
	CourseCell: "#f0f8ff",
	Header:     "#e8f4f8",
	Link:       "#0066cc",
	Border:     "#c8d7e1",
}

// Presets are the named color schemes selectable from `config --preset`
var Presets = map[string]Colors{
	"purple": {EmptyCell: "#ffffff", CourseCell: "#f3e5f5", Header: "#e1bee7", Link: "#7b1fa2", Border: "#ce93d8"},
	"pink":   {EmptyCell: "#ffffff", CourseCell: "#fce4ec", Header: "#f8bbd0", Link: "#c2185b", Border: "#f48fb1"},
	"blue":   {EmptyCell: "#ffffff", CourseCell: "#e3f2fd", Header: "#bbdefb", Link: "#1976d2", Border: "#90caf9"},
	"green":  {EmptyCell: "#ffffff", CourseCell: "#e8f5e9", Header: "#c8e6c9", Link: "#388e3c", Border: "#a5d6a7"},
}

// PeriodTime is the wall clock slot of one period, "HH:MM"
type PeriodTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultPeriodTimes is a common 90 minute day used for calendar export
var DefaultPeriodTimes = []PeriodTime{
	{Start: "09:00", End: "10:30"},
	{Start: "10:40", End: "12:10"},
	{Start: "13:00", End: "14:30"},
	{Start: "14:40", End: "16:10"},
	{Start: "16:20", End: "17:50"},
	{Start: "18:00", End: "19:30"},
	{Start: "19:40", End: "21:10"},
}

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	BaseURL       string       `json:"base_url,omitempty"`
	SessionCookie string       `json:"session_cookie,omitempty"`
	Language      string       `json:"language,omitempty"`
	Enabled       *bool        `json:"enabled,omitempty"`
	Colors        *Colors      `json:"colors,omitempty"`
	AccentColor   string       `json:"accent_color,omitempty"`
	PeriodTimes   []PeriodTime `json:"period_times,omitempty"`
	TimeZone      string       `json:"time_zone,omitempty"`
	CacheBackend  string       `json:"cache_backend,omitempty"`
	RedisURL      string       `json:"redis_url,omitempty"`
	UseBrowser    bool         `json:"use_browser,omitempty"`
	Concurrency   int          `json:"concurrency,omitempty"`
	LogLevel      string       `json:"log_level,omitempty"`
}

// IsEnabled reports whether timetable rendering is switched on (default true)
func (c *AppConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// SetEnabled stores the enabled flag
func (c *AppConfig) SetEnabled(v bool) {
	c.Enabled = &v
}

// Palette returns the configured colors, falling back to DefaultColors
func (c *AppConfig) Palette() Colors {
	if c.Colors == nil {
		return DefaultColors
	}
	return *c.Colors
}

// ApplyPreset switches to one of the named Presets
func (c *AppConfig) ApplyPreset(name string) error {
	p, ok := Presets[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown color preset %q (purple, pink, blue, green)", name)
	}
	c.Colors = &p
	return nil
}

// Periods returns the configured period times or DefaultPeriodTimes
func (c *AppConfig) Periods() []PeriodTime {
	if len(c.PeriodTimes) == 0 {
		return DefaultPeriodTimes
	}
	return c.PeriodTimes
}

// Zone returns the IANA zone used for calendar export
func (c *AppConfig) Zone() string {
	if c.TimeZone == "" {
		return "Asia/Tokyo"
	}
	return c.TimeZone
}

// Session returns the Moodle session cookie, preferring the environment
func (c *AppConfig) Session() string {
	if v := os.Getenv(SessionEnv); v != "" {
		return v
	}
	return c.SessionCookie
}

// Workers returns how many course pages may be fetched at once
func (c *AppConfig) Workers() int {
	if c.Concurrency <= 0 {
		return 6
	}
	return c.Concurrency
}

// getConfigPath returns the absolute path to ~/.manabify.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".manabify.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
// The file may hold a session cookie, so it is only readable by the user.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
