package cmd

import (
	"fmt"
	"strings"

	"manabify/pkg/config"
	"manabify/pkg/schedule"
	"manabify/pkg/tui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage manabify configuration",
	Long: `View or edit your local configuration (~/.manabify.json): the Moodle site and
session, the day notation language, timetable colors and the course cache.
Without flags the interactive settings menu is launched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if onlyLoggingFlags(cmd) {
			return tui.RunConfigTUI()
		}

		if flags.Changed("enable") && flags.Changed("disable") {
			return fmt.Errorf("--enable and --disable cannot be combined")
		}

		changed := false
		if flags.Changed("url") {
			v, _ := flags.GetString("url")
			if err := validateURL(v); err != nil {
				return err
			}
			cfg.BaseURL = strings.TrimRight(v, "/")
			changed = true
		}
		if flags.Changed("session") {
			cfg.SessionCookie, _ = flags.GetString("session")
			changed = true
		}
		if flags.Changed("lang") {
			v, _ := flags.GetString("lang")
			cfg.Language = string(schedule.ParseLang(v))
			changed = true
		}
		if flags.Changed("preset") {
			v, _ := flags.GetString("preset")
			if err := cfg.ApplyPreset(v); err != nil {
				return err
			}
			changed = true
		}
		if flags.Changed("enable") {
			cfg.SetEnabled(true)
			changed = true
		}
		if flags.Changed("disable") {
			cfg.SetEnabled(false)
			changed = true
		}
		if flags.Changed("cache") {
			v, _ := flags.GetString("cache")
			switch v {
			case "disk", "memory", "redis":
				cfg.CacheBackend = v
			default:
				return fmt.Errorf("unknown cache backend %q (disk, memory, redis)", v)
			}
			changed = true
		}
		if flags.Changed("redis-url") {
			cfg.RedisURL, _ = flags.GetString("redis-url")
			changed = true
		}
		if flags.Changed("browser") {
			cfg.UseBrowser, _ = flags.GetBool("browser")
			changed = true
		}

		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Println("✅ Configuration saved.")
		}

		if clearCache, _ := flags.GetBool("clear-cache"); clearCache {
			if err := tui.ClearCache(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Println("✅ Course cache cleared.")
		}

		if show, _ := flags.GetBool("show"); show {
			fmt.Print(tui.DescribeConfig(cfg))
		}
		return nil
	},
}

// onlyLoggingFlags reports whether the user passed nothing but the global logging flags
func onlyLoggingFlags(cmd *cobra.Command) bool {
	for _, name := range []string{"url", "session", "lang", "preset", "enable", "disable", "cache", "redis-url", "browser", "clear-cache", "show"} {
		if cmd.Flags().Changed(name) {
			return false
		}
	}
	return true
}

func validateURL(v string) error {
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return fmt.Errorf("--url must start with http:// or https://")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().String("url", "", "Moodle site URL, e.g. https://moodle.example.ac.jp")
	configCmd.Flags().String("session", "", "MoodleSession cookie value (or set "+config.SessionEnv+")")
	configCmd.Flags().String("preset", "", "Timetable color preset (purple, pink, blue, green)")
	configCmd.Flags().Bool("enable", false, "Enable the timetable")
	configCmd.Flags().Bool("disable", false, "Disable the timetable")
	configCmd.Flags().String("cache", "", "Course cache backend (disk, memory, redis)")
	configCmd.Flags().String("redis-url", "", "Redis URL for the redis cache backend")
	configCmd.Flags().Bool("browser", false, "Render the dashboard with headless Chrome")
	configCmd.Flags().Bool("clear-cache", false, "Delete all cached course schedules")
	configCmd.Flags().Bool("show", false, "Print the current configuration")
}
