package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"manabify/pkg/config"
	"manabify/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manabify",
	Short: "A CLI and TUI that turns Moodle course summaries into a manaba style timetable",
	Long: `manabify reads the schedule notation ("月1", "火2-3", "金1(1-2)") from the
summaries of your Moodle courses and lays the courses out on a weekly grid,
the way manaba shows them. The grid can be printed, served, or exported as HTML or .ics.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		if !cmd.Flags().Changed("log-level") {
			if cfg, err := config.Load(); err == nil && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
		}
		pretty, _ := cmd.Flags().GetBool("pretty-logs")
		logger.Configure(logger.Config{Level: logger.Level(level), Pretty: pretty})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty-logs", true, "Human readable log lines instead of JSON")
	rootCmd.PersistentFlags().StringP("lang", "l", "", "Day notation of course summaries: ja or en (defaults to the configured language)")
}
