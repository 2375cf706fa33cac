package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"manabify/pkg/exporter"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your timetable to an ICS file",
	Long: `Export every scheduled course as weekly recurring calendar events, using the
configured period times and time zone, without the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		fromStr, _ := cmd.Flags().GetString("from")
		weeks, _ := cmd.Flags().GetInt("weeks")

		from := time.Now()
		if fromStr != "" {
			var err error
			if from, err = time.Parse("2006-01-02", fromStr); err != nil {
				return fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", fromStr)
			}
		}
		if weeks <= 0 {
			return fmt.Errorf("--weeks must be positive")
		}
		if !strings.HasSuffix(output, ".ics") {
			output += ".ics"
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		courses, err := loadCourses(cmd, cfg)
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return fmt.Errorf("none of your courses list a schedule in their summary")
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		n, err := exporter.GenerateICS(courses, file, exporter.ICSOptions{
			Periods: cfg.Periods(),
			Zone:    cfg.Zone(),
			From:    from,
			Weeks:   weeks,
		})
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d weekly events from %d courses to %s\n", n, len(courses), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addSourceFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "timetable.ics", "Output file path")
	exportCmd.Flags().String("from", "", "First day of the term, YYYY-MM-DD (default today)")
	exportCmd.Flags().Int("weeks", 15, "Number of weeks each event repeats")
}
