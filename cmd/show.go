package cmd

import (
	"fmt"
	"io"
	"os"

	"manabify/pkg/exporter"
	"manabify/pkg/logger"
	"manabify/pkg/schedule"
	"manabify/pkg/timetable"
	"manabify/pkg/tui"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print your weekly timetable",
	Long: `Load your Moodle courses, parse the schedule in each course summary and print
the Monday to Saturday, period 1 to 7 grid. With --html the manaba style page is
written instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.IsEnabled() {
			fmt.Println("Timetable display is disabled. Run 'manabify config --enable' to turn it back on.")
			return nil
		}

		courses, err := loadCourses(cmd, cfg)
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return fmt.Errorf("none of your courses list a schedule in their summary")
		}

		lang := schedule.ParseLang(cfg.Language)
		g := timetable.Build(courses)

		log := logger.Component("show")
		for _, pl := range g.OffGrid() {
			log.Warn().Str("course", pl.Course.Name).Stringer("slot", pl.Entry).Msg("entry outside the Mon-Sat, period 1-7 grid")
		}

		htmlOut, _ := cmd.Flags().GetBool("html")
		if !htmlOut {
			fmt.Print(tui.RenderTimetable(g, lang, cfg.Palette()))
			return nil
		}

		var w io.Writer = os.Stdout
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()
			w = file
		}

		if err := exporter.WritePage(w, g, lang, cfg.Palette()); err != nil {
			return fmt.Errorf("failed to write HTML: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	addSourceFlags(showCmd)
	showCmd.Flags().Bool("html", false, "Write the manaba style HTML page instead of the terminal table")
	showCmd.Flags().StringP("output", "o", "", "With --html, write to this file instead of stdout")
}
