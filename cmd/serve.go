package cmd

import (
	"context"

	"manabify/pkg/moodle"
	"manabify/pkg/schedule"
	"manabify/pkg/server"
	"manabify/pkg/timetable"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the timetable page and a small JSON API locally",
	Long: `Start an HTTP server with the manaba style timetable at / and
GET /api/timetable, POST /api/parse and GET /healthz. Courses are reloaded on every
request; the course cache keeps that cheap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		manifest, _ := cmd.Flags().GetString("manifest")
		lang := schedule.ParseLang(cfg.Language)

		source := func(ctx context.Context) ([]timetable.Course, error) {
			if manifest != "" {
				courses, err := readManifest(manifest, lang)
				return timetable.WithSchedule(courses), err
			}
			return moodle.FetchCourses(ctx, cfg)
		}

		return server.NewServer(source, lang, cfg.Palette()).Run(cmd.Context(), addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addSourceFlags(serveCmd)
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")
}
