package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"manabify/pkg/schedule"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse schedule notation from a file or stdin",
	Long: `Print the (day, period, classroom) entries found in the given text, one per line.
Reads stdin when no file is given. Use --html for a raw course summary fragment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer file.Close()
			r = file
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		var lines []string
		if isHTML, _ := cmd.Flags().GetBool("html"); isHTML {
			lines = schedule.SummaryLines(string(data))
		} else {
			lines = schedule.SplitLines(string(data))
		}

		lang := schedule.ParseLang(cfg.Language)
		entries := schedule.Parse(lines, lang)

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		for _, e := range entries {
			line := fmt.Sprintf("%s%d", e.Day.Label(lang), e.Period)
			if e.Classroom != "" {
				line += "\t" + e.Classroom
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("html", false, "Treat the input as course summary HTML")
	parseCmd.Flags().Bool("json", false, "Print the entries as JSON")
}
