// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/surveyfill-cli/internal/browser"
	"github.com/xkilldash9x/surveyfill-cli/internal/classify"
	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/observability"
	"github.com/xkilldash9x/surveyfill-cli/internal/orchestrator"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

var (
	runRowRange string
	runHeadful  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill the survey for the selected CSV rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyRowRange(runRowRange); err != nil {
			return err
		}
		if runHeadful {
			cfg.Browser.Headless = false
		}
		if cfg.Run.CSVPath == "" {
			return fmt.Errorf("--csv is required")
		}
		if cfg.Run.StartURL == "" {
			return fmt.Errorf("--start-url is required")
		}

		logger := observability.GetLogger()

		rows, err := rowdata.Load(cfg.Run.CSVPath)
		if err != nil {
			return err
		}
		table, err := loadTable(cfg.Run.MappingPath)
		if err != nil {
			return err
		}
		classifier := classify.New(table, classify.WithFallback(classify.TokenOverlap{}, classify.MinConfidence))

		ctx := cmd.Context()
		manager := browser.NewManager(ctx, cfg, logger)
		defer manager.Close()

		factory := func(ctx context.Context) (orchestrator.Page, error) {
			session, err := manager.NewSession(ctx)
			if err != nil {
				return nil, err
			}
			return session, nil
		}

		o := orchestrator.New(cfg, classifier, factory, logger)
		report, err := o.Run(ctx, rows)
		if err != nil {
			return err
		}
		if failed := report.Failed(); failed > 0 {
			return fmt.Errorf("%d of %d rows failed", failed, len(report.Results()))
		}
		return nil
	},
}

// loadTable returns the mapping table: the embedded default, or the YAML
// file when one is given.
func loadTable(path string) (*mapping.Table, error) {
	if path == "" {
		return mapping.Default(), nil
	}
	return mapping.Load(path)
}

// applyRowRange parses "start-end" (0-based, inclusive) into the run config.
func applyRowRange(spec string) error {
	if spec == "" {
		return nil
	}
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return fmt.Errorf("row range %q must be start-end", spec)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("row range start %q: %w", parts[0], err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("row range end %q: %w", parts[1], err)
	}
	cfg.Run.RowStart = start
	cfg.Run.RowEnd = end
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("csv", "", "CSV file of respondent rows")
	runCmd.Flags().String("mapping", "", "YAML question mapping (default: embedded table)")
	runCmd.Flags().String("start-url", "", "survey entry URL")
	runCmd.Flags().Int("row-index", 0, "0-based row to fill")
	runCmd.Flags().StringVar(&runRowRange, "row-range", "", "inclusive 0-based row range, e.g. 2-5")
	runCmd.Flags().Bool("all-rows", false, "fill every row")
	runCmd.Flags().Int("parallelism", 1, "rows filled concurrently, each in its own session")
	runCmd.Flags().Float64("cps", 12, "typing speed in characters per second")
	runCmd.Flags().BoolVar(&runHeadful, "headful", false, "show the browser window")

	must(viper.BindPFlag("run.csv_path", runCmd.Flags().Lookup("csv")))
	must(viper.BindPFlag("run.mapping_path", runCmd.Flags().Lookup("mapping")))
	must(viper.BindPFlag("run.start_url", runCmd.Flags().Lookup("start-url")))
	must(viper.BindPFlag("run.row_index", runCmd.Flags().Lookup("row-index")))
	must(viper.BindPFlag("run.all_rows", runCmd.Flags().Lookup("all-rows")))
	must(viper.BindPFlag("run.parallelism", runCmd.Flags().Lookup("parallelism")))
	must(viper.BindPFlag("typing.chars_per_second", runCmd.Flags().Lookup("cps")))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
