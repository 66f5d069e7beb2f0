// File: cmd/plan.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/surveyfill-cli/internal/plan"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

var (
	planCSV      string
	planMapping  string
	planStartURL string
	planRowIndex int
	planJSON     bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the actions a run would take for one row, without a browser.",
	Long: `Plan resolves one CSV row against the question mapping and prints every
action a run would attempt, including skips with their reasons and CSV
columns the mapping never references. Nothing is navigated or filled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planCSV == "" {
			return fmt.Errorf("--csv is required")
		}

		rows, err := rowdata.Load(planCSV)
		if err != nil {
			return err
		}
		if planRowIndex < 0 || planRowIndex >= len(rows) {
			return fmt.Errorf("row index %d out of range (%d rows)", planRowIndex, len(rows))
		}
		table, err := loadTable(planMapping)
		if err != nil {
			return err
		}

		actions := plan.Build(table, rows[planRowIndex], planStartURL)
		if planJSON {
			return plan.WriteJSON(os.Stdout, actions)
		}
		return plan.WriteText(os.Stdout, actions)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planCSV, "csv", "", "CSV file of respondent rows")
	planCmd.Flags().StringVar(&planMapping, "mapping", "", "YAML question mapping (default: embedded table)")
	planCmd.Flags().StringVar(&planStartURL, "start-url", "", "survey entry URL to include as the first action")
	planCmd.Flags().IntVar(&planRowIndex, "row-index", 0, "0-based row to plan")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "emit the plan as JSON")
}
