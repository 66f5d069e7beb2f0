// File: cmd/extract.go
package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/surveyfill-cli/internal/extract"
)

var extractSuggest bool

var extractCmd = &cobra.Command{
	Use:   "extract <snapshot.html>",
	Short: "Inventory the questions in a saved survey page.",
	Long: `Extract parses an HTML snapshot of a survey page and lists each question
group with its heading and control counts. With --suggest it emits a YAML
mapping skeleton instead, ready for hand editing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := extract.FromFile(args[0])
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return fmt.Errorf("no question sections found in %s", args[0])
		}

		if extractSuggest {
			table := extract.SuggestTable(questions)
			out, err := yaml.Marshal(table)
			if err != nil {
				return fmt.Errorf("failed to render mapping skeleton: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		}

		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(questions)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractSuggest, "suggest", false, "emit a YAML mapping skeleton instead of the inventory")
}
