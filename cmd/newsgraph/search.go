package newsgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newsgraph/newsgraph/pkg/answer"
	"github.com/newsgraph/newsgraph/pkg/config"
)

var searchCmd = &cobra.Command{
	Use:   "search <question>",
	Short: "Answer a question from the knowledge graph",
	Long: `Search routes the question across the retrieval strategies, merges
their results and prints a grounded answer. With --format json the full
structured response (sections and attributed sources) is printed instead of
prose.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		eng, cleanup, err := buildEngine(cfg, nil)
		if err != nil {
			return err
		}
		defer cleanup()
		ctx := cmd.Context()
		defer eng.Close(context.WithoutCancel(ctx))

		question := strings.Join(args, " ")
		outFormat, _ := cmd.Flags().GetString("format")
		asJSON := outFormat == "json"

		format := answer.FormatText
		if asJSON {
			format = answer.FormatStructured
		}

		resp, err := eng.Search(ctx, question, format)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		for _, section := range resp.Sections {
			if section.Title != "" {
				fmt.Println(section.Title)
			}
			fmt.Println(section.Content)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("format", "text", "Output format (text, json)")
	rootCmd.AddCommand(searchCmd)
}
