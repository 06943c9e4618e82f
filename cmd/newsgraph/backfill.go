package newsgraph

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newsgraph/newsgraph/pkg/config"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Embed fragments that are still missing vectors",
	Long: `Backfill finds every content fragment without an embedding, embeds it,
and declares the vector index. Interrupted runs pick up where they left off
because only unembedded fragments are ever selected.`,
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

		stats, err := eng.Backfill(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Embedded %d/%d fragments (%d failed)\n",
			stats.Embedded, stats.Pending, stats.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}
