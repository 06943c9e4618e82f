package newsgraph

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newsgraph/newsgraph/pkg/chunker"
	"github.com/newsgraph/newsgraph/pkg/config"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest scraped articles into the knowledge graph",
	Long: `Ingest reads article records from a CSV, JSONL or Parquet file and
merge-upserts them into the graph. Re-running the same file is safe: every
node and relationship is keyed on its natural id.

Pass --embed to run the embedding backfill right after ingesting.`,
	Args: cobra.ExactArgs(1),
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

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			if err := eng.Reset(ctx); err != nil {
				return err
			}
		}
		if err := eng.EnsureSchema(ctx); err != nil {
			return err
		}

		stats, err := eng.IngestFile(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %d/%d articles (%d skipped, %d fragments)\n",
			stats.Succeeded, stats.Total, stats.Skipped, stats.Fragments)

		if embed, _ := cmd.Flags().GetBool("embed"); embed {
			backfill, err := eng.Backfill(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Embedded %d/%d fragments (%d failed)\n",
				backfill.Embedded, backfill.Pending, backfill.Failed)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().Bool("reset", false, "Wipe the graph before ingesting")
	ingestCmd.Flags().Bool("embed", false, "Run the embedding backfill after ingesting")
	ingestCmd.Flags().String("checkpoint", "", "Path to a checkpoint database for resumable ingests")
	ingestCmd.Flags().Int("chunk-size", chunker.DefaultChunkSize, "Fragment size in characters")
	ingestCmd.Flags().Int("overlap", chunker.DefaultOverlap, "Fragment overlap in characters")

	viper.BindPFlag("ingest.checkpoint_path", ingestCmd.Flags().Lookup("checkpoint"))
	viper.BindPFlag("ingest.chunk_size", ingestCmd.Flags().Lookup("chunk-size"))
	viper.BindPFlag("ingest.overlap", ingestCmd.Flags().Lookup("overlap"))

	rootCmd.AddCommand(ingestCmd)
}
