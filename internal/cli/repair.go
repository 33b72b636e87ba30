package cli

import (
	"github.com/harun/recall/internal/tracing"
	"github.com/harun/recall/pkg/repair"
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Re-index memories whose vector entry is missing",
	Long: `Run one reconciliation pass: every record without a matching
vector index entry is re-embedded and re-indexed. Safe to run repeatedly;
a pass that finds nothing to do changes nothing.`,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	reindexer, err := repair.NewReindexer(repair.Config{
		Store:     a.store,
		Index:     a.index,
		Embedder:  buildEmbedder(a.cfg),
		Logger:    a.logger.GetZerolog(),
		BatchSize: a.cfg.Repair.BatchSize,
	})
	if err != nil {
		return err
	}

	ctx := tracing.EnsureRequestID(cmd.Context())
	n, err := reindexer.RunOnce(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Re-indexed %d memories\n", n)
	return nil
}
