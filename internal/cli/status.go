package cli

import (
	"github.com/harun/recall/internal/observability"
	"github.com/harun/recall/internal/tracing"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store and index counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tracing.EnsureRequestID(cmd.Context())

	records, err := a.store.Count(ctx)
	if err != nil {
		return err
	}
	vectors, err := a.index.Count(ctx)
	if err != nil {
		return err
	}
	observability.SetMemoryRecords(records)

	cmd.Printf("Record store: %s (%d memories)\n", a.cfg.Store.Path, records)
	cmd.Printf("Vector index: %s (%d vectors, dimension %d)\n", a.cfg.Index.Path, vectors, a.index.Dimension())
	if records > vectors {
		cmd.Printf("%d memories are not indexed; run: recall repair\n", records-vectors)
	}
	return nil
}
