package cli

import (
	"strings"

	"github.com/harun/recall/internal/tracing"
	"github.com/harun/recall/pkg/memory"
	"github.com/spf13/cobra"
)

var rememberCmd = &cobra.Command{
	Use:   "remember <owner> <text>...",
	Short: "Record a new memory",
	Long: `Record a free-text memory for an owner. The text is embedded and
stored in both the record store and the vector index. If the index write
fails the memory is still saved and listable; a repair pass will make it
searchable again.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRemember,
}

func init() {
	rootCmd.AddCommand(rememberCmd)
}

func runRemember(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tracing.EnsureRequestID(cmd.Context())
	ownerID := args[0]
	text := strings.Join(args[1:], " ")

	rec, err := a.service.Ingest(ctx, ownerID, text)
	if memory.IsDegraded(err) {
		cmd.Printf("Memory %d saved, but indexing failed: it will not appear in recall results until repaired (run: recall repair)\n", rec.ID)
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("Memory %d saved for %s\n", rec.ID, rec.OwnerID)
	if len(rec.Entities.People) > 0 {
		cmd.Printf("  people: %s\n", strings.Join(rec.Entities.People, ", "))
	}
	if len(rec.Entities.Activities) > 0 {
		cmd.Printf("  activities: %s\n", strings.Join(rec.Entities.Activities, ", "))
	}
	return nil
}
