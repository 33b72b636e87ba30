package cli

import (
	"strings"

	"github.com/harun/recall/internal/tracing"
	"github.com/harun/recall/pkg/memory"
	"github.com/spf13/cobra"
)

var recallLimit int

var recallCmd = &cobra.Command{
	Use:   "recall <owner> <query>...",
	Short: "Retrieve the memories most relevant to a query",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRecall,
}

func init() {
	recallCmd.Flags().IntVar(&recallLimit, "limit", 0, "maximum results (default from config, capped at 50)")
	rootCmd.AddCommand(recallCmd)
}

func runRecall(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tracing.EnsureRequestID(cmd.Context())
	ownerID := args[0]
	query := strings.Join(args[1:], " ")

	results, err := a.service.Retrieve(ctx, ownerID, query, recallLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		cmd.Println("No memories found")
		return nil
	}

	items := memory.NewContextAssembler().Assemble(results)
	for i, item := range items {
		cmd.Printf("%2d. [%.3f] %s (%s)\n", i+1, results[i].Score, item.Text, item.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
