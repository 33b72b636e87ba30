package cli

import (
	"github.com/harun/recall/internal/tracing"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <owner>",
	Short: "List an owner's memories chronologically",
	Long: `List an owner's memories newest first, straight from the record
store. Unlike recall, this includes memories whose index write failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tracing.EnsureRequestID(cmd.Context())

	records, err := a.service.History(ctx, args[0], historyLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No memories recorded")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%6d  %s  %s\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.RawText)
	}
	return nil
}
