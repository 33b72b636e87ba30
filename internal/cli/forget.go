package cli

import (
	"fmt"
	"strconv"

	"github.com/harun/recall/internal/tracing"
	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <owner> <id>",
	Short: "Delete a memory from both stores",
	Args:  cobra.ExactArgs(2),
	RunE:  runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid memory id %q", args[1])
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tracing.EnsureRequestID(cmd.Context())

	if err := a.service.Forget(ctx, args[0], id); err != nil {
		return err
	}

	cmd.Printf("Memory %d forgotten\n", id)
	return nil
}
