package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [doc_id]",
	Short: "Delete a document from both indexes",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()
	if documentService == nil {
		return errors.New("document service not configured")
	}

	result, err := documentService.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted %s\n", result.DocID)
	if !result.Complete() {
		if result.Text.Err != nil {
			cmd.Printf("  warning: text index: %v\n", result.Text.Err)
		}
		if result.Image.Err != nil {
			cmd.Printf("  warning: image index: %v\n", result.Image.Err)
		}
	}
	return nil
}
