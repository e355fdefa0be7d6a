package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/services"
)

var youtubeJSON bool

var youtubeCmd = &cobra.Command{
	Use:   "youtube [url]",
	Short: "Index a YouTube video transcript",
	Long: `Fetch the English transcript of a YouTube video, index it under a new
doc_id and print a short summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runYouTube,
}

func init() {
	youtubeCmd.Flags().BoolVar(&youtubeJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(youtubeCmd)
}

func runYouTube(cmd *cobra.Command, args []string) error {
	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()
	if youtubeService == nil {
		return errors.New("youtube service not configured")
	}

	result, err := youtubeService.Ingest(cmd.Context(), args[0])
	if err != nil {
		msg, _ := services.YouTubeErrorMessage(err)
		return errors.New(msg)
	}

	if youtubeJSON {
		return printJSON(cmd, map[string]string{
			"status":   "indexed",
			"doc_id":   result.DocID,
			"video_id": result.VideoID,
			"title":    result.Title,
			"summary":  result.Summary,
		})
	}

	cmd.Printf("Indexed %s\n", result.Title)
	cmd.Printf("  doc_id: %s\n", result.DocID)
	if result.Summary != "" {
		cmd.Println()
		cmd.Println(result.Summary)
	}
	return nil
}
