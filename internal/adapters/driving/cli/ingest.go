package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
)

var (
	ingestIsolate bool
	ingestJSON    bool
	ingestText    string
	ingestDocID   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Index files or text",
	Long: `Index files into the vector store.

Images (.png, .jpg, .jpeg, .gif, .webp) are captioned and embedded.
PDFs are indexed as text plus one image per page. Anything else is read
as UTF-8 text. Every file gets a new doc_id.

Use --text to index a string directly, optionally under --doc.`,
	RunE: runIngest,
}

type ingestOutput struct {
	Status   string   `json:"status"`
	DocID    string   `json:"doc_id"`
	FileName string   `json:"file_name,omitempty"`
	Kind     string   `json:"kind"`
	Chunks   int      `json:"chunks"`
	Images   int      `json:"images"`
	Failures []string `json:"failures,omitempty"`
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestIsolate, "isolate", false, "continue past per-page PDF failures")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "index this text instead of files")
	ingestCmd.Flags().StringVar(&ingestDocID, "doc", "", "doc_id for --text (default: new id)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestText == "" && len(args) == 0 {
		return errors.New("nothing to ingest: pass files or --text")
	}

	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var outputs []ingestOutput

	if ingestText != "" {
		docID := ingestDocID
		if docID == "" {
			docID = services.NewDocID()
		}
		report, err := ingestService.IngestText(cmd.Context(), ingestText, docID)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		outputs = append(outputs, toIngestOutput(domain.UploadResult{
			DocID: docID, Kind: domain.UploadKindText, Report: report,
		}))
	}

	policy := domain.FailurePolicy("")
	if ingestIsolate {
		policy = domain.FailurePolicyIsolate
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		result, err := ingestService.IngestUpload(cmd.Context(), domain.Upload{
			FileName:    filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		}, policy)
		if err != nil {
			return fmt.Errorf("ingest %s failed: %w", path, err)
		}
		outputs = append(outputs, toIngestOutput(result))
	}

	if ingestJSON {
		return printJSON(cmd, outputs)
	}
	for _, out := range outputs {
		name := out.FileName
		if name == "" {
			name = "(text)"
		}
		cmd.Printf("%s %s: doc_id=%s kind=%s chunks=%d images=%d\n",
			out.Status, name, out.DocID, out.Kind, out.Chunks, out.Images)
		for _, f := range out.Failures {
			cmd.Printf("  failed: %s\n", f)
		}
	}
	return nil
}

func toIngestOutput(result domain.UploadResult) ingestOutput {
	out := ingestOutput{
		Status:   "uploaded",
		DocID:    result.DocID,
		FileName: result.FileName,
		Kind:     string(result.Kind),
		Chunks:   result.Report.TextChunks,
		Images:   result.Report.Images,
	}
	if result.Report.Partial() {
		out.Status = "partial"
		for _, f := range result.Report.Failures {
			out.Failures = append(out.Failures, fmt.Sprintf("%s: %v", f.Item, f.Err))
		}
	}
	return out
}
