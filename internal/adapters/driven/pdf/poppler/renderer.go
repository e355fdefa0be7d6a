// Package poppler extracts PDF text and renders pages with the poppler command-line tools.
package poppler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.PDFRenderer = (*Renderer)(nil)

// ErrPDFToolNotFound indicates a poppler tool is not installed.
var ErrPDFToolNotFound = errors.New("poppler tool not found")

// baseDPI is the resolution that corresponds to zoom 1.
const baseDPI = 72

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %s. %s", ErrPDFToolNotFound, name, InstallInstructions())
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Renderer implements driven.PDFRenderer with pdftotext and pdftoppm.
type Renderer struct {
	runner CommandRunner
	tmpDir string
}

// New creates a renderer that runs the poppler tools from PATH.
func New() *Renderer {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a renderer with a custom command runner.
func NewWithRunner(runner CommandRunner) *Renderer {
	return &Renderer{runner: runner}
}

// InstallInstructions explains how to install poppler.
func InstallInstructions() string {
	return "PDF ingestion needs pdftotext and pdftoppm from poppler. " +
		"Install with 'brew install poppler' (macOS) or 'apt install poppler-utils' (Debian/Ubuntu)."
}

// PageTexts returns the text of every page in order.
func (r *Renderer) PageTexts(ctx context.Context, pdf []byte) ([]string, error) {
	dir, path, err := r.writeTemp(pdf)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out, err := r.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return splitPages(string(out)), nil
}

// RenderPages rasterises every page to PNG. Zoom 1 is 72 DPI.
func (r *Renderer) RenderPages(ctx context.Context, pdf []byte, zoom float64) ([][]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	dir, path, err := r.writeTemp(pdf)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	dpi := strconv.Itoa(int(zoom * baseDPI))
	if _, err := r.runner.Run(ctx, "pdftoppm", "-png", "-r", dpi, path, prefix); err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	files, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("list rendered pages: %w", err)
	}
	sortPageFiles(files)

	pages := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read rendered page: %w", err)
		}
		pages = append(pages, data)
	}
	return pages, nil
}

func (r *Renderer) writeTemp(pdf []byte) (dir, path string, err error) {
	dir, err = os.MkdirTemp(r.tmpDir, "sercha-pdf-*")
	if err != nil {
		return "", "", fmt.Errorf("create temp dir: %w", err)
	}
	path = filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(path, pdf, 0600); err != nil {
		os.RemoveAll(dir)
		return "", "", fmt.Errorf("write temp pdf: %w", err)
	}
	return dir, path, nil
}

// splitPages splits pdftotext output on form feeds, one per page end.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, "\f")
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	for i, p := range pages {
		pages[i] = strings.TrimSpace(p)
	}
	return pages
}

// sortPageFiles orders page-N.png files by N. pdftoppm zero-pads N,
// but the padding width depends on the page count.
func sortPageFiles(files []string) {
	pageNum := func(f string) int {
		base := strings.TrimSuffix(filepath.Base(f), ".png")
		n, _ := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
		return n
	}
	sort.Slice(files, func(i, j int) bool { return pageNum(files[i]) < pageNum(files[j]) })
}
