package poppler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	pages  int

	name string
	args []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name, m.args = name, args
	if m.err != nil {
		return nil, m.err
	}
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		for i := 1; i <= m.pages; i++ {
			f := fmt.Sprintf("%s-%02d.png", prefix, i)
			if err := os.WriteFile(f, []byte(fmt.Sprintf("png%d", i)), 0600); err != nil {
				return nil, err
			}
		}
	}
	return m.output, nil
}

func TestNew(t *testing.T) {
	r := New()
	require.NotNil(t, r)
	assert.IsType(t, execRunner{}, r.runner)
}

func TestPageTexts(t *testing.T) {
	runner := &mockRunner{output: []byte("Page one\n\fPage two\n\f")}
	r := NewWithRunner(runner)

	pages, err := r.PageTexts(context.Background(), []byte("%PDF-1.7"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Page one", "Page two"}, pages)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
}

func TestPageTexts_BlankPageKept(t *testing.T) {
	r := NewWithRunner(&mockRunner{output: []byte("a\f\fc\f")})

	pages, err := r.PageTexts(context.Background(), []byte("pdf"))

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, pages)
}

func TestPageTexts_Error(t *testing.T) {
	r := NewWithRunner(&mockRunner{err: ErrPDFToolNotFound})

	_, err := r.PageTexts(context.Background(), []byte("pdf"))

	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestRenderPages(t *testing.T) {
	runner := &mockRunner{pages: 3}
	r := NewWithRunner(runner)
	r.tmpDir = t.TempDir()

	pages, err := r.RenderPages(context.Background(), []byte("pdf"), 2)

	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("png1"), []byte("png2"), []byte("png3")}, pages)
	assert.Equal(t, "pdftoppm", runner.name)
	assert.Contains(t, runner.args, "144")

	entries, err := os.ReadDir(r.tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files are removed")
}

func TestRenderPages_Error(t *testing.T) {
	r := NewWithRunner(&mockRunner{err: errors.New("syntax error")})

	_, err := r.RenderPages(context.Background(), []byte("pdf"), 1)

	assert.ErrorContains(t, err, "render pages")
}

func TestSortPageFiles(t *testing.T) {
	files := []string{
		filepath.Join("d", "page-10.png"),
		filepath.Join("d", "page-2.png"),
		filepath.Join("d", "page-1.png"),
	}
	sortPageFiles(files)
	assert.Equal(t, []string{
		filepath.Join("d", "page-1.png"),
		filepath.Join("d", "page-2.png"),
		filepath.Join("d", "page-10.png"),
	}, files)
}

func TestSplitPages_Empty(t *testing.T) {
	assert.Nil(t, splitPages(""))
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
