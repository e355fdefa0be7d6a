package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		setupDir       bool
		setupHidden    bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   ChangeType
	}{
		{name: "create file event", setupFile: true, operation: fsnotify.Create, expectedChange: true, expectedType: ChangeCreated},
		{name: "write file event", setupFile: true, operation: fsnotify.Write, expectedChange: true, expectedType: ChangeUpdated},
		{name: "remove file event", operation: fsnotify.Remove, expectedChange: true, expectedType: ChangeDeleted},
		{name: "rename file event", operation: fsnotify.Rename, expectedChange: true, expectedType: ChangeDeleted},
		{name: "chmod file event - not handled", setupFile: true, operation: fsnotify.Chmod},
		{name: "create directory event - should be skipped", setupDir: true, operation: fsnotify.Create},
		{name: "hidden file create - should be skipped", setupHidden: true, operation: fsnotify.Create},
		{name: "hidden file remove - should be skipped", setupHidden: true, operation: fsnotify.Remove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var eventPath string
			switch {
			case tt.setupDir:
				eventPath = filepath.Join(tempDir, "testdir")
				require.NoError(t, os.Mkdir(eventPath, 0o755))
			case tt.setupHidden:
				eventPath = filepath.Join(tempDir, ".hidden.txt")
				if tt.operation != fsnotify.Remove {
					require.NoError(t, os.WriteFile(eventPath, []byte("hidden"), 0o644))
				}
			case tt.setupFile:
				eventPath = filepath.Join(tempDir, "test.txt")
				require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0o644))
			default:
				eventPath = filepath.Join(tempDir, "removed.txt")
			}

			w := New(tempDir)
			change := w.handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if !tt.expectedChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, eventPath, change.Path)
		})
	}
}

func TestWatcher_Watch(t *testing.T) {
	t.Run("detects new files", func(t *testing.T) {
		tempDir := t.TempDir()
		w := New(tempDir)
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := w.Watch(ctx)
		require.NoError(t, err)

		testFile := filepath.Join(tempDir, "new-file.txt")
		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(testFile, []byte("content"), 0o644) //nolint:errcheck
		}()

		select {
		case change := <-changes:
			assert.Equal(t, ChangeCreated, change.Type)
			assert.Equal(t, testFile, change.Path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change event")
		}
	})

	t.Run("detects deletions", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "to-delete.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("delete me"), 0o644))

		w := New(tempDir)
		defer w.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := w.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.Remove(testFile) //nolint:errcheck
		}()

		select {
		case change := <-changes:
			assert.Equal(t, ChangeDeleted, change.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file deletion event")
		}
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		w := New("/non/existent/path")

		changes, err := w.Watch(context.Background())

		assert.Nil(t, changes)
		assert.ErrorContains(t, err, "root path error")
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		w := New(t.TempDir())
		defer w.Close()
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := w.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("returns error when closed", func(t *testing.T) {
		w := New(t.TempDir())
		require.NoError(t, w.Close())

		changes, err := w.Watch(context.Background())

		assert.Nil(t, changes)
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestWatcher_Close_Idempotent(t *testing.T) {
	w := New(t.TempDir())

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestWatcher_Existing(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".hidden"), []byte("h"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "sub"), 0o755))

	paths, err := New(tempDir).Existing()

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tempDir, "a.txt")}, paths)
}
