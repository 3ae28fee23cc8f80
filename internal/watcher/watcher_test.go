package watcher

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/documember/internal/summary"
)

func TestNewAndStop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	logger := log.New(io.Discard)
	w, err := New(dir, summary.Config{Logger: logger}, logger)
	require.NoError(t, err)

	w.Start()
	require.NoError(t, w.Stop())
}

func TestNewMissingTarget(t *testing.T) {
	logger := log.New(io.Discard)
	_, err := New(filepath.Join(t.TempDir(), "absent"), summary.Config{Logger: logger}, logger)
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)

	called := false
	w, err := New(dir, summary.Config{Logger: logger}, logger,
		WithDebounceDelay(50*time.Millisecond),
		WithOnAuditStart(func() { called = true }),
	)
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, 50*time.Millisecond, w.debounceDelay)
	require.NotNil(t, w.onAuditStart)
	w.onAuditStart()
	assert.True(t, called)
}

func TestHandleEventIgnoresNonSource(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)
	w, err := New(dir, summary.Config{Logger: logger}, logger)
	require.NoError(t, err)
	defer w.Stop()

	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "notes.md"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "main_test.go"), Op: fsnotify.Write})

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	assert.Empty(t, w.pendingFiles)
}
