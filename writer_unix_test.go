//go:build unix

package wpress

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSkipsSpecialFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("real"), 0o600))
	fifo := filepath.Join(dir, "pipe")
	require.NoError(t, syscall.Mkfifo(fifo, 0o600))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	archive := filepath.Join(t.TempDir(), "special.wpress")
	w, err := Create(archive, WriteWithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))
	require.NoError(t, w.Add(fifo))
	assert.Equal(t, 1, w.FilesCount())
	require.NoError(t, w.Write())
	assert.Contains(t, buf.String(), "skipped non-regular file")

	r, err := Open(archive)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 1, r.FilesCount())
	assert.Equal(t, "real.txt", r.Headers()[0].Name)
}
