// Package testutil builds raw archives and file trees for tests.
//
// Archives are assembled byte by byte from the on-disk layout rather than
// through the wpress encoder, so tests can produce headers the encoder
// would reject (hostile prefixes, bad numbers, short payloads).
package testutil

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// Header slot layout, mirrored from the format definition.
const (
	HeaderSize = 4377

	nameOff   = 0
	sizeOff   = 255
	mtimeOff  = 269
	prefixOff = 281
)

// TestEntry holds data for one archive entry.
type TestEntry struct {
	Name   string
	Prefix string
	MTime  uint64
	Data   []byte

	// SizeText overrides the decimal size written in the header when set.
	SizeText string
}

// Block returns the raw header block for e.
func (e TestEntry) Block() []byte {
	block := make([]byte, HeaderSize)
	size := e.SizeText
	if size == "" {
		size = strconv.Itoa(len(e.Data))
	}
	copy(block[nameOff:sizeOff], e.Name)
	copy(block[sizeOff:mtimeOff], size)
	copy(block[mtimeOff:prefixOff], strconv.FormatUint(e.MTime, 10))
	copy(block[prefixOff:], e.Prefix)
	return block
}

// BuildArchive returns an archive holding entries followed by the
// terminator block.
func BuildArchive(tb testing.TB, entries []TestEntry) []byte {
	tb.Helper()

	var buf bytes.Buffer
	for _, e := range entries {
		buf.Write(e.Block())
		buf.Write(e.Data)
	}
	buf.Write(make([]byte, HeaderSize))
	return buf.Bytes()
}

// WriteArchive writes BuildArchive(entries) to a file in a fresh temp
// directory and returns its path.
func WriteArchive(tb testing.TB, entries []TestEntry) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "test.wpress")
	if err := os.WriteFile(path, BuildArchive(tb, entries), 0o600); err != nil {
		tb.Fatalf("write archive: %v", err)
	}
	return path
}

// WriteFiles creates files under dir from a map of slash-separated relative
// paths to contents, creating parent directories as needed.
func WriteFiles(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			tb.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, content, 0o600); err != nil {
			tb.Fatalf("write %s: %v", rel, err)
		}
	}
}

// ReadTree returns every regular file under dir, keyed by slash-separated
// path relative to dir.
func ReadTree(tb testing.TB, dir string) map[string][]byte {
	tb.Helper()

	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path) //nolint:gosec // test helper
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = content
		return nil
	})
	if err != nil {
		tb.Fatalf("read tree %s: %v", dir, err)
	}
	return files
}

// SeekOnly hides every method of R except Read and Seek, so code paths that
// prefer io.ReaderAt can be exercised with a plain stream.
type SeekOnly struct {
	R io.ReadSeeker
}

// Read implements io.Reader.
func (s *SeekOnly) Read(p []byte) (int, error) { return s.R.Read(p) }

// Seek implements io.Seeker.
func (s *SeekOnly) Seek(offset int64, whence int) (int64, error) {
	return s.R.Seek(offset, whence)
}
