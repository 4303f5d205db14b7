package wpress

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/wpress/internal/platform"
	"github.com/meigma/wpress/internal/sizing"
)

// Writer collects source files and writes them as one archive.
//
// A Writer goes through Create, any number of Add calls, and a single
// Write. After Write or Close, Add and Write return ErrWriterClosed. A
// Writer must not be used by multiple goroutines at the same time.
type Writer struct {
	f       *os.File
	name    string
	paths   []string
	written bool
	cfg     writerConfig
}

// Create creates or truncates the archive file at path.
func Create(path string, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Create(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	return &Writer{f: f, name: path, cfg: cfg}, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (w *Writer) log() *slog.Logger {
	if w.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.cfg.logger
}

// reportProgress sends a progress event if a callback is configured.
func (w *Writer) reportProgress(stage ProgressStage, path string, bytesDone, bytesTotal uint64, filesDone, filesTotal int) {
	if w.cfg.progress == nil {
		return
	}
	w.cfg.progress(ProgressEvent{
		Stage:      stage,
		Path:       path,
		BytesDone:  bytesDone,
		BytesTotal: bytesTotal,
		FilesDone:  filesDone,
		FilesTotal: filesTotal,
	})
}

// Add records path for inclusion in the archive. Nothing is written until
// Write is called.
//
// Directories are walked recursively in the order os.ReadDir returns their
// entries. Regular files are appended to the pending list. Symbolic links,
// devices, sockets and named pipes are skipped without error.
func (w *Writer) Add(path string) error {
	if w.written {
		return ErrWriterClosed
	}

	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	switch {
	case info.IsDir():
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := w.Add(filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
	case info.Mode().IsRegular():
		if w.cfg.maxFiles > 0 && len(w.paths) >= w.cfg.maxFiles {
			return ErrTooManyFiles
		}
		w.paths = append(w.paths, path)
		w.reportProgress(StageEnumerating, path, 0, 0, len(w.paths), 0)
	default:
		w.log().Debug("skipped non-regular file", "path", path, "mode", info.Mode().Type().String())
	}
	return nil
}

// FilesCount returns the number of files collected so far.
func (w *Writer) FilesCount() int {
	return len(w.paths)
}

// Write writes a header and payload for every collected file, in the order
// they were added, followed by the terminator block, and closes the archive
// file.
//
// Write may only be called once. The archive file is closed even when Write
// fails; a failed Write leaves a partial archive behind.
func (w *Writer) Write() (err error) {
	if w.written {
		return ErrWriterClosed
	}
	w.written = true

	w.log().Info("writing archive", "path", w.name, "file_count", len(w.paths))

	defer func() {
		if cerr := w.f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
	}()

	bw := bufio.NewWriterSize(w.f, 64*1024)
	buf := make([]byte, 32*1024)
	var done uint64
	for i, path := range w.paths {
		n, err := w.writeEntry(bw, buf, path)
		if err != nil {
			return err
		}
		done += n
		w.reportProgress(StageWriting, path, done, 0, i+1, len(w.paths))
	}

	if _, err := bw.Write(terminator[:]); err != nil {
		return fmt.Errorf("write terminator: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	w.log().Debug("archive written", "file_count", len(w.paths), "data_size", done)
	return nil
}

// Close closes the archive file without writing any entries, leaving an
// empty file behind. It is a no-op after Write, so it can be deferred right
// after Create.
func (w *Writer) Close() error {
	if w.written {
		return nil
	}
	w.written = true
	return w.f.Close()
}

// writeEntry writes the header block and exactly Size payload bytes for
// the file at path, returning the payload size.
func (w *Writer) writeEntry(out io.Writer, buf []byte, path string) (uint64, error) {
	// The header is built from the opened descriptor, so a path swapped for
	// a symlink or pipe after Add is rejected rather than archived.
	f, info, err := platform.OpenRegular(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h, err := headerFromInfo(path, info)
	if err != nil {
		return 0, err
	}
	size, err := sizing.ToInt64(h.Size, ErrSizeOverflow)
	if err != nil {
		return 0, err
	}

	if _, err := out.Write(h.Bytes()); err != nil {
		return 0, fmt.Errorf("write header for %s: %w", path, err)
	}

	// The header already declares Size bytes, so a file that grew is cut
	// at Size and a file that shrank is an error.
	n, err := io.CopyBuffer(out, io.LimitReader(f, size), buf)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if n != size {
		return 0, fmt.Errorf("file size changed during archive creation: %s: expected %d, got %d", path, size, n)
	}

	w.log().Debug("wrote file", "path", path, "size", h.Size)
	return h.Size, nil
}
