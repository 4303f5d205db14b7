package wpress

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/meigma/wpress/internal/sizing"
)

// Reader indexes an archive on open and extracts its entries by seeking
// into the open stream.
//
// A Reader owns a single stream cursor and must not be used by multiple
// goroutines at the same time.
type Reader struct {
	src      io.ReadSeeker
	closer   io.Closer
	headers  []Header
	offsets  []int64 // payload offset of each header
	buf      []byte
	logger   *slog.Logger
	progress ProgressFunc
}

// Open opens the archive at path read-only and indexes it.
//
// The returned Reader must be closed to release the file handle.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewReader indexes the archive readable from src.
//
// Indexing reads every header block and seeks past every payload; payloads
// are not validated until they are extracted. A stream that ends before the
// terminator block fails with ErrIncompleteHeader.
func NewReader(src io.ReadSeeker, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{
		src: src,
		buf: make([]byte, 32*1024),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.index(); err != nil {
		return nil, err
	}
	return r, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// reportProgress sends a progress event if a callback is configured.
func (r *Reader) reportProgress(stage ProgressStage, path string, bytesDone, bytesTotal uint64, filesDone, filesTotal int) {
	if r.progress == nil {
		return
	}
	r.progress(ProgressEvent{
		Stage:      stage,
		Path:       path,
		BytesDone:  bytesDone,
		BytesTotal: bytesTotal,
		FilesDone:  filesDone,
		FilesTotal: filesTotal,
	})
}

// index scans header blocks until the terminator, skipping payloads.
func (r *Reader) index() error {
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind archive: %w", err)
	}

	block := make([]byte, HeaderSize)
	var off int64
	for {
		if _, err := io.ReadFull(r.src, block); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w at offset %d", ErrIncompleteHeader, off)
			}
			return fmt.Errorf("read header at offset %d: %w", off, err)
		}
		if IsTerminator(block) {
			break
		}

		h, err := DecodeHeader(block)
		if err != nil {
			return fmt.Errorf("header at offset %d: %w", off, err)
		}
		next, err := sizing.Advance(off+HeaderSize, h.Size, ErrSizeOverflow)
		if err != nil {
			return fmt.Errorf("header at offset %d: %w", off, err)
		}
		if _, err := r.src.Seek(next-off-HeaderSize, io.SeekCurrent); err != nil {
			return fmt.Errorf("skip payload of %s: %w", h.Path(), err)
		}

		r.headers = append(r.headers, *h)
		r.offsets = append(r.offsets, off+HeaderSize)
		off = next

		r.reportProgress(StageIndexing, h.Path(), 0, 0, len(r.headers), 0)
	}

	r.log().Debug("indexed archive", "file_count", len(r.headers), "terminator_offset", off)
	return nil
}

// FilesCount returns the number of entries in the archive.
func (r *Reader) FilesCount() int {
	return len(r.headers)
}

// Headers returns the archive index in archival order.
//
// The returned slice is shared with the Reader and must not be modified;
// use HeadersOwned for an independent copy.
func (r *Reader) Headers() []Header {
	return r.headers
}

// HeadersOwned returns a deep copy of the archive index.
func (r *Reader) HeadersOwned() []Header {
	out := make([]Header, len(r.headers))
	for i := range r.headers {
		out[i] = r.headers[i].Clone()
	}
	return out
}

// Extract extracts every entry into the current working directory.
func (r *Reader) Extract() error {
	return r.ExtractTo(".")
}

// ExtractTo extracts every entry into dest, in archival order.
//
// Entry paths are sanitized with SanitizePath, so no entry is written
// outside dest. Parent directories are created as needed and existing files
// are truncated. Extraction stops at the first error; files written before
// it are left in place.
func (r *Reader) ExtractTo(dest string) error {
	r.log().Info("extracting archive", "dest", dest, "file_count", len(r.headers))

	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind archive: %w", err)
	}

	root, err := openDest(dest)
	if err != nil {
		return err
	}
	defer root.Close()

	var total uint64
	for i := range r.headers {
		total += r.headers[i].Size
	}

	var done uint64
	for i := range r.headers {
		h := &r.headers[i]
		// The index already holds the decoded header, so skip the block.
		if _, err := r.src.Seek(HeaderSize, io.SeekCurrent); err != nil {
			return fmt.Errorf("skip header of %s: %w", h.Path(), err)
		}
		if err := r.extractEntry(root, h); err != nil {
			return err
		}
		done += h.Size
		r.reportProgress(StageExtracting, h.Path(), done, total, i+1, len(r.headers))
	}
	return nil
}

// ExtractFile extracts the first entry matching target into dest.
//
// For each entry, in archival order, target is compared against the bare
// name, the sanitized path and the raw prefix/name join. Both sides are
// cleaned lexically first, so "a/b//f", "a/b/f/" and "./a/b/f" all match
// "a/b/f". Only the first matching entry is extracted. If nothing matches, ExtractFile returns an
// *fs.PathError wrapping fs.ErrNotExist.
func (r *Reader) ExtractFile(target, dest string) error {
	idx, off, ok := r.locate(target)
	if !ok {
		return &fs.PathError{Op: "extract", Path: target, Err: fs.ErrNotExist}
	}
	h := &r.headers[idx]

	if _, err := r.src.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %s: %w", h.Path(), err)
	}

	root, err := openDest(dest)
	if err != nil {
		return err
	}
	defer root.Close()

	if err := r.extractEntry(root, h); err != nil {
		return err
	}
	r.reportProgress(StageExtracting, h.Path(), h.Size, h.Size, 1, 1)
	return nil
}

// Lookup finds the first entry matching target, using the same rules as
// ExtractFile. It returns a copy of the header and the offset of the
// entry's payload in the archive.
func (r *Reader) Lookup(target string) (Header, int64, bool) {
	idx, off, ok := r.locate(target)
	if !ok {
		return Header{}, 0, false
	}
	return r.headers[idx].Clone(), off, true
}

// OpenFile returns a reader over the payload of the first entry matching
// target.
//
// When the archive source implements io.ReaderAt the returned reader is
// independent of the Reader's cursor. Otherwise it reads through the shared
// cursor and is only valid until the next call on the Reader.
func (r *Reader) OpenFile(target string) (io.Reader, *Header, error) {
	idx, _, ok := r.locate(target)
	if !ok {
		return nil, nil, &fs.PathError{Op: "open", Path: target, Err: fs.ErrNotExist}
	}
	return r.openAt(idx)
}

// OpenEntry returns a reader over the payload of the i-th entry in archival
// order, with the same cursor rules as OpenFile. Unlike OpenFile it can
// reach every entry when paths repeat.
func (r *Reader) OpenEntry(i int) (io.Reader, *Header, error) {
	if i < 0 || i >= len(r.headers) {
		return nil, nil, &fs.PathError{Op: "open", Path: "#" + strconv.Itoa(i), Err: fs.ErrNotExist}
	}
	return r.openAt(i)
}

func (r *Reader) openAt(idx int) (io.Reader, *Header, error) {
	h := r.headers[idx].Clone()
	off := r.offsets[idx]
	size, err := sizing.ToInt64(h.Size, ErrSizeOverflow)
	if err != nil {
		return nil, nil, err
	}

	if ra, ok := r.src.(io.ReaderAt); ok {
		return io.NewSectionReader(ra, off, size), &h, nil
	}
	if _, err := r.src.Seek(off, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("seek to %s: %w", h.Path(), err)
	}
	return io.LimitReader(r.src, size), &h, nil
}

// Close releases the archive file opened by Open. Closing a Reader created
// with NewReader does not close its source.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// locate returns the index of the first entry matching target and the
// offset of its payload.
func (r *Reader) locate(target string) (int, int64, bool) {
	target = path.Clean(filepath.ToSlash(target))
	for i := range r.headers {
		if matches(&r.headers[i], target) {
			return i, r.offsets[i], true
		}
	}
	return 0, 0, false
}

// matches compares an already cleaned target against the candidate forms
// of h.
func matches(h *Header, target string) bool {
	if path.Clean(h.Name) == target {
		return true
	}
	if clean, err := SanitizePath(h.Prefix, h.Name); err == nil && clean == target {
		return true
	}
	return path.Clean(h.Path()) == target
}

// extractEntry copies h.Size bytes from the current cursor position into
// the sanitized destination path of h.
func (r *Reader) extractEntry(root *os.Root, h *Header) error {
	rel, err := SanitizePath(h.Prefix, h.Name)
	if err != nil {
		return &fs.PathError{Op: "extract", Path: h.Path(), Err: err}
	}
	size, err := sizing.ToInt64(h.Size, ErrSizeOverflow)
	if err != nil {
		return err
	}

	fsRel := filepath.FromSlash(rel)
	if dir := filepath.Dir(fsRel); dir != "." {
		if err := root.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	f, err := root.OpenFile(fsRel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create file %s: %w", rel, err)
	}

	n, err := io.CopyBuffer(f, io.LimitReader(r.src, size), r.buf)
	if err == nil && n != size {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("extract %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", rel, err)
	}

	r.log().Debug("extracted file", "path", rel, "size", h.Size)
	return nil
}

// openDest creates dest if needed and opens it as a root, so writes
// through it cannot escape dest even through existing symlinks.
func openDest(dest string) (*os.Root, error) {
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}
	root, err := os.OpenRoot(dest)
	if err != nil {
		return nil, fmt.Errorf("open destination root %s: %w", dest, err)
	}
	return root, nil
}
