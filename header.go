package wpress

import (
	"bytes"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Header layout. Every field is zero-padded to its fixed width.
const (
	NameSize   = 255
	SizeSize   = 14
	MTimeSize  = 12
	PrefixSize = 4096

	// HeaderSize is the width of a header block and of the terminator block.
	HeaderSize = NameSize + SizeSize + MTimeSize + PrefixSize

	nameOff   = 0
	sizeOff   = nameOff + NameSize
	mtimeOff  = sizeOff + SizeSize
	prefixOff = mtimeOff + MTimeSize
)

var terminator [HeaderSize]byte

// Field identifies one slot of a header block.
type Field uint8

// Header fields in on-disk order.
const (
	FieldName Field = iota
	FieldSize
	FieldMTime
	FieldPrefix
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldSize:
		return "size"
	case FieldMTime:
		return "mtime"
	case FieldPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

func (f Field) bounds() (start, end int) {
	switch f {
	case FieldName:
		return nameOff, sizeOff
	case FieldSize:
		return sizeOff, mtimeOff
	case FieldMTime:
		return mtimeOff, prefixOff
	default:
		return prefixOff, HeaderSize
	}
}

func (f Field) width() int {
	start, end := f.bounds()
	return end - start
}

// Header is the metadata record stored in front of every payload.
type Header struct {
	// Name is the final path component of the archived file.
	Name string

	// Size is the payload length in bytes.
	Size uint64

	// MTime is the modification time in whole seconds since the Unix epoch.
	MTime uint64

	// Prefix is the slash-separated parent directory of the archived file.
	// Empty for top-level files.
	Prefix string

	raw []byte
}

// ModTime returns MTime as a time.Time.
func (h *Header) ModTime() time.Time {
	if h.MTime > math.MaxInt64 {
		return time.Unix(math.MaxInt64, 0)
	}
	return time.Unix(int64(h.MTime), 0)
}

// Path returns the raw, unsanitized prefix/name join as stored in the archive.
// It must not be used as a filesystem destination; see SanitizePath.
func (h *Header) Path() string {
	if h.Prefix == "" {
		return h.Name
	}
	return h.Prefix + "/" + h.Name
}

// Bytes returns the HeaderSize block the header was decoded from or
// encoded into. The returned slice must not be modified.
func (h *Header) Bytes() []byte {
	return h.raw
}

// Clone returns a deep copy of h, including its raw block.
func (h *Header) Clone() Header {
	c := *h
	c.raw = bytes.Clone(h.raw)
	return c
}

// IsTerminator reports whether block is the all-zero end-of-archive block.
func IsTerminator(block []byte) bool {
	return bytes.Equal(block, terminator[:])
}

// DecodeHeader parses a HeaderSize block.
//
// Each slot is read up to its first zero byte. Name and prefix must be valid
// UTF-8; size and mtime must be unsigned decimal integers.
func DecodeHeader(block []byte) (*Header, error) {
	if len(block) != HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrIncompleteHeader, len(block), HeaderSize)
	}

	name, err := readField(block, FieldName)
	if err != nil {
		return nil, err
	}
	size, err := readUintField(block, FieldSize)
	if err != nil {
		return nil, err
	}
	mtime, err := readUintField(block, FieldMTime)
	if err != nil {
		return nil, err
	}
	prefix, err := readField(block, FieldPrefix)
	if err != nil {
		return nil, err
	}

	return &Header{
		Name:   name,
		Size:   size,
		MTime:  mtime,
		Prefix: prefix,
		raw:    bytes.Clone(block),
	}, nil
}

func readField(block []byte, f Field) (string, error) {
	start, end := f.bounds()
	slot := block[start:end]
	if i := bytes.IndexByte(slot, 0); i >= 0 {
		slot = slot[:i]
	}
	if !utf8.Valid(slot) {
		return "", &FieldError{Op: "decode", Field: f, Err: fmt.Errorf("%w: invalid UTF-8", ErrInvalidHeader)}
	}
	return string(slot), nil
}

func readUintField(block []byte, f Field) (uint64, error) {
	s, err := readField(block, f)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &FieldError{Op: "decode", Field: f, Err: fmt.Errorf("%w: %w", ErrInvalidHeader, err)}
	}
	return v, nil
}

// NewHeader builds a header from explicit values.
//
// Every value is checked against its slot width before anything is
// serialized; nothing is ever truncated.
func NewHeader(name, prefix string, size uint64, modTime time.Time) (*Header, error) {
	if name == "" {
		return nil, &FieldError{Op: "encode", Field: FieldName, Err: ErrNoName}
	}
	if strings.ContainsRune(name, '/') {
		return nil, &FieldError{Op: "encode", Field: FieldName, Err: fmt.Errorf("%w: contains path separator", ErrInvalidField)}
	}
	secs := modTime.Unix()
	if secs < 0 {
		return nil, &FieldError{Op: "encode", Field: FieldMTime, Err: ErrBeforeEpoch}
	}

	sizeText := strconv.FormatUint(size, 10)
	mtimeText := strconv.FormatInt(secs, 10)
	values := [...]struct {
		field Field
		text  string
	}{
		{FieldName, name},
		{FieldSize, sizeText},
		{FieldMTime, mtimeText},
		{FieldPrefix, prefix},
	}
	for _, v := range values {
		if err := checkField(v.field, v.text); err != nil {
			return nil, err
		}
	}

	raw := make([]byte, HeaderSize)
	for _, v := range values {
		start, _ := v.field.bounds()
		copy(raw[start:], v.text)
	}

	return &Header{
		Name:   name,
		Size:   size,
		MTime:  uint64(secs),
		Prefix: prefix,
		raw:    raw,
	}, nil
}

func checkField(f Field, text string) error {
	if n, limit := len(text), f.width(); n > limit {
		return &FieldError{Op: "encode", Field: f, Err: fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrFieldTooLong, n, limit)}
	}
	if strings.IndexByte(text, 0) >= 0 {
		return &FieldError{Op: "encode", Field: f, Err: fmt.Errorf("%w: contains NUL byte", ErrInvalidField)}
	}
	return nil
}

// HeaderFromFile builds a header for the file at p from its filesystem
// metadata. The name is the final path component and the prefix is the
// cleaned parent directory in slash form ("" when there is none).
//
// HeaderFromFile follows symbolic links; callers decide which files are
// eligible for archiving.
func HeaderFromFile(p string) (*Header, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return headerFromInfo(p, info)
}

// headerFromInfo builds the header for p from metadata already read by the
// caller.
func headerFromInfo(p string, info fs.FileInfo) (*Header, error) {
	clean := filepath.Clean(p)
	name := filepath.Base(clean)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, &FieldError{Op: "encode", Field: FieldName, Err: fmt.Errorf("%w: %q", ErrNoName, p)}
	}

	prefix := filepath.ToSlash(filepath.Dir(clean))
	if prefix == "." {
		prefix = ""
	}

	size := info.Size()
	if size < 0 {
		return nil, fmt.Errorf("negative file size: %s", p)
	}

	h, err := NewHeader(name, prefix, uint64(size), info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return h, nil
}
