package wpress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/wpress/internal/testutil"
)

func TestHeaderLayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4377, HeaderSize)
	assert.Equal(t, testutil.HeaderSize, HeaderSize)

	tests := []struct {
		field        Field
		start, width int
	}{
		{FieldName, 0, 255},
		{FieldSize, 255, 14},
		{FieldMTime, 269, 12},
		{FieldPrefix, 281, 4096},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			start, _ := tt.field.bounds()
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.width, tt.field.width())
		})
	}
}

func TestNewHeader_Encoding(t *testing.T) {
	t.Parallel()

	h, err := NewHeader("file.txt", "a/b", 11, time.Unix(1700000000, 0))
	require.NoError(t, err)

	raw := h.Bytes()
	require.Len(t, raw, HeaderSize)
	assert.Equal(t, "file.txt", string(raw[0:8]))
	assert.Equal(t, byte(0), raw[8])
	assert.Equal(t, "11", string(raw[255:257]))
	assert.Equal(t, byte(0), raw[257])
	assert.Equal(t, "1700000000", string(raw[269:279]))
	assert.Equal(t, byte(0), raw[279])
	assert.Equal(t, "a/b", string(raw[281:284]))
	assert.True(t, bytes.Equal(raw[284:], make([]byte, HeaderSize-284)))

	decoded, err := DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, "file.txt", decoded.Name)
	assert.Equal(t, uint64(11), decoded.Size)
	assert.Equal(t, uint64(1700000000), decoded.MTime)
	assert.Equal(t, "a/b", decoded.Prefix)
	assert.Equal(t, raw, decoded.Bytes())
	assert.Equal(t, time.Unix(1700000000, 0), decoded.ModTime())
	assert.Equal(t, "a/b/file.txt", decoded.Path())
}

func TestNewHeader_Boundaries(t *testing.T) {
	t.Parallel()

	epoch := time.Unix(0, 0)
	tests := []struct {
		name    string
		hname   string
		prefix  string
		size    uint64
		modTime time.Time
		field   Field
		wantErr bool
	}{
		{"name 255 bytes", strings.Repeat("n", 255), "", 0, epoch, FieldName, false},
		{"name 256 bytes", strings.Repeat("n", 256), "", 0, epoch, FieldName, true},
		{"size 14 digits", "f", "", 99_999_999_999_999, epoch, FieldSize, false},
		{"size 15 digits", "f", "", 100_000_000_000_000, epoch, FieldSize, true},
		{"mtime 12 digits", "f", "", 0, time.Unix(999_999_999_999, 0), FieldMTime, false},
		{"mtime 13 digits", "f", "", 0, time.Unix(1_000_000_000_000, 0), FieldMTime, true},
		{"prefix 4096 bytes", "f", strings.Repeat("p", 4096), 0, epoch, FieldPrefix, false},
		{"prefix 4097 bytes", "f", strings.Repeat("p", 4097), 0, epoch, FieldPrefix, true},
		{"empty prefix", "f", "", 0, epoch, FieldPrefix, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHeader(tt.hname, tt.prefix, tt.size, tt.modTime)
			if !tt.wantErr {
				require.NoError(t, err)
				decoded, err := DecodeHeader(h.Bytes())
				require.NoError(t, err)
				assert.Equal(t, tt.hname, decoded.Name)
				assert.Equal(t, tt.size, decoded.Size)
				assert.Equal(t, tt.prefix, decoded.Prefix)
				return
			}
			require.ErrorIs(t, err, ErrFieldTooLong)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "encode", fe.Op)
			assert.Equal(t, tt.field, fe.Field)
			assert.Nil(t, h)
		})
	}
}

func TestNewHeader_InvalidValues(t *testing.T) {
	t.Parallel()

	_, err := NewHeader("", "a", 1, time.Unix(1, 0))
	require.ErrorIs(t, err, ErrNoName)

	_, err = NewHeader("a/b", "", 1, time.Unix(1, 0))
	require.ErrorIs(t, err, ErrInvalidField)

	_, err = NewHeader("a", "x\x00y", 1, time.Unix(1, 0))
	require.ErrorIs(t, err, ErrInvalidField)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldPrefix, fe.Field)

	_, err = NewHeader("a", "", 1, time.Unix(-1, 0))
	require.ErrorIs(t, err, ErrBeforeEpoch)
}

func TestHeaderFromFile_InverseLaw(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("some content"), 0o600))
	mtime := time.Unix(1_600_000_000, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	h, err := HeaderFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data.bin", h.Name)
	assert.Equal(t, uint64(12), h.Size)
	assert.Equal(t, uint64(1_600_000_000), h.MTime)
	assert.Equal(t, filepath.ToSlash(dir), h.Prefix)

	decoded, err := DecodeHeader(h.Bytes())
	require.NoError(t, err)
	assert.Equal(t, h.Name, decoded.Name)
	assert.Equal(t, h.Size, decoded.Size)
	assert.Equal(t, h.MTime, decoded.MTime)
	assert.Equal(t, h.Prefix, decoded.Prefix)
}

func TestHeaderFromFile_LongestName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name := strings.Repeat("x", 255)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))

	h, err := HeaderFromFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, name, h.Name)
	assert.Equal(t, uint64(0), h.Size)
}

func TestHeaderFromFile_RelativePath(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string][]byte{
		"top.txt":        []byte("top"),
		"nested/low.txt": []byte("low"),
	})
	t.Chdir(dir)

	h, err := HeaderFromFile("top.txt")
	require.NoError(t, err)
	assert.Equal(t, "top.txt", h.Name)
	assert.Empty(t, h.Prefix)
	assert.Equal(t, "top.txt", h.Path())

	h, err = HeaderFromFile("./nested/low.txt")
	require.NoError(t, err)
	assert.Equal(t, "low.txt", h.Name)
	assert.Equal(t, "nested", h.Prefix)
}

func TestHeaderFromFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := HeaderFromFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = HeaderFromFile("/")
	require.ErrorIs(t, err, ErrNoName)
}

func TestDecodeHeader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry testutil.TestEntry
		field Field
	}{
		{"invalid utf-8 name", testutil.TestEntry{Name: "\xff\xfe", MTime: 1}, FieldName},
		{"invalid utf-8 prefix", testutil.TestEntry{Name: "a", Prefix: "\xc3\x28", MTime: 1}, FieldPrefix},
		{"non-numeric size", testutil.TestEntry{Name: "a", SizeText: "12x", MTime: 1}, FieldSize},
		{"negative size", testutil.TestEntry{Name: "a", SizeText: "-1", MTime: 1}, FieldSize},
		{"size overflow", testutil.TestEntry{Name: "a", SizeText: "99999999999999999999", MTime: 1}, FieldSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHeader(tt.entry.Block())
			require.ErrorIs(t, err, ErrInvalidHeader)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "decode", fe.Op)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestDecodeHeader_EmptyMTime(t *testing.T) {
	t.Parallel()

	block := testutil.TestEntry{Name: "a"}.Block()
	clear(block[269:281])

	_, err := DecodeHeader(block)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldMTime, fe.Field)
}

func TestDecodeHeader_StopsAtFirstZero(t *testing.T) {
	t.Parallel()

	block := testutil.TestEntry{Name: "abc\x00def", Prefix: "dir\x00ignored", MTime: 5}.Block()
	h, err := DecodeHeader(block)
	require.NoError(t, err)
	assert.Equal(t, "abc", h.Name)
	assert.Equal(t, "dir", h.Prefix)
	assert.Equal(t, uint64(5), h.MTime)
}

func TestDecodeHeader_WrongLength(t *testing.T) {
	t.Parallel()

	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrIncompleteHeader)

	_, err = DecodeHeader(make([]byte, HeaderSize+1))
	require.ErrorIs(t, err, ErrIncompleteHeader)
}

func TestIsTerminator(t *testing.T) {
	t.Parallel()

	block := make([]byte, HeaderSize)
	assert.True(t, IsTerminator(block))

	block[HeaderSize-1] = 1
	assert.False(t, IsTerminator(block))
	assert.False(t, IsTerminator(make([]byte, 10)))
}

func TestHeader_Clone(t *testing.T) {
	t.Parallel()

	h, err := NewHeader("a.txt", "dir", 3, time.Unix(10, 0))
	require.NoError(t, err)

	c := h.Clone()
	c.Bytes()[0] = 'z'
	c.Name = "other"

	assert.Equal(t, byte('a'), h.Bytes()[0])
	assert.Equal(t, "a.txt", h.Name)
}
