package wpress

import (
	"path"
	"strings"
)

// SanitizePath converts an entry's prefix and name into a slash-separated
// path that is safe to join with any destination directory.
//
// It performs the following transformations:
//   - Joins prefix and name: "a/b" + "file.txt" → "a/b/file.txt"
//   - Resolves "." and ".." lexically as if rooted: "../../etc/passwd" → "etc/passwd"
//   - Strips the leading root marker: "/etc/passwd" → "etc/passwd"
//   - Collapses consecutive slashes: "a//b" → "a/b"
//
// No filesystem lookups are performed. ErrUnsafePath is returned when nothing
// remains after cleaning (for example a name of "..").
func SanitizePath(prefix, name string) (string, error) {
	joined := name
	if prefix != "" {
		joined = prefix + "/" + name
	}
	clean := strings.TrimPrefix(path.Clean("/"+joined), "/")
	if clean == "" {
		return "", ErrUnsafePath
	}
	return clean, nil
}
