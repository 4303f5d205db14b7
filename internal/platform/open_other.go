//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// OpenRegular opens name for reading without following a final symbolic
// link and returns it with the metadata of the opened file.
func OpenRegular(name string) (*os.File, fs.FileInfo, error) {
	info, err := os.Lstat(name)
	if err != nil {
		return nil, nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, nil, ErrSymlink
	}
	f, err := os.Open(name) //nolint:gosec // caller-provided source path
	if err != nil {
		return nil, nil, err
	}
	return checkRegular(f)
}
