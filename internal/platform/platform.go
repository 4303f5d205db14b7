// Package platform opens archive source files with the checks each
// operating system supports.
package platform

import (
	"errors"
	"io/fs"
	"os"
)

var (
	// ErrSymlink is returned when the path names a symbolic link.
	ErrSymlink = errors.New("symbolic links not supported")

	// ErrNotRegular is returned when the path names anything but a regular
	// file.
	ErrNotRegular = errors.New("not a regular file")
)

func checkRegular(f *os.File) (*os.File, fs.FileInfo, error) {
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegular
	}
	return f, info, nil
}
