//go:build unix

package platform

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// OpenRegular opens name for reading without following a final symbolic
// link and returns it with the metadata of the opened descriptor.
//
// The open is non-blocking so a named pipe swapped in for a regular file
// cannot stall the caller; it is rejected with ErrNotRegular instead.
func OpenRegular(name string) (*os.File, fs.FileInfo, error) {
	f, err := os.OpenFile(name, os.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, nil, ErrSymlink
		}
		return nil, nil, err
	}
	return checkRegular(f)
}
