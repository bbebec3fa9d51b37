//go:build linux || darwin

package fsqueue

import (
	"errors"
	"syscall"
)

// isCrossDevice reports whether err is the "invalid cross-device link"
// error os.Rename returns when source and destination are on different
// filesystems - the case spec.md §4.3 says SHOULD fall back to
// copy-then-remove.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
