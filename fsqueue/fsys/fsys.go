// Copyright 2014 Chris Monson <shiblon@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fsys abstracts the filesystem operations the queue needs, so that
// the state-transition logic in package fsqueue can be exercised against an
// in-memory double instead of a real shared filesystem.
package fsys

import (
	"io"
	"os"
	"time"
)

// File is the minimal handle the queue needs for a single task document.
type File interface {
	io.ReadWriteCloser
	Name() string
	Sync() error
}

// Entry describes one file found while listing a state directory. CTime is
// the metadata the queue sorts on (spec: "sorted by file-creation time"),
// which on POSIX is really the inode change time, not a birth time - see
// ctime_linux.go / ctime_darwin.go / ctime_other.go.
type Entry struct {
	Name  string
	CTime time.Time
}

// FS is everything the queue needs from a filesystem. OSFS is the real
// implementation; MemFS is a test double. Both satisfy the same contract so
// that a Queue built over MemFS behaves identically to one built over OSFS.
type FS interface {
	// MkdirAll creates a directory and any missing parents. Returns nil if
	// the directory already exists.
	MkdirAll(path string) error

	// WriteFile writes data to name, creating or truncating it.
	WriteFile(name string, data []byte) error

	// ReadFile reads the entire contents of name.
	ReadFile(name string) ([]byte, error)

	// Rename moves oldname to newname. Implementations should attempt an
	// atomic rename when both paths are on the same device.
	Rename(oldname, newname string) error

	// Remove deletes name. Returns an error satisfying os.IsNotExist when
	// name does not exist.
	Remove(name string) error

	// Stat returns file metadata for name.
	Stat(name string) (os.FileInfo, error)

	// Glob returns all names matching pattern (shell glob syntax, as
	// path/filepath.Glob).
	Glob(pattern string) ([]string, error)

	// ReadDir lists the entries of a directory, without guaranteed order.
	// The queue sorts them itself using CTime.
	ReadDir(dir string) ([]Entry, error)

	// Lock takes an advisory, cooperative lock identified by name. It is
	// used for serializing maintenance operations across processes and MAY
	// be a no-op. It must not block; if the lock is held elsewhere it
	// returns an error immediately.
	Lock(name string) error

	// Unlock releases a lock taken with Lock.
	Unlock(name string) error
}
