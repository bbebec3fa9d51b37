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

package fsys

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// OSFS is the real filesystem, suitable for a shared POSIX filesystem such
// as NFS or local disk.
type OSFS struct{}

func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (OSFS) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0o644)
}

func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFS) Rename(oldname, newname string) error {
	return os.Rename(oldname, newname)
}

func (OSFS) Remove(name string) error {
	return os.Remove(name)
}

func (OSFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OSFS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

func (OSFS) ReadDir(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		info, err := de.Info()
		if err != nil {
			// The entry may have been removed by a concurrent worker
			// between the directory read and the stat; skip it rather
			// than fail the whole listing.
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		entries = append(entries, Entry{Name: de.Name(), CTime: ctime(info)})
	}
	return entries, nil
}

// Lock takes a non-blocking, exclusive advisory lock using an exclusively
// created lock file plus flock(2), so that it is visible to other processes
// sharing the filesystem, not just other goroutines in this one.
func (OSFS) Lock(name string) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0o660)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		os.Remove(name)
		return err
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return nil
}

func (OSFS) Unlock(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer func() {
		f.Close()
		os.Remove(name)
	}()
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
