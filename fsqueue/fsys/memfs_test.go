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
	"os"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMemFS_WriteReadRemove(t *testing.T) {
	fs := NewMemFS()
	if err := fs.MkdirAll("/root/waiting"); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := fs.WriteFile("/root/waiting/a", []byte("hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := fs.ReadFile("/root/waiting/a")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff("hello", string(got)); diff != "" {
		t.Errorf("ReadFile (-want +got): %s", diff)
	}

	if err := fs.Remove("/root/waiting/a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fs.ReadFile("/root/waiting/a"); !os.IsNotExist(err) {
		t.Errorf("ReadFile after Remove: got err %v, want IsNotExist", err)
	}
}

func TestMemFS_RenameIsMove(t *testing.T) {
	fs := NewMemFS()
	fs.MkdirAll("/root/waiting")
	fs.MkdirAll("/root/running")
	fs.WriteFile("/root/waiting/task1", []byte("x"))

	if err := fs.Rename("/root/waiting/task1", "/root/running/task1"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := fs.ReadFile("/root/waiting/task1"); !os.IsNotExist(err) {
		t.Errorf("source still present after Rename: err=%v", err)
	}
	got, err := fs.ReadFile("/root/running/task1")
	if err != nil {
		t.Fatalf("ReadFile destination: %v", err)
	}
	if string(got) != "x" {
		t.Errorf("destination content = %q, want %q", got, "x")
	}
}

func TestMemFS_RemoveMissingIsNotExist(t *testing.T) {
	fs := NewMemFS()
	fs.MkdirAll("/root/waiting")
	err := fs.Remove("/root/waiting/ghost")
	if !os.IsNotExist(err) {
		t.Errorf("Remove of missing file: got %v, want IsNotExist", err)
	}
}

func TestMemFS_ReadDirCTimeOrdering(t *testing.T) {
	fs := NewMemFS()
	fs.MkdirAll("/root/waiting")

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	clockTick := 0
	fs.SetClock(func() time.Time {
		t := base.Add(time.Duration(clockTick) * time.Second)
		clockTick++
		return t
	})

	fs.WriteFile("/root/waiting/first", []byte("1"))
	fs.WriteFile("/root/waiting/second", []byte("2"))
	fs.WriteFile("/root/waiting/third", []byte("3"))

	entries, err := fs.ReadDir("/root/waiting")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CTime.Before(entries[j].CTime) })

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ReadDir order (-want +got): %s", diff)
	}
}

func TestMemFS_LockExclusive(t *testing.T) {
	fs := NewMemFS()
	if err := fs.Lock("/root/.lock"); err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if err := fs.Lock("/root/.lock"); err == nil {
		t.Errorf("second Lock: want error, got nil")
	}
	if err := fs.Unlock("/root/.lock"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := fs.Lock("/root/.lock"); err != nil {
		t.Errorf("Lock after Unlock: %v", err)
	}
}

func TestMemFS_Glob(t *testing.T) {
	fs := NewMemFS()
	fs.MkdirAll("/root/waiting")
	fs.WriteFile("/root/waiting/abcd1234_1_2_3", []byte(""))
	fs.WriteFile("/root/waiting/deadbeef_1_2_3", []byte(""))

	matches, err := fs.Glob("/root/waiting/abcd1234*")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if diff := cmp.Diff([]string{"/root/waiting/abcd1234_1_2_3"}, matches); diff != "" {
		t.Errorf("Glob (-want +got): %s", diff)
	}
}
