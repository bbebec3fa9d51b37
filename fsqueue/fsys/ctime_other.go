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

//go:build !linux && !darwin

package fsys

import (
	"os"
	"time"
)

// ctime falls back to modification time on platforms without a Stat_t with
// a change-time field (e.g. Windows). Ordering degrades gracefully: workers
// still get a consistent, monotonic-ish ordering, just not true ctime.
func ctime(info os.FileInfo) time.Time {
	return info.ModTime()
}
