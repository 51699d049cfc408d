// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bucket maps a modification time to the year/month folder a file is
// filed under.
package bucket

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// DuplicateDirName is the fallback folder created under a bucket when a file
// with the same name already occupies the bucket.
const DuplicateDirName = "duplicated"

// 🗓️ Bucket identifies a destination folder by calendar year and month
type Bucket struct {
	Year  int
	Month time.Month
}

// 🧮 Classify derives the bucket for t as seen on the calendar of loc.
// A nil loc means time.Local.
func Classify(t time.Time, loc *time.Location) Bucket {
	if loc == nil {
		loc = time.Local
	}
	y, m, _ := t.In(loc).Date()
	return Bucket{Year: y, Month: m}
}

// String returns the relative bucket path, e.g. "2023/03".
func (b Bucket) String() string {
	return b.YearSegment() + "/" + b.MonthSegment()
}

// YearSegment is the year folder name.
func (b Bucket) YearSegment() string {
	return strconv.Itoa(b.Year)
}

// MonthSegment is the month folder name, zero padded to two digits.
func (b Bucket) MonthSegment() string {
	return fmt.Sprintf("%02d", int(b.Month))
}

// 📁 Dir joins the bucket onto root
func (b Bucket) Dir(root string) string {
	return filepath.Join(root, b.YearSegment(), b.MonthSegment())
}

// 📁 DuplicateDir is the duplicated folder inside the bucket under root
func (b Bucket) DuplicateDir(root string) string {
	return filepath.Join(b.Dir(root), DuplicateDirName)
}
