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

package organize

import "github.com/walteh/mediaorganizer/pkg/log"

// 📊 Stats counts what a run did
type Stats struct {
	Directories int // Directories entered below the source root
	Files       int // Regular files classified
	Copied      int // Files placed in their bucket
	Duplicated  int // Files diverted to a duplicated folder
	Dropped     int // Files that collided in the duplicated folder too
	Excluded    int // Entries skipped by an exclude pattern
	Unreadable  int // Directories whose listing failed
	Identical   int // Diverted files whose content matched the bucket copy
}

// Rows returns the counters in display order.
func (s *Stats) Rows() []log.SummaryRow {
	return []log.SummaryRow{
		{Label: "directories", Value: s.Directories},
		{Label: "files", Value: s.Files},
		{Label: "copied", Value: s.Copied},
		{Label: "duplicated", Value: s.Duplicated},
		{Label: "identical duplicates", Value: s.Identical},
		{Label: "dropped", Value: s.Dropped},
		{Label: "excluded", Value: s.Excluded},
		{Label: "unreadable directories", Value: s.Unreadable},
	}
}
