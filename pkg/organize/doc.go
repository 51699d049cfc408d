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

/*
Package organize files every regular file of a source tree into a destination
tree keyed by the year and month of its last modification.

	<dest>/<year>/<month>/<name>             first file with that name
	<dest>/<year>/<month>/duplicated/<name>  second file with that name
	                                         third and later: dropped

🔄 Flow:
 1. Walk the source depth first, pre-order, children sorted by name
 2. Classify each file with bucket.Classify on its modification time
 3. Copy into the bucket without overwriting
 4. On a name collision, copy into the bucket's duplicated folder instead
 5. On a second collision, drop the file and log a warning

Copies never overwrite. Only "already exists" failures are recovered; any other
I/O failure while copying aborts the run.
*/
package organize
