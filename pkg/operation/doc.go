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
Package operation sequences the steps of a mediaorganizer run.

	+-------------+     +----------------+
	|    Reset    | --> |    Organize    |
	| (dest tree) |     | (src -> dest)  |
	+-------------+     +----------------+

🔄 Flow:
 1. ResetOperation removes the destination tree; failures are logged
 2. OrganizeOperation copies the source tree into year/month buckets
 3. OperationRunner prints the elapsed time, then the optional summary

Operations run strictly one after another on the calling goroutine.
*/
package operation
