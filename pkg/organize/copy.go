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

import (
	"io"
	"os"

	"github.com/walteh/mediaorganizer/pkg/digest"
	"gitlab.com/tozd/go/errors"
)

// 📋 copyFile copies src to dest, failing with an error matching os.ErrExist
// when dest is already taken. A partially written dest is removed.
func (o *Organizer) copyFile(src, dest string, perm os.FileMode) (err error) {
	if perm == 0 {
		perm = 0o644
	}

	in, err := o.fs.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := o.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if err != nil {
			_ = o.fs.Remove(dest)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing %s: %w", dest, err)
	}
	return nil
}

// sameContent reports whether two files hold the same bytes
func (o *Organizer) sameContent(a, b string) (bool, error) {
	return digest.Same(o.fs, a, b)
}
