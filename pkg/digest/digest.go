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

// Package digest fingerprints file contents so duplicate names can be told
// apart from duplicate files.
package digest

import (
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const blockSize = 32 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, blockSize)
		return &b
	},
}

// 🔑 File returns the xxhash64 of the file at path
func File(fs afero.Fs, path string) (uint64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)

	h := xxhash.New()
	if _, err := io.CopyBuffer(h, f, *bufPtr); err != nil {
		return 0, errors.Errorf("hashing %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// 🔍 Same reports whether a and b have identical contents
func Same(fs afero.Fs, a, b string) (bool, error) {
	ia, err := fs.Stat(a)
	if err != nil {
		return false, errors.Errorf("stat %s: %w", a, err)
	}
	ib, err := fs.Stat(b)
	if err != nil {
		return false, errors.Errorf("stat %s: %w", b, err)
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}

	ha, err := File(fs, a)
	if err != nil {
		return false, err
	}
	hb, err := File(fs, b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
