// Copyright 2025 Poiesic Systems
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


// Package provider defines the byte provider the scan engine reads target memory through.
package provider

import (
	"context"

	"github.com/poiesic/memsearch/core"
)

// Provider reads and writes target memory in addressable units.
//
// Implementations report each returned word with its endianness. A search
// owns its provider for the duration of a run, so implementations need not
// serialize concurrent callers unless they are shared across sessions.
// Errors should wrap core.ErrProvider.
type Provider interface {
	// Read returns count words starting at addr.
	// A successful read may return fewer words than requested only when
	// the target ends before addr+count.
	Read(ctx context.Context, addr core.Address, count uint64) ([]core.Word, error)

	// Write stores b starting at addr. b need not be a whole number of words.
	Write(ctx context.Context, addr core.Address, b []byte) error

	// AddressableSize returns the number of bytes in one addressable unit.
	AddressableSize() int
}
