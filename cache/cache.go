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


// Package cache holds the single contiguous block of words a scan reads through.
//
// A scan moves one word at a time, so most windows overlap the previous one.
// The cache fetches a block biased toward the scan direction and answers
// subsequent windows from it until the scan leaves the block.
package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
)

// DefaultPrefetch is the number of words fetched per provider read.
const DefaultPrefetch = 20 * 1024

// Cache is one fetched block of target memory. It is owned by a single scan
// and is not safe for concurrent use.
type Cache struct {
	prefetch uint64
	start    core.Address
	data     []core.Word
	reads    int
}

// New returns an empty cache fetching prefetch words per miss.
// Values below 1 use DefaultPrefetch.
func New(prefetch int) *Cache {
	if prefetch < 1 {
		prefetch = DefaultPrefetch
	}
	return &Cache{prefetch: uint64(prefetch)}
}

// Reads returns the number of provider reads issued so far.
func (c *Cache) Reads() int {
	return c.reads
}

// Start returns the address of the first cached word.
func (c *Cache) Start() core.Address {
	return c.start
}

// Len returns the number of cached words.
func (c *Cache) Len() int {
	return len(c.data)
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.start = 0
	c.data = nil
}

func (c *Cache) contains(addr core.Address, length uint64) bool {
	if len(c.data) == 0 || addr < c.start {
		return false
	}
	off := uint64(addr - c.start)
	return off <= uint64(len(c.data)) && length <= uint64(len(c.data))-off
}

// Ensure returns length words starting at addr, fetching from p on a miss.
//
// Forward scans fetch max(prefetch, length) words from addr. Backward scans
// fetch a block ending at addr+length-1 and extending back toward rng.Start.
// Fetches never leave rng. Near rng.End this can leave fewer than length
// words available, in which case the returned slice is shorter than length:
// a phrase that would extend past the end of the range cannot match there.
func (c *Cache) Ensure(ctx context.Context, addr core.Address, length uint64, p provider.Provider, rng core.AddressRange, dir core.Direction) ([]core.Word, error) {
	if length == 0 {
		return nil, nil
	}
	if !rng.Valid() || !rng.Contains(addr) {
		return nil, fmt.Errorf("%w: %s outside %s", core.ErrInvalidRange, addr, rng)
	}
	// Words available from addr through rng.End, minus one.
	avail := uint64(rng.End - addr)
	if length-1 > avail {
		length = avail + 1
	}

	if c.contains(addr, length) {
		off := uint64(addr - c.start)
		return c.data[off : off+length], nil
	}

	fetchAddr, fetchSize := c.window(addr, length, rng, dir)
	words, err := p.Read(ctx, fetchAddr, fetchSize)
	c.reads++
	if err != nil {
		c.Reset()
		if errors.Is(err, core.ErrProvider) {
			return nil, fmt.Errorf("read %d words at %s: %w", fetchSize, fetchAddr, err)
		}
		return nil, fmt.Errorf("%w: read %d words at %s: %w", core.ErrProvider, fetchSize, fetchAddr, err)
	}

	need := uint64(addr-fetchAddr) + length
	if uint64(len(words)) < need {
		c.Reset()
		return nil, fmt.Errorf("%w: %w: wanted %d words at %s, got %d", core.ErrProvider, ErrShortRead, need, fetchAddr, len(words))
	}
	for _, w := range words[1:] {
		if w.BigEndian != words[0].BigEndian {
			c.Reset()
			return nil, fmt.Errorf("%w: %w: block at %s", core.ErrProvider, ErrMixedEndianness, fetchAddr)
		}
	}

	c.start = fetchAddr
	c.data = words
	off := uint64(addr - fetchAddr)
	return c.data[off : off+length], nil
}

// window computes the block to fetch for a miss at addr. length has already
// been clamped to rng.End.
func (c *Cache) window(addr core.Address, length uint64, rng core.AddressRange, dir core.Direction) (core.Address, uint64) {
	if dir == core.Backward {
		extra := uint64(0)
		if c.prefetch > length {
			extra = c.prefetch - length
		}
		if back := uint64(addr - rng.Start); back < extra {
			extra = back
		}
		return addr - core.Address(extra), length + extra
	}

	size := max(c.prefetch, length)
	if avail := uint64(rng.End - addr); size-1 > avail {
		size = avail + 1
	}
	return addr, size
}

// Patch overwrites cached bytes after b has been written to target memory at
// addr, so later windows see the new contents. Bytes outside the cache are ignored.
func (c *Cache) Patch(addr core.Address, b []byte) {
	if len(c.data) == 0 || len(b) == 0 {
		return
	}
	cur := addr
	for len(b) > 0 {
		if cur >= c.start && uint64(cur-c.start) < uint64(len(c.data)) {
			idx := uint64(cur - c.start)
			w := c.data[idx]
			updated := slices.Clone(w.Bytes)
			n := copy(updated, b)
			c.data[idx] = core.Word{Bytes: updated, BigEndian: w.BigEndian}
			b = b[n:]
		} else {
			// Skip a word's worth of bytes that is not cached.
			size := len(c.data[0].Bytes)
			if size == 0 || size > len(b) {
				return
			}
			b = b[size:]
		}
		cur++
		if cur == 0 {
			return
		}
	}
}
