// Package memory provides an in-memory byte provider backed by a flat image.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
)

// ErrOutOfRange indicates an access outside the image.
var ErrOutOfRange = provider.ErrOutOfRange

// Image is target memory held in a byte slice starting at Base.
type Image struct {
	mu   sync.RWMutex
	base core.Address
	spec core.WordSpec
	data []byte
}

var _ provider.Provider = (*Image)(nil)

// New returns an image of data mapped at base. data is copied and must be a
// whole number of words.
func New(base core.Address, spec core.WordSpec, data []byte) (*Image, error) {
	if err := core.ValidateWordSpec(spec); err != nil {
		return nil, err
	}
	if len(data)%spec.Size != 0 {
		return nil, fmt.Errorf("%w: image of %d bytes with %d-byte words", core.ErrInvalidWindow, len(data), spec.Size)
	}
	return &Image{base: base, spec: spec, data: slices.Clone(data)}, nil
}

// Base returns the address of the first word.
func (m *Image) Base() core.Address {
	return m.base
}

// Words returns the number of words in the image.
func (m *Image) Words() uint64 {
	return uint64(len(m.data) / m.spec.Size)
}

// Bytes returns a copy of the image contents.
func (m *Image) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data)
}

// AddressableSize returns the word size in bytes.
func (m *Image) AddressableSize() int {
	return m.spec.Size
}

// Read returns count words from addr, truncated at the end of the image.
func (m *Image) Read(ctx context.Context, addr core.Address, count uint64) ([]core.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	words := m.Words()
	if addr < m.base || uint64(addr-m.base) >= words {
		return nil, fmt.Errorf("%w: %w: read at %s", core.ErrProvider, ErrOutOfRange, addr)
	}
	first := uint64(addr - m.base)
	count = min(count, words-first)

	out := make([]core.Word, count)
	size := uint64(m.spec.Size)
	for i := range out {
		off := (first + uint64(i)) * size
		out[i] = core.Word{
			Bytes:     slices.Clone(m.data[off : off+size]),
			BigEndian: m.spec.BigEndian,
		}
	}
	return out, nil
}

// Write copies b into the image at addr.
func (m *Image) Write(ctx context.Context, addr core.Address, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if addr < m.base {
		return fmt.Errorf("%w: %w: write at %s", core.ErrProvider, ErrOutOfRange, addr)
	}
	off := uint64(addr-m.base) * uint64(m.spec.Size)
	if off > uint64(len(m.data)) || uint64(len(b)) > uint64(len(m.data))-off {
		return fmt.Errorf("%w: %w: %d bytes at %s", core.ErrProvider, ErrOutOfRange, len(b), addr)
	}
	copy(m.data[off:], b)
	return nil
}
