// Package wordbuf reinterprets a flat byte slice as fixed-size words.
package wordbuf

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/poiesic/memsearch/core"
)

// ErrMisaligned indicates a byte slice whose length is not a multiple of the word size.
var ErrMisaligned = fmt.Errorf("%w: length not a multiple of word size", core.ErrInvalidWindow)

// Buffer is a read-only view of bytes as a sequence of words.
type Buffer struct {
	data []byte
	spec core.WordSpec
}

// New wraps b as a sequence of spec.Size byte words decoded per spec.BigEndian.
// b is not copied.
func New(b []byte, spec core.WordSpec) (*Buffer, error) {
	if err := core.ValidateWordSpec(spec); err != nil {
		return nil, err
	}
	if len(b)%spec.Size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, word size %d", ErrMisaligned, len(b), spec.Size)
	}
	return &Buffer{data: b, spec: spec}, nil
}

// Len returns the number of words.
func (b *Buffer) Len() int {
	return len(b.data) / b.spec.Size
}

// Word returns the i-th word as an unsigned integer.
func (b *Buffer) Word(i int) (uint64, error) {
	if i < 0 || i >= b.Len() {
		return 0, fmt.Errorf("%w: word %d of %d", core.ErrInvalidWindow, i, b.Len())
	}
	raw := b.data[i*b.spec.Size : (i+1)*b.spec.Size]
	return decode(raw, b.spec.BigEndian), nil
}

// Words decodes every word in order.
func (b *Buffer) Words() []uint64 {
	out := make([]uint64, b.Len())
	for i := range out {
		out[i] = decode(b.data[i*b.spec.Size:(i+1)*b.spec.Size], b.spec.BigEndian)
	}
	return out
}

// Chars returns one character per word, taken from the low 8 bits of each word.
func (b *Buffer) Chars() string {
	out := make([]byte, b.Len())
	for i := range out {
		out[i] = byte(decode(b.data[i*b.spec.Size:(i+1)*b.spec.Size], b.spec.BigEndian))
	}
	return string(out)
}

func decode(raw []byte, bigEndian bool) uint64 {
	switch len(raw) {
	case 1:
		return uint64(raw[0])
	case 2:
		if bigEndian {
			return uint64(binary.BigEndian.Uint16(raw))
		}
		return uint64(binary.LittleEndian.Uint16(raw))
	case 4:
		if bigEndian {
			return uint64(binary.BigEndian.Uint32(raw))
		}
		return uint64(binary.LittleEndian.Uint32(raw))
	default:
		if bigEndian {
			return binary.BigEndian.Uint64(raw)
		}
		return binary.LittleEndian.Uint64(raw)
	}
}

// IsMisaligned reports whether err came from a misaligned byte slice.
func IsMisaligned(err error) bool {
	return errors.Is(err, ErrMisaligned)
}
