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


package core

import (
	"fmt"
	"math"
	"time"
)

// Address is the index of one addressable unit in the target address space.
type Address uint64

// String returns the hexadecimal representation of the address.
func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// AddressRange is an inclusive range of addresses. Start must not exceed End.
type AddressRange struct {
	Start Address
	End   Address
}

// Valid reports whether Start <= End.
func (r AddressRange) Valid() bool {
	return r.Start <= r.End
}

// Words returns the number of addressable units in the range.
// ok is false when the range is invalid or covers the whole 64-bit space,
// whose size does not fit in a uint64.
func (r AddressRange) Words() (n uint64, ok bool) {
	if !r.Valid() {
		return 0, false
	}
	span := uint64(r.End - r.Start)
	if span == math.MaxUint64 {
		return 0, false
	}
	return span + 1, true
}

// Contains reports whether addr lies within the range.
func (r AddressRange) Contains(addr Address) bool {
	return addr >= r.Start && addr <= r.End
}

// String returns the range as "[start, end]".
func (r AddressRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// WordSpec describes the addressable unit of a target.
type WordSpec struct {
	Size      int // bytes per addressable unit: 1, 2, 4 or 8
	BigEndian bool
}

// DefaultWordSpec is a byte-addressable big-endian target.
var DefaultWordSpec = WordSpec{Size: 1, BigEndian: true}

// Word is one addressable unit of target memory as reported by a provider.
// Bytes are in address order; BigEndian tags how multi-byte units are encoded.
type Word struct {
	Bytes     []byte
	BigEndian bool
}

// Window is the run of bytes compared against a phrase at one scan position.
type Window struct {
	Bytes []byte

	// LittleEndian is true only when every contributing word was tagged little-endian.
	LittleEndian bool
}

// NewWindow flattens words into a window of at most limit bytes.
// The window is shorter than limit when the words do not provide enough bytes.
func NewWindow(words []Word, limit int) Window {
	w := Window{Bytes: make([]byte, 0, limit), LittleEndian: len(words) > 0}
	for _, word := range words {
		if word.BigEndian {
			w.LittleEndian = false
		}
		room := limit - len(w.Bytes)
		if room <= 0 {
			break
		}
		if len(word.Bytes) > room {
			w.Bytes = append(w.Bytes, word.Bytes[:room]...)
			continue
		}
		w.Bytes = append(w.Bytes, word.Bytes...)
	}
	return w
}

// Direction is the order in which a range is scanned.
type Direction int

const (
	// Forward scans from low to high addresses.
	Forward Direction = iota + 1
	// Backward scans from high to low addresses.
	Backward
)

// String returns "forward" or "backward".
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Mode selects what a scan does with the matches it finds.
type Mode int

const (
	// FindFirst stops at the first match.
	FindFirst Mode = iota + 1
	// FindAll reports every match in the range.
	FindAll
	// Replace overwrites the first match and stops.
	Replace
	// ReplaceAll overwrites every match in the range.
	ReplaceAll
	// ReplaceThenFind overwrites the first match, then finds (without replacing) the next one.
	ReplaceThenFind
)

var modeNames = map[Mode]string{
	FindFirst:       "find",
	FindAll:         "find-all",
	Replace:         "replace",
	ReplaceAll:      "replace-all",
	ReplaceThenFind: "replace-find",
}

// String returns the command-style name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// IsReplace reports whether the mode writes replacement data.
func (m Mode) IsReplace() bool {
	return m == Replace || m == ReplaceAll || m == ReplaceThenFind
}

// IsAll reports whether the mode keeps scanning after a match.
func (m Mode) IsAll() bool {
	return m == FindAll || m == ReplaceAll
}

// Match is one occurrence of a phrase in target memory.
type Match struct {
	Address Address
	Length  uint64 // in bytes
}

// End returns the address one past the last unit covered by the match
// for the given word size.
func (m Match) End(ws WordSpec) Address {
	size := uint64(ws.Size)
	if size == 0 {
		size = 1
	}
	return m.Address + Address((m.Length+size-1)/size)
}

// PhraseKind identifies the encoding of a search phrase.
type PhraseKind int

const (
	// PhraseAscii is text compared one character per addressable unit.
	PhraseAscii PhraseKind = iota + 1
	// PhraseBytes is a raw byte sequence.
	PhraseBytes
	// PhraseInteger is an unsigned integer entered in some radix.
	PhraseInteger
)

// PhraseSpec is the serializable description of a search phrase.
// Only the fields relevant to Kind are populated.
type PhraseSpec struct {
	Kind            PhraseKind
	Text            string // ascii text, or the integer value in base 16
	CaseInsensitive bool
	Bytes           []byte
	Radix           int
}

// Continuation records where a single-match search stopped so that a later
// "find next" can resume over the rest of the range.
type Continuation struct {
	Key       string // fingerprint of the search that produced it
	Start     Address
	End       Address
	Direction Direction
	Phrase    PhraseSpec
	WordSpec  WordSpec
	UpdatedAt time.Time
}

// Range returns the remaining range to scan.
func (c *Continuation) Range() AddressRange {
	return AddressRange{Start: c.Start, End: c.End}
}

// SnapshotInfo describes a stored memory image.
type SnapshotInfo struct {
	Name      string
	Base      Address
	Words     uint64 // number of addressable units in the image
	WordSpec  WordSpec
	PageWords uint64
	CreatedAt time.Time
}

// Last returns the address of the last unit in the image.
// It is only meaningful when Words > 0.
func (s SnapshotInfo) Last() Address {
	return s.Base + Address(s.Words-1)
}
