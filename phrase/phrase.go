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


package phrase

import (
	"bytes"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/wordbuf"
)

// Phrase is a search pattern. The zero value is invalid.
type Phrase struct {
	kind            core.PhraseKind
	text            string
	caseInsensitive bool
	bytes           []byte
	value           *big.Int
	radix           int
}

// Ascii returns a text phrase.
func Ascii(text string, caseInsensitive bool) Phrase {
	return Phrase{kind: core.PhraseAscii, text: text, caseInsensitive: caseInsensitive}
}

// Bytes returns a raw byte phrase. b is copied.
func Bytes(b []byte) Phrase {
	return Phrase{kind: core.PhraseBytes, bytes: slices.Clone(b)}
}

// Integer returns an integer phrase displayed in the given radix. v is copied.
func Integer(v *big.Int, radix int) Phrase {
	p := Phrase{kind: core.PhraseInteger, radix: radix}
	if v != nil {
		p.value = new(big.Int).Set(v)
	}
	return p
}

// Kind returns the phrase encoding.
func (p Phrase) Kind() core.PhraseKind {
	return p.kind
}

// ByteLength returns how many bytes of target memory the phrase covers.
func (p Phrase) ByteLength(ws core.WordSpec) int {
	switch p.kind {
	case core.PhraseAscii:
		return len(p.text) * ws.Size
	case core.PhraseBytes:
		return len(p.bytes)
	case core.PhraseInteger:
		if p.value == nil {
			return 0
		}
		return len(Normalize(p.value))
	default:
		return 0
	}
}

// Words returns how many addressable units the phrase spans.
func (p Phrase) Words(ws core.WordSpec) uint64 {
	if ws.Size <= 0 {
		return 0
	}
	n := p.ByteLength(ws)
	return uint64((n + ws.Size - 1) / ws.Size)
}

// IsMatch reports whether win holds the phrase. A window whose length differs
// from ByteLength never matches.
func (p Phrase) IsMatch(win core.Window, ws core.WordSpec) bool {
	if len(win.Bytes) == 0 || len(win.Bytes) != p.ByteLength(ws) {
		return false
	}

	switch p.kind {
	case core.PhraseAscii:
		buf, err := wordbuf.New(win.Bytes, core.WordSpec{Size: ws.Size, BigEndian: !win.LittleEndian})
		if err != nil {
			return false
		}
		got := buf.Chars()
		if p.caseInsensitive {
			return equalFoldASCII(got, p.text)
		}
		return got == p.text
	case core.PhraseBytes:
		return bytes.Equal(win.Bytes, p.bytes)
	case core.PhraseInteger:
		raw := win.Bytes
		if win.LittleEndian {
			raw = slices.Clone(raw)
			slices.Reverse(raw)
		}
		// Leading zero keeps the value unsigned.
		signed := append([]byte{0x00}, raw...)
		return new(big.Int).SetBytes(signed).Cmp(p.value) == 0
	default:
		return false
	}
}

// Validate checks that the phrase can be searched for with the given word spec.
//
// Validation rules:
//   - Word spec must be valid
//   - Phrase must cover at least one byte
//   - Integer values must be non-negative, in radix 2, 8, 10 or 16, and
//     span a whole number of words
func (p Phrase) Validate(ws core.WordSpec) error {
	if err := core.ValidateWordSpec(ws); err != nil {
		return err
	}

	switch p.kind {
	case core.PhraseAscii:
		if p.text == "" {
			return fmt.Errorf("%w: empty text", core.ErrInvalidPhrase)
		}
	case core.PhraseBytes:
		if len(p.bytes) == 0 {
			return fmt.Errorf("%w: empty byte sequence", core.ErrInvalidPhrase)
		}
	case core.PhraseInteger:
		if p.value == nil {
			return fmt.Errorf("%w: missing integer value", core.ErrInvalidPhrase)
		}
		if p.value.Sign() < 0 {
			return fmt.Errorf("%w: negative integer %s", core.ErrInvalidPhrase, p.value)
		}
		if !validRadix(p.radix) {
			return fmt.Errorf("%w: radix %d", core.ErrInvalidPhrase, p.radix)
		}
		if n := p.ByteLength(ws); n%ws.Size != 0 {
			return fmt.Errorf("%w: %d bytes is not a whole number of %d-byte words", core.ErrInvalidPhrase, n, ws.Size)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", core.ErrInvalidPhrase, p.kind)
	}
	return nil
}

// String renders the phrase the way a user would enter it.
func (p Phrase) String() string {
	switch p.kind {
	case core.PhraseAscii:
		return p.text
	case core.PhraseBytes:
		parts := make([]string, len(p.bytes))
		for i, b := range p.bytes {
			parts[i] = fmt.Sprintf("0x%02X", b)
		}
		return strings.Join(parts, " ")
	case core.PhraseInteger:
		if p.value == nil {
			return ""
		}
		text := p.value.Text(p.radix)
		switch p.radix {
		case 16:
			return "0x" + strings.ToUpper(text)
		case 2:
			return "0b" + text
		case 8:
			return "0" + text
		default:
			return text
		}
	default:
		return ""
	}
}

// ToSpec returns the serializable description of the phrase.
func (p Phrase) ToSpec() core.PhraseSpec {
	spec := core.PhraseSpec{Kind: p.kind}
	switch p.kind {
	case core.PhraseAscii:
		spec.Text = p.text
		spec.CaseInsensitive = p.caseInsensitive
	case core.PhraseBytes:
		spec.Bytes = slices.Clone(p.bytes)
	case core.PhraseInteger:
		if p.value != nil {
			spec.Text = p.value.Text(16)
		}
		spec.Radix = p.radix
	}
	return spec
}

// FromSpec rebuilds a phrase from its serialized description.
func FromSpec(spec core.PhraseSpec) (Phrase, error) {
	switch spec.Kind {
	case core.PhraseAscii:
		return Ascii(spec.Text, spec.CaseInsensitive), nil
	case core.PhraseBytes:
		return Bytes(spec.Bytes), nil
	case core.PhraseInteger:
		v, ok := new(big.Int).SetString(spec.Text, 16)
		if !ok {
			return Phrase{}, fmt.Errorf("%w: stored integer %q", core.ErrInvalidPhrase, spec.Text)
		}
		return Integer(v, spec.Radix), nil
	default:
		return Phrase{}, fmt.Errorf("%w: unknown kind %d", core.ErrInvalidPhrase, spec.Kind)
	}
}

func validRadix(radix int) bool {
	switch radix {
	case 2, 8, 10, 16:
		return true
	default:
		return false
	}
}

// equalFoldASCII compares byte by byte, folding only A-Z and a-z.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if foldASCII(a[i]) != foldASCII(b[i]) {
			return false
		}
	}
	return true
}

func foldASCII(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
