package phrase

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/poiesic/memsearch/core"
)

// Format names how user text is turned into a phrase or replacement data.
type Format string

const (
	FormatAscii   Format = "ascii"
	FormatHex     Format = "hex"
	FormatOctal   Format = "octal"
	FormatBinary  Format = "binary"
	FormatDecimal Format = "decimal"
	FormatBytes   Format = "bytes"
)

// Formats lists every supported format.
var Formats = []Format{FormatAscii, FormatHex, FormatOctal, FormatBinary, FormatDecimal, FormatBytes}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", core.ErrInvalidPhrase, s)
}

// Radix returns the integer radix for integer formats and 0 otherwise.
func (f Format) Radix() int {
	switch f {
	case FormatHex:
		return 16
	case FormatOctal:
		return 8
	case FormatBinary:
		return 2
	case FormatDecimal:
		return 10
	default:
		return 0
	}
}

// Parse builds a search phrase from user text.
// caseInsensitive applies to FormatAscii only.
func Parse(format Format, text string, caseInsensitive bool) (Phrase, error) {
	switch format {
	case FormatAscii:
		if text == "" {
			return Phrase{}, fmt.Errorf("%w: empty text", core.ErrInvalidPhrase)
		}
		return Ascii(text, caseInsensitive), nil
	case FormatBytes:
		b, err := ParseByteSequence(text)
		if err != nil {
			return Phrase{}, err
		}
		return Bytes(b), nil
	case FormatHex, FormatOctal, FormatBinary, FormatDecimal:
		v, err := ParseInteger(text, format.Radix())
		if err != nil {
			return Phrase{}, err
		}
		return Integer(v, format.Radix()), nil
	default:
		return Phrase{}, fmt.Errorf("%w: unknown format %q", core.ErrInvalidPhrase, format)
	}
}

// Replacement builds the bytes written over a match. ASCII text is written
// as is; integers are normalized the same way integer phrases are measured.
func Replacement(format Format, text string) ([]byte, error) {
	switch format {
	case FormatAscii:
		if text == "" {
			return nil, fmt.Errorf("%w: empty text", core.ErrInvalidReplacement)
		}
		return []byte(text), nil
	case FormatBytes:
		b, err := ParseByteSequence(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrInvalidReplacement, err)
		}
		return b, nil
	case FormatHex, FormatOctal, FormatBinary, FormatDecimal:
		v, err := ParseInteger(text, format.Radix())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrInvalidReplacement, err)
		}
		return Normalize(v), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", core.ErrInvalidReplacement, format)
	}
}

// ParseInteger parses a non-negative integer in the given radix. The
// conventional prefix for the radix (0x, 0b or a leading 0 for octal) is optional.
func ParseInteger(s string, radix int) (*big.Int, error) {
	if !validRadix(radix) {
		return nil, fmt.Errorf("%w: radix %d", core.ErrInvalidPhrase, radix)
	}
	digits := stripPrefix(strings.TrimSpace(s), radix)
	if digits == "" || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return nil, fmt.Errorf("%w: %q is not a base %d integer", core.ErrInvalidPhrase, s, radix)
	}
	v, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a base %d integer", core.ErrInvalidPhrase, s, radix)
	}
	return v, nil
}

func stripPrefix(s string, radix int) string {
	upper := strings.ToUpper(s)
	switch {
	case radix == 16 && strings.HasPrefix(upper, "0X"):
		return s[2:]
	case radix == 2 && strings.HasPrefix(upper, "0B"):
		return s[2:]
	case radix == 8 && len(s) > 1 && s[0] == '0':
		return s[1:]
	default:
		return s
	}
}

// ParseByteSequence parses whitespace-separated byte values. Each token is
// hex with 0x, binary with 0b, octal with a leading 0, or decimal otherwise,
// and must fit in one byte.
func ParseByteSequence(s string) ([]byte, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty byte sequence", core.ErrInvalidPhrase)
	}

	out := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		digits, base := tok, 10
		upper := strings.ToUpper(tok)
		switch {
		case strings.HasPrefix(upper, "0X"):
			digits, base = tok[2:], 16
		case strings.HasPrefix(upper, "0B"):
			digits, base = tok[2:], 2
		case len(tok) > 1 && tok[0] == '0':
			digits, base = tok[1:], 8
		}
		v, err := strconv.ParseUint(digits, base, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: byte %q", core.ErrInvalidPhrase, tok)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// ParseAddress parses a hexadecimal address with an optional 0x prefix.
func ParseAddress(s string) (core.Address, error) {
	digits := strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(digits), "0X") {
		digits = digits[2:]
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: address %q", core.ErrInvalidRange, s)
	}
	return core.Address(v), nil
}
