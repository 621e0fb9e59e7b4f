package phrase

import "math/big"

// twosComplement returns the minimal big-endian two's-complement encoding
// of a non-negative v. Values whose top bit is set gain a leading 0x00
// sign byte, and zero encodes as a single 0x00.
func twosComplement(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 || b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return b
}

// Normalize encodes v as bytes and drops a single leading zero byte when the
// encoding is longer than one byte, so 0xFF is one byte wide rather than two.
// It is used both for phrase widths and for integer replacement data.
func Normalize(v *big.Int) []byte {
	b := twosComplement(v)
	if len(b) > 1 && b[0] == 0x00 {
		return b[1:]
	}
	return b
}
