package phrase

import (
	"math/big"
	"testing"

	"github.com/poiesic/memsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		radix   int
		want    int64
		wantErr bool
	}{
		{name: "hex with prefix", text: "0xFF", radix: 16, want: 255},
		{name: "hex upper prefix", text: "0XfF", radix: 16, want: 255},
		{name: "hex bare", text: "1234", radix: 16, want: 0x1234},
		{name: "octal with prefix", text: "0377", radix: 8, want: 255},
		{name: "octal zero", text: "0", radix: 8, want: 0},
		{name: "binary with prefix", text: "0b1010", radix: 2, want: 10},
		{name: "decimal", text: " 255 ", radix: 10, want: 255},
		{name: "negative", text: "-1", radix: 10, wantErr: true},
		{name: "empty", text: "", radix: 10, wantErr: true},
		{name: "prefix only", text: "0x", radix: 16, wantErr: true},
		{name: "bad digit", text: "12", radix: 2, wantErr: true},
		{name: "bad radix", text: "1", radix: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInteger(tt.text, tt.radix)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidPhrase)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(tt.want).String(), got.String())
		})
	}
}

func TestParseByteSequence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []byte
		wantErr bool
	}{
		{name: "mixed radices", text: "0x74 0b1100101 0170 116", want: []byte("text")},
		{name: "extra whitespace", text: "  1   2\t3 ", want: []byte{1, 2, 3}},
		{name: "zero", text: "0", want: []byte{0}},
		{name: "too large", text: "256", wantErr: true},
		{name: "too large hex", text: "0x100", wantErr: true},
		{name: "garbage", text: "0xZZ", wantErr: true},
		{name: "negative", text: "-1", wantErr: true},
		{name: "empty", text: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseByteSequence(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidPhrase)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse(FormatAscii, "TARGET", true)
	require.NoError(t, err)
	assert.Equal(t, core.PhraseAscii, p.Kind())
	assert.True(t, p.ToSpec().CaseInsensitive)

	p, err = Parse(FormatHex, "0xFF", false)
	require.NoError(t, err)
	assert.Equal(t, core.PhraseInteger, p.Kind())
	assert.Equal(t, 1, p.ByteLength(byteWords))
	assert.Equal(t, 16, p.ToSpec().Radix)

	p, err = Parse(FormatBytes, "0x74 0x65", false)
	require.NoError(t, err)
	assert.Equal(t, core.PhraseBytes, p.Kind())

	_, err = Parse(FormatAscii, "", false)
	assert.ErrorIs(t, err, core.ErrInvalidPhrase)

	_, err = Parse(Format("regex"), "a.*", false)
	assert.ErrorIs(t, err, core.ErrInvalidPhrase)
}

func TestReplacement(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		text    string
		want    []byte
		wantErr bool
	}{
		{name: "ascii raw", format: FormatAscii, text: "xyz", want: []byte("xyz")},
		{name: "hex normalized", format: FormatHex, text: "0xFF", want: []byte{0xFF}},
		{name: "decimal normalized", format: FormatDecimal, text: "32768", want: []byte{0x80, 0x00}},
		{name: "octal", format: FormatOctal, text: "0100", want: []byte{0x40}},
		{name: "binary", format: FormatBinary, text: "0b1", want: []byte{0x01}},
		{name: "bytes", format: FormatBytes, text: "1 2", want: []byte{1, 2}},
		{name: "empty ascii", format: FormatAscii, text: "", wantErr: true},
		{name: "bad bytes", format: FormatBytes, text: "300", wantErr: true},
		{name: "bad integer", format: FormatHex, text: "0xG", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replacement(tt.format, tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidReplacement)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplacementMatchesPhraseWidth(t *testing.T) {
	for _, text := range []string{"0x1", "0x7F", "0x80", "0xFF", "0x100", "0xFFFF"} {
		p, err := Parse(FormatHex, text, false)
		require.NoError(t, err)
		r, err := Replacement(FormatHex, text)
		require.NoError(t, err)
		assert.Equal(t, p.ByteLength(byteWords), len(r), text)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HEX")
	require.NoError(t, err)
	assert.Equal(t, FormatHex, f)
	assert.Equal(t, 16, f.Radix())
	assert.Equal(t, 0, FormatAscii.Radix())

	_, err = ParseFormat("float")
	assert.ErrorIs(t, err, core.ErrInvalidPhrase)
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("0x1000")
	require.NoError(t, err)
	assert.Equal(t, core.Address(0x1000), a)

	a, err = ParseAddress("ffffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, core.Address(0xFFFFFFFFFFFFFFFF), a)

	_, err = ParseAddress("0xnope")
	assert.ErrorIs(t, err, core.ErrInvalidRange)
}
