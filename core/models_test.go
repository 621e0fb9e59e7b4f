package core

import (
	"bytes"
	"math"
	"testing"
)

func TestAddress_String(t *testing.T) {
	tests := []struct {
		addr Address
		want string
	}{
		{0, "0x0"},
		{0x1F, "0x1F"},
		{math.MaxUint64, "0xFFFFFFFFFFFFFFFF"},
	}
	for _, tt := range tests {
		if got := tt.addr.String(); got != tt.want {
			t.Errorf("Address(%d).String() = %q, want %q", uint64(tt.addr), got, tt.want)
		}
	}
}

func TestAddressRange_Words(t *testing.T) {
	tests := []struct {
		name   string
		rng    AddressRange
		want   uint64
		wantOk bool
	}{
		{name: "single address", rng: AddressRange{Start: 5, End: 5}, want: 1, wantOk: true},
		{name: "sixteen words", rng: AddressRange{Start: 0, End: 15}, want: 16, wantOk: true},
		{name: "inverted", rng: AddressRange{Start: 10, End: 9}, wantOk: false},
		{name: "full space", rng: AddressRange{Start: 0, End: math.MaxUint64}, wantOk: false},
		{name: "almost full space", rng: AddressRange{Start: 1, End: math.MaxUint64}, want: math.MaxUint64, wantOk: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rng.Words()
			if ok != tt.wantOk {
				t.Fatalf("Words() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("Words() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddressRange_Contains(t *testing.T) {
	r := AddressRange{Start: 0x10, End: 0x20}
	if !r.Contains(0x10) || !r.Contains(0x20) || !r.Contains(0x15) {
		t.Error("Contains() rejected an address inside the range")
	}
	if r.Contains(0x0F) || r.Contains(0x21) {
		t.Error("Contains() accepted an address outside the range")
	}
	if got := r.String(); got != "[0x10, 0x20]" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewWindow(t *testing.T) {
	be := func(b ...byte) Word { return Word{Bytes: b, BigEndian: true} }
	le := func(b ...byte) Word { return Word{Bytes: b} }

	tests := []struct {
		name      string
		words     []Word
		limit     int
		wantBytes []byte
		wantLE    bool
	}{
		{name: "empty", words: nil, limit: 4, wantBytes: []byte{}, wantLE: false},
		{name: "exact", words: []Word{be(1, 2), be(3, 4)}, limit: 4, wantBytes: []byte{1, 2, 3, 4}},
		{name: "truncated", words: []Word{be(1, 2), be(3, 4)}, limit: 3, wantBytes: []byte{1, 2, 3}},
		{name: "short", words: []Word{be(1, 2)}, limit: 4, wantBytes: []byte{1, 2}},
		{name: "all little endian", words: []Word{le(1, 2), le(3, 4)}, limit: 4, wantBytes: []byte{1, 2, 3, 4}, wantLE: true},
		{name: "mixed is not little endian", words: []Word{le(1, 2), be(3, 4)}, limit: 4, wantBytes: []byte{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.words, tt.limit)
			if !bytes.Equal(w.Bytes, tt.wantBytes) {
				t.Errorf("Bytes = %v, want %v", w.Bytes, tt.wantBytes)
			}
			if w.LittleEndian != tt.wantLE {
				t.Errorf("LittleEndian = %v, want %v", w.LittleEndian, tt.wantLE)
			}
		})
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		mode      Mode
		name      string
		isReplace bool
		isAll     bool
	}{
		{FindFirst, "find", false, false},
		{FindAll, "find-all", false, true},
		{Replace, "replace", true, false},
		{ReplaceAll, "replace-all", true, true},
		{ReplaceThenFind, "replace-find", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.mode.IsReplace(); got != tt.isReplace {
				t.Errorf("IsReplace() = %v, want %v", got, tt.isReplace)
			}
			if got := tt.mode.IsAll(); got != tt.isAll {
				t.Errorf("IsAll() = %v, want %v", got, tt.isAll)
			}
		})
	}
	if got := Mode(99).String(); got != "Mode(99)" {
		t.Errorf("unknown mode String() = %q", got)
	}
}

func TestMatch_End(t *testing.T) {
	tests := []struct {
		name  string
		match Match
		ws    WordSpec
		want  Address
	}{
		{name: "byte words", match: Match{Address: 10, Length: 3}, ws: WordSpec{Size: 1}, want: 13},
		{name: "partial word", match: Match{Address: 10, Length: 3}, ws: WordSpec{Size: 2}, want: 12},
		{name: "zero size treated as one", match: Match{Address: 0, Length: 2}, ws: WordSpec{}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.End(tt.ws); got != tt.want {
				t.Errorf("End() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSnapshotInfo_Last(t *testing.T) {
	s := SnapshotInfo{Base: 0x1000, Words: 0x100}
	if got := s.Last(); got != 0x10FF {
		t.Errorf("Last() = %s, want 0x10FF", got)
	}
}
