package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestContinuationMUS(t *testing.T) {
	in := Continuation{
		Key:       "abc123",
		Start:     0x10,
		End:       0xFFFF_FFFF_FFFF,
		Direction: Backward,
		Phrase: PhraseSpec{
			Kind:  PhraseBytes,
			Bytes: []byte{0x00, 0xFF, 0x10},
		},
		WordSpec:  WordSpec{Size: 4, BigEndian: false},
		UpdatedAt: time.UnixMicro(1_700_000_000_123_456).UTC(),
	}
	bs := make([]byte, ContinuationMUS.Size(in))
	n := ContinuationMUS.Marshal(in, bs)
	if n != len(bs) {
		t.Fatalf("Marshal() wrote %d bytes, Size() = %d", n, len(bs))
	}

	out, m, err := ContinuationMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m != n {
		t.Errorf("Unmarshal() read %d bytes, want %d", m, n)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("Continuation mismatch (-want +got):\n%s", diff)
	}

	skipped, err := ContinuationMUS.Skip(bs)
	if err != nil || skipped != n {
		t.Errorf("Skip() = %d, %v; want %d, nil", skipped, err, n)
	}
}

func TestSnapshotInfoMUS(t *testing.T) {
	in := SnapshotInfo{
		Name:      "firmware",
		Base:      0x8000,
		Words:     4096,
		WordSpec:  WordSpec{Size: 2, BigEndian: true},
		PageWords: 1024,
		CreatedAt: time.UnixMicro(1_600_000_000_000_000).UTC(),
	}
	bs := make([]byte, SnapshotInfoMUS.Size(in))
	SnapshotInfoMUS.Marshal(in, bs)

	out, _, err := SnapshotInfoMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("SnapshotInfo mismatch (-want +got):\n%s", diff)
	}
}

func TestPhraseSpecMUS_Truncated(t *testing.T) {
	in := PhraseSpec{Kind: PhraseAscii, Text: "hello", CaseInsensitive: true}
	bs := make([]byte, PhraseSpecMUS.Size(in))
	PhraseSpecMUS.Marshal(in, bs)

	if _, _, err := PhraseSpecMUS.Unmarshal(bs[:3]); err == nil {
		t.Error("Unmarshal() of truncated input should fail")
	}
}
