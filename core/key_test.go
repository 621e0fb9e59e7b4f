package core

import "testing"

func TestContinuationKey(t *testing.T) {
	p := PhraseSpec{Kind: PhraseAscii, Text: "TARGET"}
	r := AddressRange{Start: 0x1000, End: 0x100F}

	k1 := ContinuationKey(p, r, Forward, DefaultWordSpec)
	k2 := ContinuationKey(p, r, Forward, DefaultWordSpec)
	if k1 != k2 {
		t.Errorf("ContinuationKey() not deterministic: %s != %s", k1, k2)
	}
	if len(k1) != 16 {
		t.Errorf("ContinuationKey() = %q, want 16 hex digits", k1)
	}

	variants := map[string]string{
		"phrase":    ContinuationKey(PhraseSpec{Kind: PhraseAscii, Text: "TARGET", CaseInsensitive: true}, r, Forward, DefaultWordSpec),
		"range":     ContinuationKey(p, AddressRange{Start: 0x1001, End: 0x100F}, Forward, DefaultWordSpec),
		"direction": ContinuationKey(p, r, Backward, DefaultWordSpec),
		"word spec": ContinuationKey(p, r, Forward, WordSpec{Size: 2, BigEndian: true}),
	}
	for name, k := range variants {
		if k == k1 {
			t.Errorf("ContinuationKey() ignores %s", name)
		}
	}
}
