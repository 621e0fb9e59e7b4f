package core

import (
	"encoding/binary"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// ContinuationKey fingerprints a search by phrase, range, direction and
// word spec using BLAKE2b. Identical searches produce identical keys.
func ContinuationKey(p PhraseSpec, r AddressRange, d Direction, ws WordSpec) string {
	rec := Continuation{Start: r.Start, End: r.End, Direction: d, Phrase: p, WordSpec: ws}
	buf := make([]byte, ContinuationMUS.Size(rec))
	ContinuationMUS.Marshal(rec, buf)

	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(buf)
	sum := h.Sum(nil)
	return fmt.Sprintf("%016x", binary.BigEndian.Uint64(sum))
}
