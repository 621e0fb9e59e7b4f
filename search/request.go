package search

import (
	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/phrase"
)

// Request describes one scan.
type Request struct {
	Range       core.AddressRange
	Direction   core.Direction
	Mode        core.Mode
	Phrase      phrase.Phrase
	Replacement []byte // required in replace modes, written as is
	WordSpec    core.WordSpec
}

// Validate rejects requests that can never run. An inverted range is not an
// error; it simply has nothing to find.
func (r Request) Validate() error {
	if err := core.ValidateWordSpec(r.WordSpec); err != nil {
		return err
	}
	if err := core.ValidateDirection(r.Direction); err != nil {
		return err
	}
	if err := r.Phrase.Validate(r.WordSpec); err != nil {
		return err
	}
	return core.ValidateMode(r.Mode, r.Replacement)
}

// Result is the outcome of a scan.
type Result struct {
	// Matches are the reported matches in scan order. In ReplaceThenFind the
	// replaced match is listed in Replacements only.
	Matches []core.Match

	// Replacements are the matches that were overwritten, in scan order.
	Replacements []core.Match

	// Cancelled is set when the context ended the scan early.
	Cancelled bool

	// Steps is the number of positions tested.
	Steps uint64

	// Reads is the number of provider reads issued.
	Reads int

	// Continuation is the rest of the range after a single-match success.
	// Its Key is left for the caller to assign.
	Continuation *core.Continuation
}

// Found reports whether the scan reported at least one match.
func (r *Result) Found() bool {
	return r != nil && len(r.Matches) > 0
}

// First returns the first reported match.
func (r *Result) First() (core.Match, bool) {
	if !r.Found() {
		return core.Match{}, false
	}
	return r.Matches[0], true
}
