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
	"strings"
)

// ValidateWordSpec validates the addressable unit size.
//
// Validation rules:
//   - Size must be 1, 2, 4 or 8
func ValidateWordSpec(ws WordSpec) error {
	switch ws.Size {
	case 1, 2, 4, 8:
		return nil
	default:
		return fmt.Errorf("%w: %d bytes", ErrInvalidWordSpec, ws.Size)
	}
}

// ValidateRange validates an address range.
func ValidateRange(r AddressRange) error {
	if !r.Valid() {
		return fmt.Errorf("%w: start %s > end %s", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// ValidateDirection validates a scan direction.
func ValidateDirection(d Direction) error {
	if d != Forward && d != Backward {
		return fmt.Errorf("%w: direction %d", ErrInvalidMode, d)
	}
	return nil
}

// ValidateMode validates a search mode together with its replacement data.
//
// Validation rules:
//   - Mode must be one of the known modes
//   - Replace modes require at least one replacement byte
//
// NOT validated:
//   - Replacement length relative to the phrase (they are independent)
func ValidateMode(mode Mode, replacement []byte) error {
	if _, ok := modeNames[mode]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidMode, mode)
	}
	if mode.IsReplace() && len(replacement) == 0 {
		return fmt.Errorf("%w: %s requires replacement bytes", ErrInvalidReplacement, mode)
	}
	return nil
}

// ValidateContinuation validates a stored continuation before it is resumed.
func ValidateContinuation(c *Continuation) error {
	if c == nil {
		return fmt.Errorf("%w: continuation is nil", ErrInvalidRange)
	}
	if err := ValidateRange(c.Range()); err != nil {
		return err
	}
	if err := ValidateWordSpec(c.WordSpec); err != nil {
		return err
	}
	if err := ValidateDirection(c.Direction); err != nil {
		return err
	}
	switch c.Phrase.Kind {
	case PhraseAscii, PhraseBytes, PhraseInteger:
	default:
		return fmt.Errorf("%w: phrase kind %d", ErrInvalidPhrase, c.Phrase.Kind)
	}
	return nil
}

// ValidateSnapshotInfo validates a snapshot description before import.
//
// Validation rules:
//   - Name must be non-empty and must not contain ':'
//   - Word spec must be valid
//   - PageWords must be positive
func ValidateSnapshotInfo(info *SnapshotInfo) error {
	if info == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrInvalidSnapshot)
	}
	if info.Name == "" || strings.Contains(info.Name, ":") {
		return fmt.Errorf("%w: name %q", ErrInvalidSnapshot, info.Name)
	}
	if err := ValidateWordSpec(info.WordSpec); err != nil {
		return err
	}
	if info.PageWords == 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidSnapshot)
	}
	return nil
}
