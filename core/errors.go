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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPhrase indicates a search phrase is empty or malformed.
	ErrInvalidPhrase = errors.New("invalid search phrase")

	// ErrInvalidReplacement indicates replacement data is missing in a replace mode.
	ErrInvalidReplacement = errors.New("invalid replacement data")

	// ErrInvalidRange indicates an address range with start > end.
	// Searches treat this as "nothing to find" rather than failing.
	ErrInvalidRange = errors.New("invalid address range")

	// ErrInvalidWordSpec indicates an unsupported addressable unit size.
	ErrInvalidWordSpec = errors.New("invalid word size")

	// ErrInvalidWindow indicates a byte window that cannot be split into words.
	ErrInvalidWindow = errors.New("invalid memory window")

	// ErrInvalidMode indicates an unknown search mode.
	ErrInvalidMode = errors.New("invalid search mode")

	// ErrInvalidSnapshot indicates a snapshot description that cannot be stored.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrProvider indicates a failure reading or writing target memory.
	ErrProvider = errors.New("memory provider failure")
)
