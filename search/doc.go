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


// Package search scans a range of target memory for a phrase.
//
// The Engine drives a one-word-step sliding window across an address range,
// reading through a prefetch cache so that consecutive windows rarely cost a
// provider round trip. Each window is tested against the phrase and, in the
// replace modes, matches are overwritten in place.
//
// # Modes
//
//   - FindFirst stops at the first match.
//   - FindAll reports every match, including overlapping ones.
//   - Replace overwrites the first match and stops.
//   - ReplaceAll overwrites every match.
//   - ReplaceThenFind overwrites the first match, then keeps scanning without
//     replacing and stops at the next match.
//
// Matches are reported in scan order: increasing addresses for forward scans,
// decreasing for backward scans.
//
// # Outcomes
//
// A range that cannot hold the phrase yields zero matches without touching the
// provider. Cancelling the context ends the scan with the matches found so far
// and Result.Cancelled set; it is not an error. Provider failures end the scan
// with the partial Result and an error wrapping core.ErrProvider. Nothing is
// retried.
//
// A single-match search that succeeds carries a Continuation describing the
// rest of the range, so the caller can resume with "find next".
package search
