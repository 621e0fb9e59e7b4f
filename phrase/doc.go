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


// Package phrase defines the patterns a scan looks for.
//
// A Phrase is one of three encodings:
//
//   - Ascii: text compared one character per addressable unit, optionally
//     ignoring case. Each unit contributes the low 8 bits of its value.
//   - Bytes: a raw byte sequence compared byte for byte, regardless of word size.
//   - Integer: a non-negative integer entered in radix 2, 8, 10 or 16 and
//     compared against the window read as a big-endian number, or byte-swapped
//     when every word in the window is little-endian.
//
// Integer byte lengths and replacement bytes both come from Normalize, so the
// width of a match and the width of what is written back always agree.
//
// Phrases are immutable values. IsMatch has no side effects and may be called
// from any goroutine.
package phrase
