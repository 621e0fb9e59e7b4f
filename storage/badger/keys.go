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


package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	continuationPrefix = "cont"
	snapshotMetaPrefix = "snapmeta"
	snapshotPagePrefix = "snappage"
)

// makeContinuationKey generates a key for a target's continuation.
func makeContinuationKey(target string) []byte {
	return []byte(fmt.Sprintf("%s:%s", continuationPrefix, target))
}

// makeSnapshotMetaKey generates a key for a snapshot description.
func makeSnapshotMetaKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", snapshotMetaPrefix, name))
}

// makeSnapshotPagesPrefix generates the prefix shared by all pages of a snapshot.
// Format: prefix:name:
func makeSnapshotPagesPrefix(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", snapshotPagePrefix, name))
}

// makeSnapshotPageKey generates a key for one page of a snapshot.
// Format: prefix:name:page
func makeSnapshotPageKey(name string, page uint64) []byte {
	prefix := makeSnapshotPagesPrefix(name)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], page)
	return buf
}
