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


package storage

import (
	"fmt"

	"github.com/poiesic/memsearch/core"
)

// MarshalContinuation serializes a Continuation to bytes.
func MarshalContinuation(c *core.Continuation) []byte {
	buf := make([]byte, core.ContinuationMUS.Size(*c))
	core.ContinuationMUS.Marshal(*c, buf)
	return buf
}

// UnmarshalContinuation deserializes a Continuation from bytes.
func UnmarshalContinuation(data []byte) (*core.Continuation, error) {
	c, _, err := core.ContinuationMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: continuation: %w", ErrSerializationFailed, err)
	}
	return &c, nil
}

// MarshalSnapshotInfo serializes a SnapshotInfo to bytes.
func MarshalSnapshotInfo(info *core.SnapshotInfo) []byte {
	buf := make([]byte, core.SnapshotInfoMUS.Size(*info))
	core.SnapshotInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalSnapshotInfo deserializes a SnapshotInfo from bytes.
func UnmarshalSnapshotInfo(data []byte) (*core.SnapshotInfo, error) {
	info, _, err := core.SnapshotInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}
