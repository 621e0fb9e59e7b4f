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


// Package storage provides the storage abstraction layer for memsearch.
//
// This package defines repository interfaces that decouple persistence from
// the search code. Two kinds of records are kept:
//
//   - Continuations: where the last single-match search for a target stopped,
//     so that "find next" can resume over the rest of the range.
//   - Snapshots: memory images imported from files and stored page by page,
//     which can be searched like a live target through a byte provider.
//
// # Implementations
//
// The badger subpackage implements both repositories on BadgerDB:
//
//	backend, err := badger.OpenBackend(path, false)
//	continuations := badger.NewContinuationRepository(backend)
//	snapshots := badger.NewSnapshotRepository(backend)
//
// # Serialization
//
// Records are encoded with mus-go using the serializers in the core package.
// MarshalContinuation and MarshalSnapshotInfo and their Unmarshal
// counterparts wrap them for use as stored values.
//
// # Errors
//
// Lookups of missing snapshots return ErrNotFound. A missing continuation is
// not an error: LoadContinuation returns nil, nil.
package storage
