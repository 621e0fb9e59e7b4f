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
	"context"
	"io"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
)

// ContinuationRepository persists the resume point of single-match searches,
// one per target.
type ContinuationRepository interface {
	// SaveContinuation stores c for target, replacing any previous one.
	// Sets UpdatedAt.
	SaveContinuation(ctx context.Context, target string, c *core.Continuation) error

	// LoadContinuation returns the continuation for target.
	// Returns nil, nil if none is stored.
	LoadContinuation(ctx context.Context, target string) (*core.Continuation, error)

	// ClearContinuation removes the continuation for target, if any.
	ClearContinuation(ctx context.Context, target string) error
}

// SnapshotRepository stores memory images and serves them as byte providers.
type SnapshotRepository interface {
	// ImportSnapshot reads an image from r and stores it under info.Name.
	// info.Words and info.CreatedAt are filled in from the import.
	// Returns ErrDuplicateKey if a snapshot with that name exists.
	ImportSnapshot(ctx context.Context, info core.SnapshotInfo, r io.Reader) (*core.SnapshotInfo, error)

	// GetSnapshot returns the description of a stored snapshot.
	// Returns ErrNotFound if it doesn't exist.
	GetSnapshot(ctx context.Context, name string) (*core.SnapshotInfo, error)

	// ListSnapshots returns every stored snapshot ordered by name.
	ListSnapshots(ctx context.Context) ([]*core.SnapshotInfo, error)

	// DeleteSnapshot removes a snapshot and its pages.
	// Returns ErrNotFound if it doesn't exist.
	DeleteSnapshot(ctx context.Context, name string) error

	// OpenSnapshot returns a provider reading and writing the stored image.
	// Writes are persisted. Returns ErrNotFound if it doesn't exist.
	OpenSnapshot(ctx context.Context, name string) (provider.Provider, error)
}
