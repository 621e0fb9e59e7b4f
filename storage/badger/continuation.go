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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/storage"
)

// ContinuationRepository implements storage.ContinuationRepository for BadgerDB.
type ContinuationRepository struct {
	backend *Backend
}

var _ storage.ContinuationRepository = (*ContinuationRepository)(nil)

// NewContinuationRepository creates a new ContinuationRepository.
func NewContinuationRepository(backend *Backend) *ContinuationRepository {
	return &ContinuationRepository{
		backend: backend,
	}
}

// SaveContinuation persists the continuation for a target.
func (r *ContinuationRepository) SaveContinuation(ctx context.Context, target string, c *core.Continuation) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	if err := core.ValidateContinuation(c); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		c.UpdatedAt = time.Now().UTC()
		key := makeContinuationKey(target)
		value := storage.MarshalContinuation(c)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadContinuation retrieves the continuation for a target.
// Returns nil, nil if no continuation exists.
func (r *ContinuationRepository) LoadContinuation(ctx context.Context, target string) (*core.Continuation, error) {
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	var c *core.Continuation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeContinuationKey(target))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			c, unmarshalErr = storage.UnmarshalContinuation(val)
			return unmarshalErr
		})
	}, false)

	return c, err
}

// ClearContinuation removes the continuation for a target.
func (r *ContinuationRepository) ClearContinuation(ctx context.Context, target string) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeContinuationKey(target)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func checkTarget(target string) error {
	if target == "" {
		return fmt.Errorf("%w: empty target", storage.ErrInvalidQuery)
	}
	return nil
}
