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
	"io"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
	"github.com/poiesic/memsearch/storage"
)

// DefaultPageWords is the page size used when an import does not set one.
const DefaultPageWords = 4096

// SnapshotRepository implements storage.SnapshotRepository for BadgerDB.
// Images are stored as fixed-size pages so a provider can read any range
// without loading the whole image.
type SnapshotRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(backend *Backend) *SnapshotRepository {
	return &SnapshotRepository{
		backend: backend,
		logger:  backend.logger,
	}
}

// ImportSnapshot stores the image read from r.
func (r *SnapshotRepository) ImportSnapshot(ctx context.Context, info core.SnapshotInfo, src io.Reader) (*core.SnapshotInfo, error) {
	if info.PageWords == 0 {
		info.PageWords = DefaultPageWords
	}
	if err := core.ValidateSnapshotInfo(&info); err != nil {
		return nil, err
	}

	existing, err := r.readInfo(info.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: snapshot %q", storage.ErrDuplicateKey, info.Name)
	}

	size := uint64(info.WordSpec.Size)
	buf := make([]byte, info.PageWords*size)
	wb := r.backend.NewWriteBatch()
	defer wb.Cancel()

	var total uint64
	for page := uint64(0); ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			value := make([]byte, n)
			copy(value, buf[:n])
			if err := wb.Set(makeSnapshotPageKey(info.Name, page), value); err != nil {
				return nil, err
			}
			total += uint64(n)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading snapshot %q: %w", info.Name, err)
		}
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: snapshot %q is empty", core.ErrInvalidSnapshot, info.Name)
	}
	if total%size != 0 {
		wb.Cancel()
		r.dropPages(info.Name)
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte words", core.ErrInvalidWindow, total, size)
	}
	if err := wb.Flush(); err != nil {
		r.dropPages(info.Name)
		return nil, err
	}

	info.Words = total / size
	info.CreatedAt = time.Now().UTC()
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSnapshotMetaKey(info.Name), storage.MarshalSnapshotInfo(&info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Info("imported snapshot", "name", info.Name, "base", info.Base, "words", info.Words, "word_size", size)
	return &info, nil
}

// GetSnapshot retrieves a snapshot description by name.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, name string) (*core.SnapshotInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty snapshot name", storage.ErrInvalidQuery)
	}
	info, err := r.readInfo(name)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: snapshot %q", storage.ErrNotFound, name)
	}
	return info, nil
}

// ListSnapshots returns all snapshot descriptions ordered by name.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context) ([]*core.SnapshotInfo, error) {
	var results []*core.SnapshotInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(snapshotMetaPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				info, err := storage.UnmarshalSnapshotInfo(val)
				if err != nil {
					return err
				}
				results = append(results, info)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteSnapshot removes a snapshot and all of its pages.
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty snapshot name", storage.ErrInvalidQuery)
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSnapshotMetaKey(name)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: snapshot %q", storage.ErrNotFound, name)
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	return r.backend.DropPrefix(makeSnapshotPagesPrefix(name))
}

// OpenSnapshot returns a provider over a stored snapshot.
func (r *SnapshotRepository) OpenSnapshot(ctx context.Context, name string) (provider.Provider, error) {
	info, err := r.GetSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}
	return &SnapshotProvider{backend: r.backend, info: *info, logger: r.logger.With("snapshot", name)}, nil
}

// dropPages removes pages a failed import may already have committed.
func (r *SnapshotRepository) dropPages(name string) {
	if err := r.backend.DropPrefix(makeSnapshotPagesPrefix(name)); err != nil {
		r.logger.Warn("failed to drop snapshot pages", "name", name, "error", err)
	}
}

func (r *SnapshotRepository) readInfo(name string) (*core.SnapshotInfo, error) {
	var info *core.SnapshotInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSnapshotMetaKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			info, unmarshalErr = storage.UnmarshalSnapshotInfo(val)
			return unmarshalErr
		})
	}, false)
	return info, err
}

// SnapshotProvider serves a stored snapshot as target memory.
type SnapshotProvider struct {
	backend *Backend
	info    core.SnapshotInfo
	logger  *slog.Logger
}

var _ provider.Provider = (*SnapshotProvider)(nil)

// Info returns the snapshot description.
func (p *SnapshotProvider) Info() core.SnapshotInfo {
	return p.info
}

// AddressableSize returns the snapshot word size.
func (p *SnapshotProvider) AddressableSize() int {
	return p.info.WordSpec.Size
}

// Read returns count words from addr, truncated at the end of the snapshot.
func (p *SnapshotProvider) Read(ctx context.Context, addr core.Address, count uint64) ([]core.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if addr < p.info.Base || uint64(addr-p.info.Base) >= p.info.Words {
		return nil, fmt.Errorf("%w: %w: read at %s", core.ErrProvider, provider.ErrOutOfRange, addr)
	}
	first := uint64(addr - p.info.Base)
	count = min(count, p.info.Words-first)
	if count == 0 {
		return nil, nil
	}

	size := uint64(p.info.WordSpec.Size)
	out := make([]core.Word, 0, count)
	err := p.backend.WithTx(func(tx *badger.Txn) error {
		firstPage := first / p.info.PageWords
		lastPage := (first + count - 1) / p.info.PageWords
		for page := firstPage; page <= lastPage; page++ {
			data, err := p.readPage(tx, page)
			if err != nil {
				return err
			}
			pageStart := page * p.info.PageWords
			from := max(first, pageStart) - pageStart
			to := min(first+count, pageStart+p.info.PageWords) - pageStart
			for w := from; w < to; w++ {
				if (w+1)*size > uint64(len(data)) {
					return fmt.Errorf("%w: page %d of snapshot %q", storage.ErrTruncatedData, page, p.info.Name)
				}
				out = append(out, core.Word{
					Bytes:     data[w*size : (w+1)*size : (w+1)*size],
					BigEndian: p.info.WordSpec.BigEndian,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrProvider, err)
	}
	return out, nil
}

// Write stores b at addr, rewriting the affected pages.
func (p *SnapshotProvider) Write(ctx context.Context, addr core.Address, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	size := uint64(p.info.WordSpec.Size)
	totalBytes := p.info.Words * size
	if addr < p.info.Base {
		return fmt.Errorf("%w: %w: write at %s", core.ErrProvider, provider.ErrOutOfRange, addr)
	}
	off := uint64(addr-p.info.Base) * size
	if off > totalBytes || uint64(len(b)) > totalBytes-off {
		return fmt.Errorf("%w: %w: %d bytes at %s", core.ErrProvider, provider.ErrOutOfRange, len(b), addr)
	}
	if len(b) == 0 {
		return nil
	}

	pageBytes := p.info.PageWords * size
	err := p.backend.WithTx(func(tx *badger.Txn) error {
		remaining := b
		pos := off
		for len(remaining) > 0 {
			page := pos / pageBytes
			data, err := p.readPage(tx, page)
			if err != nil {
				return err
			}
			n := copy(data[pos-page*pageBytes:], remaining)
			if err := tx.Set(makeSnapshotPageKey(p.info.Name, page), data); err != nil {
				return err
			}
			remaining = remaining[n:]
			pos += uint64(n)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrProvider, err)
	}
	p.logger.Debug("snapshot write", "addr", addr, "bytes", len(b))
	return nil
}

func (p *SnapshotProvider) readPage(tx *badger.Txn, page uint64) ([]byte, error) {
	item, err := tx.Get(makeSnapshotPageKey(p.info.Name, page))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: page %d of snapshot %q", storage.ErrNotFound, page, p.info.Name)
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}
