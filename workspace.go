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


package memsearch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memsearch/provider"
	"github.com/poiesic/memsearch/provider/process"
	"github.com/poiesic/memsearch/search"
	"github.com/poiesic/memsearch/session"
	"github.com/poiesic/memsearch/storage"
	"github.com/poiesic/memsearch/storage/badger"
)

// Workspace holds the persistent state shared by search sessions: stored
// snapshots, continuations, the search engine and the worker pool.
type Workspace struct {
	backend          *badger.Backend
	continuationRepo *badger.ContinuationRepository
	snapshotRepo     *badger.SnapshotRepository
	engine           *search.Engine
	pool             *ants.Pool
	logger           *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	logger        *slog.Logger
	inMemory      bool
	poolSize      int
	engineOptions []search.Option
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) WorkspaceOption {
	return func(o *workspaceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemory keeps all state in memory. The path is ignored.
func WithInMemory() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// WithPoolSize sets how many searches may run at once across sessions.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.poolSize = max(size, 1)
	}
}

// WithEngineOptions configures the search engine shared by sessions.
func WithEngineOptions(opts ...search.Option) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// NewWorkspace opens the workspace stored at filePath.
func NewWorkspace(filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		logger:   slog.Default(),
		poolSize: max(runtime.NumCPU()/2, 1),
	}
	for _, opt := range opts {
		opt(options)
	}

	engine, err := search.NewEngine(append([]search.Option{search.WithLogger(options.logger)}, options.engineOptions...)...)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Workspace{
		backend:          backend,
		continuationRepo: badger.NewContinuationRepository(backend),
		snapshotRepo:     badger.NewSnapshotRepository(backend),
		engine:           engine,
		pool:             pool,
		logger:           options.logger,
	}, nil
}

// Close stops the worker pool and closes storage.
func (w *Workspace) Close() error {
	w.pool.Release()

	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ContinuationRepository returns the store of resumable searches.
func (w *Workspace) ContinuationRepository() storage.ContinuationRepository {
	return w.continuationRepo
}

// SnapshotRepository returns the store of memory snapshots.
func (w *Workspace) SnapshotRepository() storage.SnapshotRepository {
	return w.snapshotRepo
}

// Engine returns the shared search engine.
func (w *Workspace) Engine() *search.Engine {
	return w.engine
}

// OpenSnapshot starts a session over a stored snapshot.
func (w *Workspace) OpenSnapshot(ctx context.Context, name string, opts ...session.Option) (*session.Session, error) {
	p, err := w.snapshotRepo.OpenSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}
	return w.newSession("snapshot:"+name, p, opts)
}

// AttachProcess starts a session over the memory of a live process.
func (w *Workspace) AttachProcess(pid int, opts ...session.Option) (*session.Session, error) {
	p, err := process.New(pid, process.WithLogger(w.logger))
	if err != nil {
		return nil, err
	}
	return w.newSession(fmt.Sprintf("pid:%d", pid), p, opts)
}

func (w *Workspace) newSession(target string, p provider.Provider, opts []session.Option) (*session.Session, error) {
	base := []session.Option{
		session.WithPool(w.pool),
		session.WithEngine(w.engine),
		session.WithLogger(w.logger),
	}
	return session.New(target, p, w.continuationRepo, append(base, opts...)...)
}
