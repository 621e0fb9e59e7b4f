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


package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/phrase"
	"github.com/poiesic/memsearch/provider"
	"github.com/poiesic/memsearch/search"
	"github.com/poiesic/memsearch/storage"
)

// DefaultEventBuffer is the number of match events a job buffers.
const DefaultEventBuffer = 256

// RevealFunc receives the address of a single-match search's result.
// It is called on the job's goroutine.
type RevealFunc func(addr core.Address)

// Query describes a search.
type Query struct {
	Range       core.AddressRange
	Direction   core.Direction
	Mode        core.Mode
	Phrase      phrase.Phrase
	Replacement []byte
	WordSpec    core.WordSpec
}

func (q Query) request() search.Request {
	return search.Request{
		Range:       q.Range,
		Direction:   q.Direction,
		Mode:        q.Mode,
		Phrase:      q.Phrase,
		Replacement: q.Replacement,
		WordSpec:    q.WordSpec,
	}
}

// Session runs searches against one target.
type Session struct {
	target      string
	p           provider.Provider
	repo        storage.ContinuationRepository
	engine      *search.Engine
	pool        *ants.Pool
	ownPool     bool
	reveal      RevealFunc
	monitor     search.Monitor
	eventBuffer int
	logger      *slog.Logger
	busy        atomic.Bool
}

// Option configures a Session.
type Option func(*Session) error

// WithPoolSize gives the session its own worker pool of the given size.
// Default is a pool of one worker.
func WithPoolSize(size int) Option {
	return func(s *Session) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.releasePool()
		s.pool = pool
		s.ownPool = true
		return nil
	}
}

// WithPool runs jobs on a pool shared with other sessions.
// The session does not release it.
func WithPool(pool *ants.Pool) Option {
	return func(s *Session) error {
		if pool == nil {
			return errors.New("pool must not be nil")
		}
		s.releasePool()
		s.pool = pool
		s.ownPool = false
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEngine sets the engine searches run on.
// Default is an engine with default settings.
func WithEngine(engine *search.Engine) Option {
	return func(s *Session) error {
		s.engine = engine
		return nil
	}
}

// WithRevealFunc sets the callback told where a single-match search landed.
func WithRevealFunc(fn RevealFunc) Option {
	return func(s *Session) error {
		s.reveal = fn
		return nil
	}
}

// WithMonitor sets the progress monitor for every job.
func WithMonitor(m search.Monitor) Option {
	return func(s *Session) error {
		s.monitor = m
		return nil
	}
}

// WithEventBuffer sets how many match events a job buffers before
// dropping them.
func WithEventBuffer(n int) Option {
	return func(s *Session) error {
		if n < 0 {
			n = 0
		}
		s.eventBuffer = n
		return nil
	}
}

// New creates a session for target. target names the continuation slot in
// repo, so it must be stable across runs for FindNext to work.
func New(target string, p provider.Provider, repo storage.ContinuationRepository, opts ...Option) (*Session, error) {
	if p == nil {
		return nil, ErrProviderRequired
	}
	if repo == nil {
		return nil, ErrContinuationRepositoryRequired
	}

	s := &Session{
		target:      target,
		p:           p,
		repo:        repo,
		eventBuffer: DefaultEventBuffer,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	if s.pool == nil {
		pool, err := ants.NewPool(1)
		if err != nil {
			return nil, err
		}
		s.pool = pool
		s.ownPool = true
	}
	if s.engine == nil {
		engine, err := search.NewEngine(search.WithLogger(s.logger))
		if err != nil {
			s.Release()
			return nil, err
		}
		s.engine = engine
	}
	s.logger = s.logger.With("target", target)
	return s, nil
}

// Target returns the target name.
func (s *Session) Target() string {
	return s.target
}

// Provider returns the provider searches run against.
func (s *Session) Provider() provider.Provider {
	return s.p
}

// Find starts a search. An invalid query is rejected before anything runs.
// The job stops when ctx ends or the job is cancelled.
func (s *Session) Find(ctx context.Context, q Query) (*Job, error) {
	req := q.request()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	key := core.ContinuationKey(req.Phrase.ToSpec(), req.Range, req.Direction, req.WordSpec)
	return s.start(ctx, req, key, true)
}

// FindNext resumes the last single-match search after its match.
// Returns ErrNoContinuation if there is nothing to resume.
func (s *Session) FindNext(ctx context.Context) (*Job, error) {
	c, err := s.repo.LoadContinuation(ctx, s.target)
	if err != nil {
		return nil, fmt.Errorf("loading continuation: %w", err)
	}
	if c == nil {
		return nil, ErrNoContinuation
	}
	if err := core.ValidateContinuation(c); err != nil {
		return nil, err
	}
	ph, err := phrase.FromSpec(c.Phrase)
	if err != nil {
		return nil, err
	}

	req := search.Request{
		Range:     c.Range(),
		Direction: c.Direction,
		Mode:      core.FindFirst,
		Phrase:    ph,
		WordSpec:  c.WordSpec,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.start(ctx, req, c.Key, false)
}

// start submits a job. With discard set, a stored continuation for a
// different search is cleared once the session is known to be idle.
func (s *Session) start(ctx context.Context, req search.Request, key string, discard bool) (*Job, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	if discard {
		if err := s.discardStale(ctx, key); err != nil {
			s.busy.Store(false)
			return nil, err
		}
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := newJob(req, cancel, s.eventBuffer)
	err := s.pool.Submit(func() {
		s.run(jobCtx, job, key)
	})
	if err != nil {
		cancel()
		s.busy.Store(false)
		if errors.Is(err, ants.ErrPoolOverload) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("submitting search: %w", err)
	}
	s.logger.Debug("search submitted", "mode", req.Mode, "range", req.Range, "key", key)
	return job, nil
}

func (s *Session) discardStale(ctx context.Context, key string) error {
	stored, err := s.repo.LoadContinuation(ctx, s.target)
	if err != nil {
		return fmt.Errorf("loading continuation: %w", err)
	}
	if stored == nil || stored.Key == key {
		return nil
	}
	if err := s.repo.ClearContinuation(ctx, s.target); err != nil {
		return fmt.Errorf("clearing continuation: %w", err)
	}
	s.logger.Debug("discarded continuation", "key", stored.Key)
	return nil
}

func (s *Session) run(ctx context.Context, job *Job, key string) {
	req := job.req
	handler := func(m core.Match) {
		job.sink.Add(m)
		job.emit(MatchEvent{Match: m})
	}

	res, err := s.engine.Run(ctx, s.p, req, handler, s.monitor)
	if err == nil && !req.Mode.IsAll() && !res.Cancelled {
		err = s.settle(context.WithoutCancel(ctx), res, key)
		if err == nil && s.reveal != nil {
			if m, ok := res.First(); ok {
				s.reveal(m.Address)
			}
		}
	}
	if err != nil {
		s.logger.Error("search failed", "mode", req.Mode, "err", err)
	}

	s.busy.Store(false)
	job.finish(res, err)
}

// settle stores where a single-match search can resume, or clears the
// continuation when nothing is left to search.
func (s *Session) settle(ctx context.Context, res *search.Result, key string) error {
	if res.Continuation == nil {
		if err := s.repo.ClearContinuation(ctx, s.target); err != nil {
			return fmt.Errorf("clearing continuation: %w", err)
		}
		return nil
	}
	res.Continuation.Key = key
	if err := s.repo.SaveContinuation(ctx, s.target, res.Continuation); err != nil {
		return fmt.Errorf("saving continuation: %w", err)
	}
	return nil
}

// Release releases the session's worker pool. A shared pool is left alone.
// The session should not be used after calling Release.
func (s *Session) Release() {
	s.releasePool()
}

func (s *Session) releasePool() {
	if s.pool != nil && s.ownPool {
		s.pool.Release()
	}
	s.pool = nil
	s.ownPool = false
}
