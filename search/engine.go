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


package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/memsearch/cache"
	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/provider"
	"go.opentelemetry.io/otel/metric"
)

// Engine runs scans. An Engine holds no per-scan state and may run several
// scans concurrently, provided each uses its own provider.
type Engine struct {
	config  Config
	logger  *slog.Logger
	meter   metric.Meter
	metrics *metrics
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPrefetch sets how many words each provider read fetches.
func WithPrefetch(words int) Option {
	return func(e *Engine) error {
		e.config.PrefetchWords = words
		return nil
	}
}

// WithProgressLimit caps the number of progress units reported per scan.
func WithProgressLimit(units uint64) Option {
	return func(e *Engine) error {
		e.config.ProgressLimit = units
		return nil
	}
}

// WithMeter sets the meter counters are created on.
// Default is the global meter provider.
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) error {
		e.meter = meter
		return nil
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	m, err := newMetrics(e.meter)
	if err != nil {
		return nil, fmt.Errorf("creating search metrics: %w", err)
	}
	e.metrics = m
	return e, nil
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.config
}

// Run scans p as described by req. handler and monitor may be nil.
//
// Run returns an error without touching p when req is invalid. On a
// provider failure it returns the partial result together with the error.
func (e *Engine) Run(ctx context.Context, p provider.Provider, req Request, handler MatchHandler, monitor Monitor) (*Result, error) {
	if p == nil {
		return nil, ErrProviderRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = NoopMonitor
	}
	if handler == nil {
		handler = func(core.Match) {}
	}

	res := &Result{}
	phraseWords := req.Phrase.Words(req.WordSpec)
	rangeWords, ok := req.Range.Words()
	if !req.Range.Valid() {
		e.logger.Debug("empty search range", "range", req.Range)
		return res, nil
	}
	if !ok {
		rangeWords = math.MaxUint64
	}
	if phraseWords > rangeWords {
		e.logger.Debug("phrase longer than range", "phrase_words", phraseWords, "range_words", rangeWords)
		return res, nil
	}

	s := &scan{
		engine:  e,
		p:       p,
		req:     req,
		res:     res,
		handler: handler,
		cache:   cache.New(e.config.PrefetchWords),
		words:   phraseWords,
		length:  req.Phrase.ByteLength(req.WordSpec),
	}

	units, factor := progressPlan(rangeWords, e.config.ProgressLimit)
	monitor.BeginTask(fmt.Sprintf("Searching memory for %s", req.Phrase), units)
	defer monitor.Done()

	e.logger.Debug("scan starting",
		"range", req.Range,
		"direction", req.Direction,
		"mode", req.Mode,
		"phrase", req.Phrase.String(),
		"phrase_bytes", s.length)

	start := time.Now()
	err := s.run(ctx, monitor, factor)
	res.Reads = s.cache.Reads()
	e.metrics.record(ctx, req, res)

	if err != nil {
		e.logger.Error("scan aborted", "range", req.Range, "steps", res.Steps, "err", err)
		return res, err
	}
	e.logger.Debug("scan finished",
		"matches", len(res.Matches),
		"replaced", len(res.Replacements),
		"cancelled", res.Cancelled,
		"steps", res.Steps,
		"reads", res.Reads,
		"elapsed", time.Since(start))
	return res, nil
}

// scan is the state of one Run.
type scan struct {
	engine  *Engine
	p       provider.Provider
	req     Request
	res     *Result
	handler MatchHandler
	cache   *cache.Cache
	words   uint64
	length  int
}

func (s *scan) run(ctx context.Context, monitor Monitor, factor uint64) error {
	rng := s.req.Range
	forward := s.req.Direction == core.Forward

	// Positions where the whole phrase fits inside the range.
	last := rng.End - core.Address(s.words-1)
	pos := rng.Start
	if !forward {
		pos = last
	}

	replacing := s.req.Mode.IsReplace()
	var ticks uint64
	for {
		if ctx.Err() != nil {
			s.res.Cancelled = true
			s.engine.logger.Debug("scan cancelled", "at", pos, "matches", len(s.res.Matches))
			return nil
		}

		words, err := s.cache.Ensure(ctx, pos, s.words, s.p, rng, s.req.Direction)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				s.res.Cancelled = true
				return nil
			}
			return err
		}
		s.res.Steps++

		win := core.NewWindow(words, s.length)
		if s.req.Phrase.IsMatch(win, s.req.WordSpec) {
			m := core.Match{Address: pos, Length: uint64(s.length)}
			stop, err := s.matched(ctx, m, &replacing)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}

		ticks++
		if ticks == factor {
			ticks = 0
			monitor.Worked(1)
		}

		if forward {
			if pos == last {
				return nil
			}
			pos++
		} else {
			if pos == rng.Start {
				return nil
			}
			pos--
		}
	}
}

// matched applies the mode to a match and reports whether the scan is done.
func (s *scan) matched(ctx context.Context, m core.Match, replacing *bool) (bool, error) {
	mode := s.req.Mode
	if *replacing {
		if err := s.replace(ctx, m.Address); err != nil {
			return true, err
		}
		s.res.Replacements = append(s.res.Replacements, m)
		if mode == core.ReplaceThenFind {
			// Keep scanning for the next match without replacing it.
			*replacing = false
			return false, nil
		}
	}

	s.res.Matches = append(s.res.Matches, m)
	s.handler(m)
	if mode.IsAll() {
		return false, nil
	}
	s.res.Continuation = continuation(s.req, m.Address)
	return true, nil
}

func (s *scan) replace(ctx context.Context, addr core.Address) error {
	if err := s.p.Write(ctx, addr, s.req.Replacement); err != nil {
		if errors.Is(err, core.ErrProvider) {
			return fmt.Errorf("write %d bytes at %s: %w", len(s.req.Replacement), addr, err)
		}
		return fmt.Errorf("%w: write %d bytes at %s: %w", core.ErrProvider, len(s.req.Replacement), addr, err)
	}
	s.cache.Patch(addr, s.req.Replacement)
	s.engine.logger.Debug("replaced match", "addr", addr, "bytes", len(s.req.Replacement))
	return nil
}

// continuation returns the part of the range not yet scanned after a match
// at addr, or nil when the match was at the edge of the range.
func continuation(req Request, addr core.Address) *core.Continuation {
	c := &core.Continuation{
		Start:     req.Range.Start,
		End:       req.Range.End,
		Direction: req.Direction,
		Phrase:    req.Phrase.ToSpec(),
		WordSpec:  req.WordSpec,
		UpdatedAt: time.Now().UTC(),
	}
	if req.Direction == core.Forward {
		if addr >= req.Range.End {
			return nil
		}
		c.Start = addr + 1
	} else {
		if addr <= req.Range.Start {
			return nil
		}
		c.End = addr - 1
	}
	return c
}
