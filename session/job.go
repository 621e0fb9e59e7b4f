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
	"sync/atomic"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/results"
	"github.com/poiesic/memsearch/search"
)

// Event is delivered on a job's event channel.
type Event interface {
	event()
}

// MatchEvent reports one match as it is found.
type MatchEvent struct {
	Match core.Match
}

// DoneEvent is the last event of a job that ended without error,
// including a cancelled one.
type DoneEvent struct {
	Result *search.Result
}

// ErrorEvent is the last event of a job that failed. Result holds the
// matches found before the failure, if any.
type ErrorEvent struct {
	Err    error
	Result *search.Result
}

func (MatchEvent) event() {}
func (DoneEvent) event()  {}
func (ErrorEvent) event() {}

// Job is one background search.
type Job struct {
	req     search.Request
	sink    *results.Sink
	events  chan Event
	buffer  int
	cancel  context.CancelFunc
	done    chan struct{}
	dropped atomic.Int64

	result *search.Result
	err    error
}

func newJob(req search.Request, cancel context.CancelFunc, buffer int) *Job {
	return &Job{
		req:    req,
		sink:   results.NewSink(),
		events: make(chan Event, buffer+1), // one slot is kept for the final event
		buffer: buffer,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Request returns the search the job runs.
func (j *Job) Request() search.Request {
	return j.req
}

// Events returns the job's event channel. Match events are dropped when the
// buffer is full; the final DoneEvent or ErrorEvent is always delivered,
// after which the channel is closed. The sink holds every match.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Sink returns the sink the job adds its matches to.
func (j *Job) Sink() *results.Sink {
	return j.sink
}

// Cancel asks the search to stop. Matches found so far are kept and
// replacements already written stay in place.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes and returns its outcome.
func (j *Job) Wait() (*search.Result, error) {
	<-j.done
	return j.result, j.err
}

// Dropped returns the number of match events that did not fit the buffer.
func (j *Job) Dropped() int64 {
	return j.dropped.Load()
}

// emit is only called from the job's goroutine, so the length check cannot
// race with another send.
func (j *Job) emit(e Event) {
	if len(j.events) < j.buffer {
		j.events <- e
		return
	}
	j.dropped.Add(1)
}

func (j *Job) finish(res *search.Result, err error) {
	j.result, j.err = res, err
	if err != nil {
		j.events <- ErrorEvent{Err: err, Result: res}
	} else {
		j.events <- DoneEvent{Result: res}
	}
	close(j.events)
	close(j.done)
	j.cancel()
}
