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


// Package results collects the matches of a background search for display.
package results

import (
	"slices"
	"sync"

	"github.com/poiesic/memsearch/core"
)

// Listener is notified of each match added to a Sink.
type Listener interface {
	// OnMatchAdded is called on the adding goroutine, once per match, in
	// insertion order. Consumers must hand off to their own goroutine if needed.
	OnMatchAdded(m core.Match)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(m core.Match)

// OnMatchAdded calls f(m).
func (f ListenerFunc) OnMatchAdded(m core.Match) {
	f(m)
}

// Sink is an ordered, append-only list of matches. It is safe for one
// producer to Add while other goroutines read.
type Sink struct {
	mu        sync.RWMutex
	matches   []core.Match
	listeners map[int]Listener
	order     []int
	nextID    int
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{listeners: make(map[int]Listener)}
}

// Add appends m and notifies listeners.
func (s *Sink) Add(m core.Match) {
	s.mu.Lock()
	s.matches = append(s.matches, m)
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l.OnMatchAdded(m)
	}
}

// Matches returns a copy of the matches in insertion order.
func (s *Sink) Matches() []core.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.matches)
}

// Len returns the number of matches.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

// Subscribe registers l and returns a function that removes it.
func (s *Sink) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
		})
	}
}

// Clear removes all matches. Listeners stay subscribed.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = nil
}
