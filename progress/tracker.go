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


// Package progress prints scan progress to a terminal.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/memsearch/search"
)

// DefaultSteps is how many reports a Tracker prints over one task when no
// interval is set.
const DefaultSteps = 100

// Tracker reports the progress of a scan as a single rewritten line.
// It implements search.Monitor.
type Tracker struct {
	writer         io.Writer
	name           string
	total          uint64
	current        uint64
	reportInterval uint64
	interval       uint64
	lastReported   uint64
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

var _ search.Monitor = (*Tracker)(nil)

// NewTracker creates a tracker writing to writer (typically os.Stderr).
// reportInterval is the number of work units between reports; zero spreads
// DefaultSteps reports over each task.
func NewTracker(writer io.Writer, reportInterval uint64) *Tracker {
	return &Tracker{
		writer:         writer,
		reportInterval: reportInterval,
	}
}

// BeginTask starts tracking a task of total units.
func (t *Tracker) BeginTask(name string, total uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.name = name
	t.total = total
	t.current = 0
	t.lastReported = 0
	t.startTime = time.Now()
	t.started = true

	t.interval = t.reportInterval
	if t.interval == 0 {
		t.interval = max(total/DefaultSteps, 1)
	}
	fmt.Fprintln(t.writer, name)
}

// Worked records n more units.
func (t *Tracker) Worked(n uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	t.current = min(t.current+n, t.total)

	// Report if we've crossed a report interval
	if t.current-t.lastReported >= t.interval {
		t.report()
		t.lastReported = t.current
	}
}

// Done prints the final progress line. A task that ended early keeps its
// last count.
func (t *Tracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	t.report()
	fmt.Fprintln(t.writer) // Print newline after final progress
	t.started = false
}

// Elapsed returns the time elapsed since the task began.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return 0
	}

	return time.Since(t.startTime)
}

// report prints the current progress. Must be called with lock held.
func (t *Tracker) report() {
	elapsed := time.Since(t.startTime)
	rate := float64(t.current) / elapsed.Seconds()

	percentage := 0.0
	if t.total > 0 {
		percentage = float64(t.current) / float64(t.total) * 100.0
	}

	fmt.Fprintf(t.writer, "\rProgress: %d/%d (%.1f%%) - %.1f units/s",
		t.current, t.total, percentage, rate)
}
