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

import "github.com/poiesic/memsearch/core"

// Monitor observes the progress of a scan.
// Methods are called on the scanning goroutine.
type Monitor interface {
	// BeginTask is called once before scanning with the number of work units.
	BeginTask(name string, total uint64)
	// Worked reports n more units completed.
	Worked(n uint64)
	// Done is called once when the scan ends, however it ends.
	Done()
}

// MatchHandler receives each reported match in scan order, on the scanning goroutine.
type MatchHandler func(m core.Match)

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) BeginTask(_ string, _ uint64) {}
func (n *noopMonitor) Worked(_ uint64)              {}
func (n *noopMonitor) Done()                        {}

// NoopMonitor discards progress.
var NoopMonitor Monitor = &noopMonitor{}
