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
	"fmt"

	"github.com/poiesic/memsearch/cache"
)

// DefaultProgressLimit is the largest number of progress units reported for
// one scan. Longer ranges report one unit per several steps.
const DefaultProgressLimit = 0x07FFFFFF

// Config holds engine tuning.
type Config struct {
	// PrefetchWords is how many words each provider read fetches.
	PrefetchWords int

	// ProgressLimit caps the number of progress units per scan.
	ProgressLimit uint64
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	return Config{
		PrefetchWords: cache.DefaultPrefetch,
		ProgressLimit: DefaultProgressLimit,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PrefetchWords < 1 {
		return fmt.Errorf("%w: prefetch must be at least 1 word, got %d", ErrInvalidConfig, c.PrefetchWords)
	}
	if c.ProgressLimit < 1 {
		return fmt.Errorf("%w: progress limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// progressPlan splits a scan of total steps into at most limit progress
// units, returning the number of units and the steps per unit.
func progressPlan(total, limit uint64) (units, factor uint64) {
	factor = 1
	if total > limit {
		factor = total / limit
		total /= factor
	}
	return total, factor
}
