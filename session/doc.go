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


// Package session runs searches against one target in the background.
//
// A Session owns a byte provider and runs at most one search on it at a
// time. Each search is a Job submitted to a worker pool; callers follow it
// through its event channel or its result sink, cancel it, or wait for it.
//
// Single-match searches are resumable. A successful FindFirst, Replace or
// ReplaceThenFind stores the rest of the range as a continuation, and
// FindNext picks up where it stopped:
//
//	s, _ := session.New("snapshot:core", p, repo)
//	defer s.Release()
//
//	job, _ := s.Find(ctx, session.Query{...})
//	res, err := job.Wait()
//
//	job, err = s.FindNext(ctx) // ErrNoContinuation once the range is exhausted
//
// Starting a different search discards the stored continuation.
package session
