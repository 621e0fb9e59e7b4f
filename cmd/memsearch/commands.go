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


package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/poiesic/memsearch"
	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/phrase"
	"github.com/poiesic/memsearch/progress"
	"github.com/poiesic/memsearch/search"
	"github.com/poiesic/memsearch/session"
	"github.com/urfave/cli/v2"
)

func openWorkspace(c *cli.Context, opts ...search.Option) (*memsearch.Workspace, error) {
	ws, err := memsearch.NewWorkspace(c.String("db"),
		memsearch.WithLogger(slog.Default()),
		memsearch.WithPoolSize(1),
		memsearch.WithEngineOptions(opts...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return ws, nil
}

func importCommand(c *cli.Context) error {
	ctx := c.Context

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("an image file is required")
	}
	base, err := phrase.ParseAddress(c.String("base"))
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	info, err := ws.SnapshotRepository().ImportSnapshot(ctx, core.SnapshotInfo{
		Name:      c.String("name"),
		Base:      base,
		WordSpec:  core.WordSpec{Size: c.Int("word-size"), BigEndian: !c.Bool("little-endian")},
		PageWords: c.Uint64("page-words"),
	}, bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "imported %s: %d words at %s\n", info.Name, info.Words, info.Base)
	return nil
}

func listCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	infos, err := ws.SnapshotRepository().ListSnapshots(c.Context)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBASE\tWORDS\tWORD\tCREATED")
	for _, info := range infos {
		order := "BE"
		if !info.WordSpec.BigEndian {
			order = "LE"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d%s\t%s\n",
			info.Name, info.Base, info.Words, info.WordSpec.Size*8, order,
			info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func deleteCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("a snapshot name is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.SnapshotRepository().DeleteSnapshot(c.Context, name); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", name)
	return nil
}

// target is an opened search target with its defaults.
type target struct {
	session  *session.Session
	rng      core.AddressRange
	hasRange bool
	wordSpec core.WordSpec
}

func openTarget(ctx context.Context, c *cli.Context, ws *memsearch.Workspace, opts ...session.Option) (*target, error) {
	if c.Bool("progress") {
		opts = append(opts, session.WithMonitor(progress.NewTracker(c.App.ErrWriter, 0)))
	}

	name, pid := c.String("snapshot"), c.Int("pid")
	switch {
	case name != "" && pid != 0:
		return nil, fmt.Errorf("--snapshot and --pid are mutually exclusive")
	case name != "":
		info, err := ws.SnapshotRepository().GetSnapshot(ctx, name)
		if err != nil {
			return nil, err
		}
		s, err := ws.OpenSnapshot(ctx, name, opts...)
		if err != nil {
			return nil, err
		}
		return &target{
			session:  s,
			rng:      core.AddressRange{Start: info.Base, End: info.Last()},
			hasRange: true,
			wordSpec: info.WordSpec,
		}, nil
	case pid != 0:
		s, err := ws.AttachProcess(pid, opts...)
		if err != nil {
			return nil, err
		}
		wordSpec := core.DefaultWordSpec
		if p, ok := s.Provider().(interface{ WordSpec() core.WordSpec }); ok {
			wordSpec = p.WordSpec()
		}
		return &target{session: s, wordSpec: wordSpec}, nil
	default:
		return nil, fmt.Errorf("one of --snapshot or --pid is required")
	}
}

func searchRange(c *cli.Context, t *target) (core.AddressRange, error) {
	rng := t.rng
	if s := c.String("start"); s != "" {
		addr, err := phrase.ParseAddress(s)
		if err != nil {
			return rng, err
		}
		rng.Start = addr
	} else if !t.hasRange {
		return rng, fmt.Errorf("--start is required for a live process")
	}
	if s := c.String("end"); s != "" {
		addr, err := phrase.ParseAddress(s)
		if err != nil {
			return rng, err
		}
		rng.End = addr
	} else if !t.hasRange {
		return rng, fmt.Errorf("--end is required for a live process")
	}
	return rng, nil
}

func runSearch(c *cli.Context, mode core.Mode) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	text := c.Args().First()
	if text == "" {
		return fmt.Errorf("a search phrase is required")
	}
	format, err := phrase.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	ph, err := phrase.Parse(format, text, c.Bool("ignore-case"))
	if err != nil {
		return err
	}
	var replacement []byte
	if mode.IsReplace() {
		withFormat := format
		if f := c.String("with-format"); f != "" {
			if withFormat, err = phrase.ParseFormat(f); err != nil {
				return err
			}
		}
		if replacement, err = phrase.Replacement(withFormat, c.String("with")); err != nil {
			return err
		}
	}

	ws, err := openWorkspace(c, search.WithPrefetch(c.Int("prefetch")))
	if err != nil {
		return err
	}
	defer ws.Close()

	out := c.App.Writer
	t, err := openTarget(ctx, c, ws, session.WithRevealFunc(revealTo(out)))
	if err != nil {
		return err
	}
	defer t.session.Release()

	rng, err := searchRange(c, t)
	if err != nil {
		return err
	}
	direction := core.Forward
	if c.Bool("backward") {
		direction = core.Backward
	}

	job, err := t.session.Find(ctx, session.Query{
		Range:       rng,
		Direction:   direction,
		Mode:        mode,
		Phrase:      ph,
		Replacement: replacement,
		WordSpec:    t.wordSpec,
	})
	if err != nil {
		return err
	}
	return report(out, job)
}

func findNextCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	out := c.App.Writer
	t, err := openTarget(ctx, c, ws, session.WithRevealFunc(revealTo(out)))
	if err != nil {
		return err
	}
	defer t.session.Release()

	job, err := t.session.FindNext(ctx)
	if errors.Is(err, session.ErrNoContinuation) {
		fmt.Fprintln(out, "nothing to continue")
		return nil
	}
	if err != nil {
		return err
	}
	return report(out, job)
}

func revealTo(out io.Writer) session.RevealFunc {
	return func(addr core.Address) {
		fmt.Fprintf(out, "match at %s\n", addr)
	}
}

// report prints a job's matches as they arrive and a summary at the end.
// Matches the event stream dropped are printed from the sink once the job ends.
func report(out io.Writer, job *session.Job) error {
	all := job.Request().Mode.IsAll()
	shown := make(map[core.Address]bool)
	for e := range job.Events() {
		if m, ok := e.(session.MatchEvent); ok && all {
			fmt.Fprintf(out, "match at %s\n", m.Match.Address)
			shown[m.Match.Address] = true
		}
	}

	res, err := job.Wait()
	if all && job.Dropped() > 0 {
		for _, m := range job.Sink().Matches() {
			if !shown[m.Address] {
				fmt.Fprintf(out, "match at %s\n", m.Address)
			}
		}
	}
	if res != nil && !all {
		for _, m := range res.Replacements {
			fmt.Fprintf(out, "replaced at %s\n", m.Address)
		}
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch {
	case res.Cancelled:
		fmt.Fprintf(out, "search cancelled after %d matches\n", len(res.Matches))
	case !res.Found() && len(res.Replacements) == 0:
		fmt.Fprintln(out, "no match")
	default:
		fmt.Fprintf(out, "%d matches, %d replaced\n", len(res.Matches), len(res.Replacements))
	}
	return nil
}
