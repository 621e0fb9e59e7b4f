package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/memsearch/core"
	"github.com/poiesic/memsearch/phrase"
	"github.com/poiesic/memsearch/provider/memory"
	"github.com/poiesic/memsearch/session"
	"github.com/poiesic/memsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type harness struct {
	t     *testing.T
	db    string
	image string
}

func newHarness(t *testing.T, image []byte) *harness {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(path, image, 0644))
	return &harness{t: t, db: filepath.Join(dir, "db"), image: path}
}

// run executes the app with args after the global flags and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	full := append([]string{"memsearch", "--log-level", "error", "--db", h.db}, args...)
	err := app.Run(full)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err)
	return out
}

func TestImportAndList(t *testing.T) {
	h := newHarness(t, []byte("findTARGETtext!\x00"))

	out := h.mustRun("import", "--name", "core", "--base", "0x1000", h.image)
	assert.Contains(t, out, "imported core: 16 words at 0x1000")

	out = h.mustRun("snapshots")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "core")
	assert.Contains(t, out, "8BE")

	out = h.mustRun("delete", "core")
	assert.Contains(t, out, "deleted core")
	out = h.mustRun("snapshots")
	assert.NotContains(t, out, "core")
}

func TestImport_Errors(t *testing.T) {
	h := newHarness(t, []byte{1, 2, 3})

	_, err := h.run("import", "--name", "odd", "--word-size", "2", h.image)
	assert.Error(t, err)

	_, err = h.run("import", "--name", "x")
	assert.ErrorContains(t, err, "image file is required")

	_, err = h.run("import", h.image)
	assert.ErrorContains(t, err, "name")
}

func TestFindAndFindNext(t *testing.T) {
	h := newHarness(t, []byte("TARGET..TARGET.."))
	h.mustRun("import", "--name", "core", "--base", "0x1000", h.image)

	out := h.mustRun("find", "--snapshot", "core", "TARGET")
	assert.Contains(t, out, "match at 0x1000")
	assert.Contains(t, out, "1 matches, 0 replaced")

	out = h.mustRun("find-next", "--snapshot", "core")
	assert.Contains(t, out, "match at 0x1008")

	out = h.mustRun("find-next", "--snapshot", "core")
	assert.Contains(t, out, "no match")

	out = h.mustRun("find-next", "--snapshot", "core")
	assert.Contains(t, out, "nothing to continue")
}

func TestFind_BackwardIgnoreCase(t *testing.T) {
	h := newHarness(t, []byte("target..TARGET.."))
	h.mustRun("import", "--name", "core", h.image)

	out := h.mustRun("find", "--snapshot", "core", "--backward", "-i", "Target")
	assert.Contains(t, out, "match at 0x8")
}

func TestFindAll_Formats(t *testing.T) {
	h := newHarness(t, []byte{0x00, 0xFF, 0x10, 0xFF, 0x10, 0x00})
	h.mustRun("import", "--name", "core", h.image)

	out := h.mustRun("find-all", "--snapshot", "core", "--format", "bytes", "0xff 0x10")
	assert.Contains(t, out, "match at 0x1\n")
	assert.Contains(t, out, "match at 0x3\n")
	assert.Contains(t, out, "2 matches")

	out = h.mustRun("find-all", "--snapshot", "core", "--format", "hex", "0xFF10")
	assert.Contains(t, out, "2 matches")

	out = h.mustRun("find-all", "--snapshot", "core", "--start", "0x2", "--end", "0x5", "--format", "hex", "FF10")
	assert.Contains(t, out, "match at 0x3\n")
	assert.Contains(t, out, "1 matches")
}

func TestReport_ListsDroppedMatches(t *testing.T) {
	words := core.WordSpec{Size: 1, BigEndian: true}
	img, err := memory.New(0, words, []byte("aaaaaaaaa"))
	require.NoError(t, err)
	repo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	s, err := session.New("report", img, repo, session.WithEventBuffer(2))
	require.NoError(t, err)
	defer s.Release()

	job, err := s.Find(context.Background(), session.Query{
		Range:     core.AddressRange{Start: 0, End: 8},
		Direction: core.Forward,
		Mode:      core.FindAll,
		Phrase:    phrase.Ascii("a", false),
		WordSpec:  words,
	})
	require.NoError(t, err)
	<-job.Done()
	require.Positive(t, job.Dropped())

	var out bytes.Buffer
	require.NoError(t, report(&out, job))
	for addr := core.Address(0); addr <= 8; addr++ {
		assert.Equal(t, 1, strings.Count(out.String(), "match at "+addr.String()+"\n"), "address %s", addr)
	}
	assert.Contains(t, out.String(), "9 matches, 0 replaced")
}

func TestReplaceAll(t *testing.T) {
	h := newHarness(t, []byte("cat dog cat dog!"))
	h.mustRun("import", "--name", "core", h.image)

	out := h.mustRun("replace-all", "--snapshot", "core", "--with", "cow", "dog")
	assert.Contains(t, out, "2 matches, 2 replaced")

	out = h.mustRun("find-all", "--snapshot", "core", "cow")
	assert.Contains(t, out, "2 matches")
	out = h.mustRun("find", "--snapshot", "core", "dog")
	assert.Contains(t, out, "no match")
}

func TestReplaceFind(t *testing.T) {
	h := newHarness(t, []byte("xxABxxABxx"))
	h.mustRun("import", "--name", "core", h.image)

	out := h.mustRun("replace-find", "--snapshot", "core", "--with", "CD", "--progress", "AB")
	assert.Contains(t, out, "replaced at 0x2")
	assert.Contains(t, out, "match at 0x6")
	assert.Contains(t, out, "1 matches, 1 replaced")
}

func TestReplace_WithFormat(t *testing.T) {
	h := newHarness(t, []byte("xxABxx"))
	h.mustRun("import", "--name", "core", h.image)

	out := h.mustRun("replace", "--snapshot", "core", "--with", "0x41 0x41", "--with-format", "bytes", "AB")
	assert.Contains(t, out, "replaced at 0x2")

	out = h.mustRun("find", "--snapshot", "core", "AA")
	assert.Contains(t, out, "match at 0x2")
}

func TestSearch_Errors(t *testing.T) {
	h := newHarness(t, []byte("abc"))
	h.mustRun("import", "--name", "core", h.image)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no target", args: []string{"find", "abc"}, want: "--snapshot or --pid"},
		{name: "two targets", args: []string{"find", "--snapshot", "core", "--pid", "1", "abc"}, want: "mutually exclusive"},
		{name: "no phrase", args: []string{"find", "--snapshot", "core"}, want: "phrase is required"},
		{name: "bad format", args: []string{"find", "--snapshot", "core", "--format", "base64", "abc"}, want: "unknown format"},
		{name: "missing snapshot", args: []string{"find", "--snapshot", "nope", "abc"}, want: "not found"},
		{name: "pid without range", args: []string{"find", "--pid", "1", "abc"}, want: "--start is required"},
		{name: "replacement required", args: []string{"replace", "--snapshot", "core", "abc"}, want: "with"},
		{name: "bad address", args: []string{"find", "--snapshot", "core", "--start", "xyz", "abc"}, want: "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	h := newHarness(t, []byte{0})

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run([]string{"memsearch", "--log-level", "loud", "--db", h.db, "snapshots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		app := newApp()
		app.Writer = io.Discard
		err := app.Run([]string{"memsearch", "--log-level", level, "--db", h.db, "snapshots"})
		require.NoError(t, err, level)
	}
}

func TestSearchCommandFlags(t *testing.T) {
	app := newApp()

	find := commandNamed(t, app, "find")
	assert.Nil(t, flagNamed(find, "with"), "find takes no replacement")

	replace := commandNamed(t, app, "replace")
	with, ok := flagNamed(replace, "with").(*cli.StringFlag)
	require.True(t, ok)
	assert.True(t, with.Required)

	format, ok := flagNamed(find, "format").(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "ascii", format.Value)

	prefetch, ok := flagNamed(find, "prefetch").(*cli.IntFlag)
	require.True(t, ok)
	assert.Equal(t, 20*1024, prefetch.Value)
}

func commandNamed(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, c := range app.Commands {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no command %q", name)
	return nil
}

func flagNamed(c *cli.Command, name string) cli.Flag {
	for _, f := range c.Flags {
		if f.Names()[0] == name {
			return f
		}
	}
	return nil
}
