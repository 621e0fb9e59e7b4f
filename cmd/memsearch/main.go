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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/memsearch/core"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "memsearch",
		Usage: "Search and patch process memory and stored memory snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				Required: true,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Store a raw memory image as a snapshot",
				ArgsUsage: "FILE",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Snapshot name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "base",
						Usage: "Address of the first word, in hex",
						Value: "0",
					},
					&cli.IntFlag{
						Name:  "word-size",
						Usage: "Bytes per addressable word (1, 2, 4 or 8)",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "little-endian",
						Usage: "Words are stored least significant byte first",
					},
					&cli.Uint64Flag{
						Name:  "page-words",
						Usage: "Words per stored page",
						Value: 4096,
					},
				},
			},
			{
				Name:   "snapshots",
				Usage:  "List stored snapshots",
				Action: listCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a stored snapshot",
				ArgsUsage: "NAME",
				Action:    deleteCommand,
			},
			searchCommand("find", "Find the first match", core.FindFirst),
			searchCommand("find-all", "Find every match", core.FindAll),
			searchCommand("replace", "Replace the first match", core.Replace),
			searchCommand("replace-all", "Replace every match", core.ReplaceAll),
			searchCommand("replace-find", "Replace the first match and find the next one", core.ReplaceThenFind),
			{
				Name:   "find-next",
				Usage:  "Continue the last single-match search",
				Action: findNextCommand,
				Flags:  append(targetFlags(), progressFlag()),
			},
		},
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "snapshot",
			Aliases: []string{"s"},
			Usage:   "Search a stored snapshot",
		},
		&cli.IntFlag{
			Name:    "pid",
			Aliases: []string{"p"},
			Usage:   "Search the memory of a live process",
		},
	}
}

func progressFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "progress",
		Usage: "Report scan progress on stderr",
	}
}

func searchCommand(name, usage string, mode core.Mode) *cli.Command {
	flags := append(targetFlags(),
		&cli.StringFlag{
			Name:  "start",
			Usage: "First address to search, in hex (defaults to the start of a snapshot)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Last address to search, in hex (defaults to the end of a snapshot)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Phrase format (ascii, hex, octal, binary, decimal, bytes)",
			Value:   "ascii",
		},
		&cli.BoolFlag{
			Name:    "ignore-case",
			Aliases: []string{"i"},
			Usage:   "Match ASCII text regardless of case",
		},
		&cli.BoolFlag{
			Name:    "backward",
			Aliases: []string{"b"},
			Usage:   "Scan from the end of the range toward the start",
		},
		&cli.IntFlag{
			Name:  "prefetch",
			Usage: "Words fetched per provider read",
			Value: 20 * 1024,
		},
		progressFlag(),
	)
	if mode.IsReplace() {
		flags = append(flags,
			&cli.StringFlag{
				Name:     "with",
				Aliases:  []string{"w"},
				Usage:    "Replacement data",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "with-format",
				Usage: "Replacement format (defaults to --format)",
			},
		)
	}
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "PHRASE",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			return runSearch(c, mode)
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
