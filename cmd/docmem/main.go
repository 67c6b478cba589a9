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
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("error loading .env: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docmem",
		Usage: "Embed and search document memories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Workspace directory holding one directory per memory",
				Value:   "memory",
				EnvVars: []string{"DOCMEM_ROOT"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to BadgerDB embedding store (default <root>/.store)",
				EnvVars: []string{"DOCMEM_DB"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"DOCMEM_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"DOCMEM_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the embedding service",
				EnvVars: []string{"DOCMEM_API_KEY", "OPENAI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "embed-doc",
				Usage:  "Create embeddings for one document of a memory",
				Action: embedDocCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "memory",
						Aliases: []string{"m"},
						Usage:   "Name of the memory",
					},
					&cli.StringFlag{
						Name:    "document",
						Aliases: []string{"d"},
						Usage:   "Document name, or path relative to the tracked directory",
					},
					&cli.BoolFlag{
						Name:    "overwrite",
						Aliases: []string{"o"},
						Usage:   "Regenerate embeddings even if the document is unchanged",
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Create embeddings for every document of a memory",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "memory",
						Aliases: []string{"m"},
						Usage:   "Name of the memory",
					},
					&cli.BoolFlag{
						Name:    "overwrite",
						Aliases: []string{"o"},
						Usage:   "Regenerate embeddings even if documents are unchanged",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks sent per embedding request",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding requests",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				},
			},
			{
				Name:   "create",
				Usage:  "Create a new memory",
				Action: createCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "memory",
						Aliases:  []string{"m"},
						Usage:    "Name of the memory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "What the memory holds",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Track an existing directory instead of a managed documents folder",
					},
					&cli.StringSliceFlag{
						Name:  "include",
						Usage: "Glob of tracked paths to include (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Glob of tracked paths to exclude (repeatable)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List memories",
				Action: listCommand,
			},
			{
				Name:   "retrieve",
				Usage:  "Search the embedded chunks of a memory",
				Action: retrieveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "memory",
						Aliases:  []string{"m"},
						Usage:    "Name of the memory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Text to search for",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of chunks returned",
						Value:   5,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
