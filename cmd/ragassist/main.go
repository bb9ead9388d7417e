// Copyright 2025 The AI-upskilling Authors
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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Marcelele-0/AI-upskilling/ai"
	"github.com/Marcelele-0/AI-upskilling/ai/openai"
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/httpapi"
	"github.com/Marcelele-0/AI-upskilling/index"
	badgerindex "github.com/Marcelele-0/AI-upskilling/index/badger"
	"github.com/Marcelele-0/AI-upskilling/rag"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
)

func main() {
	app := &cli.App{
		Name:  "ragassist",
		Usage: "Retrieval-augmented question answering over a local document index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file before parsing flags",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the question answering HTTP API",
				Action: serveCommand,
				Flags: append(pipelineFlags(),
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address to listen on",
						Value:   ":8080",
						EnvVars: []string{"RAG_LISTEN_ADDR"},
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question and print the response",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append(pipelineFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of documents to retrieve",
						Value: core.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full response envelope as JSON",
					},
				),
			},
			{
				Name:   "chat",
				Usage:  "Interactive question answering session",
				Action: chatCommand,
				Flags: append(pipelineFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of documents to retrieve per question",
						Value: core.DefaultTopK,
					},
				),
			},
			{
				Name:      "seed",
				Usage:     "Embed documents from a JSON file and store them in the index",
				ArgsUsage: "FILE",
				Action:    seedCommand,
				Flags:     pipelineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// pipelineFlags are shared by every command that builds the pipeline.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "index",
			Aliases: []string{"d"},
			Usage:   "Path to the document index directory",
			Value:   "ragassist-index",
			EnvVars: []string{"RAG_INDEX_PATH"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"RAG_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"RAG_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "generation-host",
			Usage:   "Generation service host URL (defaults to embedding-host)",
			EnvVars: []string{"RAG_GENERATION_HOST"},
		},
		&cli.StringFlag{
			Name:    "generation-model",
			Usage:   "Generation model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"RAG_GENERATION_MODEL"},
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Generation sampling temperature",
			Value: 0.1,
		},
		&cli.StringFlag{
			Name:    "telemetry-endpoint",
			Usage:   "Remote telemetry collector URL (optional)",
			EnvVars: []string{"RAG_TELEMETRY_ENDPOINT"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Deadline for external calls per request",
			Value: 60 * time.Second,
		},
	}
}

// runtime bundles the collaborators every command needs.
type runtime struct {
	provider ai.Provider
	store    *badgerindex.Store
	logger   *telemetry.Logger
	pipeline *rag.Pipeline
}

func (r *runtime) Close() {
	if r.pipeline != nil {
		_ = r.pipeline.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
	if r.provider != nil {
		_ = r.provider.Close()
	}
	if r.logger != nil {
		_ = r.logger.Close()
	}
}

func buildRuntime(c *cli.Context, extra ...rag.Option) (*runtime, error) {
	generationHost := c.String("generation-host")
	if generationHost == "" {
		generationHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGenerationHost(generationHost),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithTemperature(c.Float64("temperature")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	store, err := badgerindex.Open(c.String("index"))
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("failed to open document index: %w", err)
	}

	loggerOpts := []telemetry.Option{}
	if endpoint := c.String("telemetry-endpoint"); endpoint != "" {
		loggerOpts = append(loggerOpts, telemetry.WithSink(telemetry.NewHTTPSink(endpoint)))
	}
	logger, err := telemetry.NewLogger(loggerOpts...)
	if err != nil {
		_ = store.Close()
		_ = provider.Close()
		return nil, fmt.Errorf("failed to create telemetry logger: %w", err)
	}

	pipelineOpts := append([]rag.Option{
		rag.WithLogger(logger),
		rag.WithTimeout(c.Duration("timeout")),
	}, extra...)
	pipeline, err := rag.New(provider, store, pipelineOpts...)
	if err != nil {
		_ = logger.Close()
		_ = store.Close()
		_ = provider.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &runtime{
		provider: provider,
		store:    store,
		logger:   logger,
		pipeline: pipeline,
	}, nil
}

func serveCommand(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := c.String("listen")
	handler := httpapi.NewHandler(rt.pipeline, rt.logger)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * c.Duration("timeout"),
	}

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	resp := rt.pipeline.Ask(context.Background(), core.Request{
		Query: question,
		TopK:  c.Int("top-k"),
	})

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResponse(&resp)
	return nil
}

// chatMonitor prints retrieval progress to the console while the user waits.
type chatMonitor struct {
	out io.Writer
}

func (m *chatMonitor) Start(_ string) {
	fmt.Fprintln(m.out, "Szukam dokumentów...")
}

func (m *chatMonitor) AfterEmbedding(_ int) {}

func (m *chatMonitor) AfterSearch(docs []core.RetrievedDocument) {
	fmt.Fprintf(m.out, "Znaleziono %d dokumentów, generuję odpowiedź...\n", len(docs))
}

func (m *chatMonitor) ContextBuilt(_ int) {}

func (m *chatMonitor) ShortCircuit() {
	fmt.Fprintln(m.out, "Brak pasujących dokumentów")
}

func (m *chatMonitor) AfterGeneration(_ int) {}

func (m *chatMonitor) Finish(_ *core.Response) {}

func chatCommand(c *cli.Context) error {
	rt, err := buildRuntime(c, rag.WithMonitor(&chatMonitor{out: os.Stderr}))
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Println("Zadaj pytanie (quit/exit/koniec/q aby zakończyć):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		switch strings.ToLower(question) {
		case "quit", "exit", "koniec", "q":
			return scanner.Err()
		}

		resp := rt.pipeline.Ask(context.Background(), core.Request{
			Query: question,
			TopK:  c.Int("top-k"),
		})
		printResponse(&resp)
	}
	return scanner.Err()
}

// seedDocument is one entry in a seed file: a JSON array of these objects.
type seedDocument struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func seedCommand(c *cli.Context) error {
	filePath := c.Args().First()
	if filePath == "" {
		return fmt.Errorf("seed file is required")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []seedDocument
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("seed file contains no documents")
	}

	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	embedder := rt.provider.Embedder()

	docs := make([]index.Document, 0, len(seeds))
	for i, seed := range seeds {
		if strings.TrimSpace(seed.Content) == "" {
			return fmt.Errorf("document %d has no content", i)
		}
		vector, err := embedder.EmbedText(ctx, seed.Content)
		if err != nil {
			return fmt.Errorf("failed to embed document %d: %w", i, err)
		}
		docs = append(docs, index.Document{
			ExternalID: seed.ID,
			Content:    seed.Content,
			Vector:     vector,
		})
		fmt.Fprintf(os.Stderr, "Embedded %d/%d\r", i+1, len(seeds))
	}
	fmt.Fprintln(os.Stderr)

	if err := rt.store.Upsert(ctx, docs...); err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Stored %d documents in %s\n", len(docs), c.String("index"))
	return nil
}

func printResponse(resp *core.Response) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("PYTANIE: %s\n", resp.Question)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("ODPOWIEDŹ:\n%s\n", resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("ŹRÓDŁA (%d):\n", resp.SourceCount)
		for _, src := range resp.Sources {
			fmt.Printf("  [%.3f] %s\n", src.Score, src.ID)
		}
	}
	fmt.Printf("trace_id=%s czas=%.2fs\n", resp.TraceID, resp.ProcessingTimeSeconds)
	fmt.Println(strings.Repeat("=", 60))
}

func setup(c *cli.Context) error {
	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
