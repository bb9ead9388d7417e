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


package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/Marcelele-0/AI-upskilling/ai"
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/index"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
)

const pipelineFailureFormat = "Przepraszam, wystąpił błąd podczas przetwarzania zapytania: %s"

// Pipeline sequences retrieval and answer generation for one question at a
// time. It is an explicitly constructed service object: create it once at
// startup and share it across requests; Ask is safe for concurrent use.
type Pipeline struct {
	retriever *Retriever
	answerer  *Answerer
	logger    *telemetry.Logger
	monitor   PipelineMonitor
	topK      int
	timeout   time.Duration

	ownsLogger bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets the telemetry logger.
// Default is a fresh local-only logger.
func WithLogger(logger *telemetry.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
			p.ownsLogger = false
		}
		return nil
	}
}

// WithTopK sets the default number of documents retrieved per question,
// used when a request does not carry its own limit.
func WithTopK(topK int) Option {
	return func(p *Pipeline) error {
		if topK < 1 {
			return ErrInvalidTopK
		}
		p.topK = topK
		return nil
	}
}

// WithTimeout bounds each request's external calls with a deadline.
// Expiry inside a stage is treated like any other call failure and takes
// that stage's degrade path. Default is no deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		p.timeout = timeout
		return nil
	}
}

// WithMonitor sets a monitor receiving stage callbacks for every request.
func WithMonitor(monitor PipelineMonitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// New creates a query pipeline over the given AI provider and similarity
// index.
func New(provider ai.Provider, idx index.Index, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	p := &Pipeline{
		monitor: &noopMonitor{},
		topK:    core.DefaultTopK,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.logger == nil {
		logger, err := telemetry.NewLogger()
		if err != nil {
			return nil, err
		}
		p.logger = logger
		p.ownsLogger = true
	}

	p.retriever = NewRetriever(provider.Embedder(), idx, p.logger)
	p.answerer = NewAnswerer(provider.Generator(), p.logger)
	return p, nil
}

// Close releases the pipeline's own resources. A logger supplied through
// WithLogger stays open; its lifecycle belongs to the caller.
func (p *Pipeline) Close() error {
	if p.ownsLogger {
		return p.logger.Close()
	}
	return nil
}

// Ask answers a question: retrieve relevant documents, generate an answer
// from them, and assemble the response envelope. It never panics and never
// returns an error; every failure mode degrades to a structurally valid
// Response.
func (p *Pipeline) Ask(ctx context.Context, req core.Request) (resp core.Response) {
	start := time.Now()
	if req.TopK == 0 {
		req.TopK = p.topK
	}
	req.Normalize()

	ctx, traceID := telemetry.WithTraceID(ctx, req.TraceID)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	// Boundary catch-all: whatever escapes the stages still yields a valid
	// degraded envelope.
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			resp = p.failureResponse(ctx, req, traceID, err, time.Since(start))
		}
	}()

	if err := req.Validate(); err != nil {
		p.logger.Warn(ctx, "rejecting invalid request", "err", err)
		return p.failureResponse(ctx, req, traceID, err, time.Since(start))
	}

	p.monitor.Start(req.Query)
	p.logger.Info(ctx, "processing RAG query", "query_length", len(req.Query))

	retrieveStart := time.Now()
	docs := p.retriever.RetrieveWithMonitor(ctx, req.Query, req.TopK, p.monitor)
	retrieveDuration := time.Since(retrieveStart)

	p.logger.Info(ctx, "document retrieval completed",
		"documents_found", len(docs),
		"retrieve_duration_seconds", retrieveDuration.Seconds(),
	)

	generateStart := time.Now()
	answer := p.answerer.GenerateWithMonitor(ctx, req.Query, docs, p.monitor)
	generateDuration := time.Since(generateStart)

	p.logger.Info(ctx, "answer generation completed",
		"answer_length", len(answer),
		"generate_duration_seconds", generateDuration.Seconds(),
	)

	total := time.Since(start)
	resp = core.Response{
		Question:              req.Query,
		Answer:                answer,
		Sources:               docs,
		SourceCount:           len(docs),
		TraceID:               traceID,
		ProcessingTimeSeconds: total.Seconds(),
		Performance: &core.Performance{
			RetrieveDuration: retrieveDuration.Seconds(),
			GenerateDuration: generateDuration.Seconds(),
			TotalDuration:    total.Seconds(),
		},
	}

	p.logger.Info(ctx, "RAG processing completed successfully",
		"total_duration_seconds", total.Seconds(),
		"source_count", len(docs),
	)
	p.logger.Event(ctx, "rag_query_processed",
		map[string]any{
			"query_length": len(req.Query),
			"source_count": len(docs),
			"success":      true,
		},
		map[string]float64{
			"total_duration_seconds":    total.Seconds(),
			"retrieve_duration_seconds": retrieveDuration.Seconds(),
			"generate_duration_seconds": generateDuration.Seconds(),
		},
	)

	p.monitor.Finish(&resp)
	return resp
}

// failureResponse builds the degraded envelope for failures that were not
// absorbed inside a stage.
func (p *Pipeline) failureResponse(ctx context.Context, req core.Request, traceID string, err error, elapsed time.Duration) core.Response {
	p.logger.Exception(ctx, "error in RAG processing", err,
		"query", truncate(req.Query, 100),
		"duration_seconds", elapsed.Seconds(),
	)
	p.logger.Event(ctx, "rag_query_error",
		map[string]any{
			"error_message": err.Error(),
			"query_length":  len(req.Query),
		},
		map[string]float64{
			"duration_seconds": elapsed.Seconds(),
		},
	)

	resp := core.Response{
		Question:              req.Query,
		Answer:                fmt.Sprintf(pipelineFailureFormat, err),
		Sources:               []core.RetrievedDocument{},
		SourceCount:           0,
		TraceID:               traceID,
		ProcessingTimeSeconds: elapsed.Seconds(),
		Error:                 err.Error(),
	}
	p.monitor.Finish(&resp)
	return resp
}
