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


// Package telemetry provides per-request trace correlation and structured
// event logging for the RAG pipeline.
//
// # Trace context
//
// A correlation id is attached to a context.Context at the request boundary
// with WithTraceID and read back with TraceID. Because the id lives on the
// per-request context rather than in ambient storage, reused goroutines can
// never observe a stale or foreign id; the id's lifetime is exactly the
// lifetime of the derived context.
//
//	ctx, traceID := telemetry.WithTraceID(r.Context(), r.Header.Get("X-Trace-Id"))
//
// # Structured event logger
//
// Logger wraps log/slog and stamps every record with the trace id found on
// the calling context. Beyond leveled records it emits two App-Insights
// style record kinds: custom events (named properties plus numeric
// measurements) and dependency records (one external call's name, command,
// duration and outcome).
//
// Every record is written to the local slog sink unconditionally. A remote
// Sink, when configured, receives event and dependency envelopes
// best-effort: dispatch is asynchronous on a worker pool and sink failures
// are swallowed, so telemetry can never affect the pipeline outcome.
package telemetry
