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

// Package httpapi exposes the question answering pipeline over HTTP.
//
// Two endpoints are served: POST/GET /rag answers questions and GET /health
// reports liveness. Requests may carry an X-Trace-Id header; it is honored
// for correlation and echoed back on the response.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/rag"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
)

// TraceHeader carries the request correlation id.
const TraceHeader = "X-Trace-Id"

const usageMessage = "Proszę podać pytanie w parametrze 'question' lub w body żądania JSON"

// Handler serves the question answering API.
type Handler struct {
	pipeline *rag.Pipeline
	logger   *telemetry.Logger
	mux      *http.ServeMux
}

// NewHandler creates the HTTP handler over a ready pipeline.
func NewHandler(pipeline *rag.Pipeline, logger *telemetry.Logger) *Handler {
	h := &Handler{
		pipeline: pipeline,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("/rag", h.handleRAG)
	h.mux.HandleFunc("/health", h.handleHealth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// usageError is the envelope returned for requests without a usable question.
type usageError struct {
	Error   string `json:"error"`
	Usage   string `json:"usage"`
	TraceID string `json:"trace_id,omitempty"`
}

func (h *Handler) handleRAG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := parseRequest(r)

	// Header trace id wins only when the body carried none.
	if req.TraceID == "" {
		req.TraceID = r.Header.Get(TraceHeader)
	}
	ctx, traceID := telemetry.WithTraceID(r.Context(), req.TraceID)
	req.TraceID = traceID
	w.Header().Set(TraceHeader, traceID)

	if err != nil {
		h.logger.Warn(ctx, "rejecting malformed request", "err", err)
		writeJSON(w, http.StatusBadRequest, usageError{
			Error:   "Nieprawidłowe parametry żądania",
			Usage:   usageMessage,
			TraceID: traceID,
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.logger.Warn(ctx, "rejecting request without question")
		writeJSON(w, http.StatusBadRequest, usageError{
			Error:   "Brak pytania w żądaniu",
			Usage:   usageMessage,
			TraceID: traceID,
		})
		return
	}

	resp := h.pipeline.Ask(ctx, req)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "ragassist",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// parseRequest reads the question from query parameters or, for POST, from
// the JSON body. Query parameters take precedence so curl-style calls stay
// simple.
func parseRequest(r *http.Request) (core.Request, error) {
	var req core.Request

	if r.Method == http.MethodPost && r.Body != nil {
		// A missing or empty body is not an error; the question may sit in
		// the query string.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, err
		}
	}

	params := r.URL.Query()
	if q := params.Get("question"); q != "" {
		req.Query = q
	}
	if raw := params.Get("top_k"); raw != "" {
		topK, err := strconv.Atoi(raw)
		if err != nil {
			return req, err
		}
		req.TopK = topK
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
