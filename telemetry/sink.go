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


package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Envelope kinds emitted to a remote sink.
const (
	KindEvent      = "event"
	KindDependency = "dependency"
)

// DependencyData describes one external call inside an Envelope.
type DependencyData struct {
	Command    string  `json:"command"`
	DurationMS float64 `json:"duration_ms"`
	Success    bool    `json:"success"`
	ResultCode string  `json:"result_code"`
}

// Envelope is the wire record shipped to a remote telemetry sink.
type Envelope struct {
	Kind         string             `json:"kind"`
	Time         time.Time          `json:"time"`
	TraceID      string             `json:"trace_id,omitempty"`
	Name         string             `json:"name"`
	Properties   map[string]any     `json:"properties,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
	Dependency   *DependencyData    `json:"dependency,omitempty"`
}

// Sink receives telemetry envelopes. Implementations must be safe for
// concurrent use; callers treat every Track error as non-fatal.
type Sink interface {
	// Track delivers one envelope to the sink.
	Track(e Envelope) error

	// Close flushes and releases the sink.
	Close() error
}

// NopSink discards every envelope. Useful as an explicit stand-in when no
// remote collector is configured.
type NopSink struct{}

var _ Sink = (*NopSink)(nil)

func (*NopSink) Track(_ Envelope) error { return nil }
func (*NopSink) Close() error           { return nil }

const defaultSinkTimeout = 5 * time.Second

// HTTPSink posts envelopes as JSON to a collector endpoint.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

var _ Sink = (*HTTPSink)(nil)

// NewHTTPSink creates a sink that POSTs each envelope to endpoint.
func NewHTTPSink(endpoint string) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultSinkTimeout},
	}
}

// Track posts the envelope. Any transport error or non-2xx status is
// returned to the caller, which is expected to drop it.
func (s *HTTPSink) Track(e Envelope) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry collector returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases idle connections.
func (s *HTTPSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
