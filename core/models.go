package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored documents.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RetrievedDocument is a single document returned by the similarity index.
// Documents are immutable and ordered by descending score as returned by
// the index.
type RetrievedDocument struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// Request describes one RAG question.
// TraceID is optional; when empty a fresh correlation id is generated at the
// pipeline boundary.
type Request struct {
	Query   string `json:"question"`
	TopK    int    `json:"top_k,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// Performance breaks down where a request spent its time, in seconds.
type Performance struct {
	RetrieveDuration float64 `json:"retrieve_duration"`
	GenerateDuration float64 `json:"generate_duration"`
	TotalDuration    float64 `json:"total_duration"`
}

// Response is the complete RAG answer envelope.
// SourceCount always equals len(Sources). Error is set only when an
// unanticipated failure was absorbed at the pipeline boundary; degraded
// stage results (empty sources, apology answers) do not set it.
type Response struct {
	Question              string              `json:"question"`
	Answer                string              `json:"answer"`
	Sources               []RetrievedDocument `json:"sources"`
	SourceCount           int                 `json:"source_count"`
	TraceID               string              `json:"trace_id"`
	ProcessingTimeSeconds float64             `json:"processing_time_seconds"`
	Performance           *Performance        `json:"performance,omitempty"`
	Error                 string              `json:"error,omitempty"`
}
