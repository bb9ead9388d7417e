package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcelele-0/AI-upskilling/ai/mock"
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/index"
	badgerindex "github.com/Marcelele-0/AI-upskilling/index/badger"
	"github.com/Marcelele-0/AI-upskilling/rag"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger, err := telemetry.NewLogger(telemetry.WithLocal(quiet))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	store, err := badgerindex.OpenMemory(badgerindex.WithLogger(quiet))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	err = store.Upsert(context.Background(),
		index.Document{ExternalID: "doc1", Content: "AI is artificial intelligence.", Vector: []float32{0.95, 0, 0}},
	)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
	pipeline, err := rag.New(provider, store, rag.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pipeline.Close() })

	return NewHandler(pipeline, logger)
}

func TestHandleRAG_GetWithQuestion(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rag?question=What+is+AI%3F", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "What is AI?", resp.Question)
	assert.Equal(t, mock.DefaultMockAnswer, resp.Answer)
	assert.Equal(t, len(resp.Sources), resp.SourceCount)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, resp.TraceID, rec.Header().Get(TraceHeader))
}

func TestHandleRAG_PostWithJSONBody(t *testing.T) {
	handler := newTestHandler(t)

	body := strings.NewReader(`{"question": "What is AI?", "top_k": 1}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rag", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "What is AI?", resp.Question)
	assert.Len(t, resp.Sources, 1)
}

func TestHandleRAG_MissingQuestionReturnsUsage(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rag", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope usageError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Error)
	assert.Contains(t, envelope.Usage, "question")
	assert.NotEmpty(t, envelope.TraceID)
	assert.Equal(t, envelope.TraceID, rec.Header().Get(TraceHeader))
}

func TestHandleRAG_MalformedBodyReturnsUsage(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rag", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRAG_MalformedTopKDoesNotBlameQuestion(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rag?question=What+is+AI%3F&top_k=abc", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope usageError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEqual(t, "Brak pytania w żądaniu", envelope.Error)
	assert.NotEmpty(t, envelope.Error)
	assert.NotEmpty(t, envelope.TraceID)
}

func TestHandleRAG_HonorsTraceHeader(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/rag?question=What+is+AI%3F", nil)
	req.Header.Set(TraceHeader, "trace-from-header")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-from-header", rec.Header().Get(TraceHeader))

	var resp core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "trace-from-header", resp.TraceID)
}

func TestHandleRAG_BodyTraceIDWinsOverHeader(t *testing.T) {
	handler := newTestHandler(t)

	body := strings.NewReader(`{"question": "What is AI?", "trace_id": "trace-from-body"}`)
	req := httptest.NewRequest(http.MethodPost, "/rag", body)
	req.Header.Set(TraceHeader, "trace-from-header")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-from-body", rec.Header().Get(TraceHeader))
}

func TestHandleRAG_RejectsOtherMethods(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/rag", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "ragassist", status["service"])

	_, err := time.Parse(time.RFC3339, status["timestamp"])
	assert.NoError(t, err)
}
