package rag

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	badgerindex "github.com/Marcelele-0/AI-upskilling/index/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcelele-0/AI-upskilling/ai/mock"
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/index"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
)

// newQuietLogger builds a telemetry logger that discards local output.
func newQuietLogger(t *testing.T) *telemetry.Logger {
	t.Helper()

	logger, err := telemetry.NewLogger(
		telemetry.WithLocal(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

// newSeededIndex builds an in-memory index holding three documents whose
// similarity against the query vector [1, 0, 0] is 0.95, 0.87 and 0.82.
func newSeededIndex(t *testing.T) index.Index {
	t.Helper()

	store, err := badgerindex.OpenMemory(badgerindex.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	err = store.Upsert(context.Background(),
		index.Document{ExternalID: "doc1", Content: "AI is artificial intelligence.", Vector: []float32{0.95, 0, 0}},
		index.Document{ExternalID: "doc2", Content: "Machine learning is a subset of AI.", Vector: []float32{0.87, 0, 0}},
		index.Document{ExternalID: "doc3", Content: "Neural networks power deep learning.", Vector: []float32{0.82, 0, 0}},
	)
	require.NoError(t, err)
	return store
}

// unitQueryEmbedder makes the mock embedder return the axis vector that the
// seeded index documents were embedded against.
func unitQueryEmbedder(embedder *mock.MockEmbedder) {
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
}

// failingIndex fails every search; upserts are not used in tests.
type failingIndex struct {
	err error
}

func (f *failingIndex) Search(context.Context, []float32, int) ([]core.RetrievedDocument, error) {
	return nil, f.err
}

func (f *failingIndex) Upsert(context.Context, ...index.Document) error { return f.err }
func (f *failingIndex) Close() error                                    { return nil }

// nilResultIndex returns a nil slice with no error.
type nilResultIndex struct{}

func (nilResultIndex) Search(context.Context, []float32, int) ([]core.RetrievedDocument, error) {
	return nil, nil
}

func (nilResultIndex) Upsert(context.Context, ...index.Document) error { return nil }
func (nilResultIndex) Close() error                                    { return nil }

func TestRetriever_RanksByDescendingSimilarity(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	unitQueryEmbedder(embedder)
	retriever := NewRetriever(embedder, newSeededIndex(t), newQuietLogger(t))

	docs := retriever.Retrieve(context.Background(), "What is AI?", 3)

	require.Len(t, docs, 3)
	assert.Equal(t, "doc1", docs[0].ID)
	assert.Equal(t, "doc2", docs[1].ID)
	assert.Equal(t, "doc3", docs[2].ID)
	assert.InDelta(t, 0.95, docs[0].Score, 1e-6)
	assert.InDelta(t, 0.87, docs[1].Score, 1e-6)
	assert.InDelta(t, 0.82, docs[2].Score, 1e-6)
}

func TestRetriever_TruncatesToTopK(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	unitQueryEmbedder(embedder)
	retriever := NewRetriever(embedder, newSeededIndex(t), newQuietLogger(t))

	docs := retriever.Retrieve(context.Background(), "What is AI?", 2)

	require.Len(t, docs, 2)
	assert.Equal(t, "doc1", docs[0].ID)
	assert.Equal(t, "doc2", docs[1].ID)
}

func TestRetriever_EmbeddingFailureDegradesToEmpty(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}
	retriever := NewRetriever(embedder, newSeededIndex(t), newQuietLogger(t))

	docs := retriever.Retrieve(context.Background(), "What is AI?", 3)

	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestRetriever_SearchFailureDegradesToEmpty(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	idx := &failingIndex{err: errors.New("index corrupted")}
	retriever := NewRetriever(embedder, idx, newQuietLogger(t))

	docs := retriever.Retrieve(context.Background(), "What is AI?", 3)

	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestRetriever_NilSearchResultBecomesEmptySlice(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	retriever := NewRetriever(embedder, nilResultIndex{}, newQuietLogger(t))

	docs := retriever.Retrieve(context.Background(), "anything", 3)

	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestRetriever_MonitorObservesStages(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	unitQueryEmbedder(embedder)
	retriever := NewRetriever(embedder, newSeededIndex(t), newQuietLogger(t))

	monitor := &recordingMonitor{}
	docs := retriever.RetrieveWithMonitor(context.Background(), "What is AI?", 3, monitor)

	require.Len(t, docs, 3)
	assert.Equal(t, 3, monitor.embeddingDims)
	assert.Len(t, monitor.searchDocs, 3)
}
