package rag

import (
	"context"
	"time"

	"github.com/Marcelele-0/AI-upskilling/ai"
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/Marcelele-0/AI-upskilling/index"
	"github.com/Marcelele-0/AI-upskilling/telemetry"
)

// Dependency names emitted for the retrieval stage's external calls.
const (
	embeddingDependency = "openai_embeddings"
	searchDependency    = "vector_search"
)

// Retriever turns a query into an embedding, searches the similarity index
// and returns ranked documents.
type Retriever struct {
	embedder ai.Embedder
	index    index.Index
	logger   *telemetry.Logger
}

// NewRetriever creates a retrieval stage over the given embedder and index.
func NewRetriever(embedder ai.Embedder, idx index.Index, logger *telemetry.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    idx,
		logger:   logger,
	}
}

// Retrieve returns up to topK documents relevant to the query, ranked by
// descending similarity. Any failure of the embedding or search call is
// absorbed: it is logged with the current trace id and retrieval degrades
// to an empty result set. Retrieve never returns an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) []core.RetrievedDocument {
	return r.RetrieveWithMonitor(ctx, query, topK, nil)
}

// RetrieveWithMonitor is Retrieve with stage callbacks.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, topK int, monitor PipelineMonitor) []core.RetrievedDocument {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	r.logger.Info(ctx, "starting document retrieval",
		"top_k", topK,
		"query_length", len(query),
	)

	docs, err := r.retrieve(ctx, query, topK, monitor)
	if err != nil {
		r.logger.Exception(ctx, "error retrieving documents", err)
		return []core.RetrievedDocument{}
	}

	r.logger.Debug(ctx, "successfully retrieved documents", "count", len(docs))
	return docs
}

// retrieve is the fallible inner stage; the exported wrappers apply the
// degradation policy.
func (r *Retriever) retrieve(ctx context.Context, query string, topK int, monitor PipelineMonitor) ([]core.RetrievedDocument, error) {
	// Generate query embedding. Duration is recorded even when the call fails.
	embeddingStart := time.Now()
	vector, err := r.embedder.EmbedText(ctx, query)
	embeddingDuration := time.Since(embeddingStart)

	r.logger.Dependency(ctx, embeddingDependency,
		"generate embedding for: "+truncate(query, 50),
		embeddingDuration, err == nil, resultCode(err))
	if err != nil {
		return nil, &core.DependencyError{Name: embeddingDependency, Command: "embed query", Err: err}
	}

	r.logger.Info(ctx, "query embedding generated",
		"embedding_size", len(vector),
		"embedding_duration_seconds", embeddingDuration.Seconds(),
	)
	monitor.AfterEmbedding(len(vector))

	// Execute vector search. Success means at least one document came back.
	searchStart := time.Now()
	docs, err := r.index.Search(ctx, vector, topK)
	searchDuration := time.Since(searchStart)

	r.logger.Dependency(ctx, searchDependency,
		"search query: "+truncate(query, 50),
		searchDuration, err == nil && len(docs) > 0, resultCode(err))
	if err != nil {
		return nil, &core.DependencyError{Name: searchDependency, Command: "vector search", Err: err}
	}

	if docs == nil {
		docs = []core.RetrievedDocument{}
	}
	monitor.AfterSearch(docs)
	return docs, nil
}

func resultCode(err error) string {
	if err != nil {
		return "500"
	}
	return "200"
}

// truncate shortens s to at most n bytes for log and dependency commands.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
