package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "hello")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 384)
	assert.Equal(t, 2, embedder.CallCount())
}

func TestMockEmbedder_ConcurrentCallCount(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := embedder.EmbedText(ctx, "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, embedder.CallCount())
}

func TestMockGenerator_ConcurrentCallCount(t *testing.T) {
	generator := NewMockGenerator()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answer, err := generator.GenerateAnswer(ctx, "prompt")
			assert.NoError(t, err)
			assert.Equal(t, DefaultMockAnswer, answer)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, generator.CallCount())
	assert.Equal(t, "prompt", generator.LastPrompt())
}

func TestMockGenerator_Reset(t *testing.T) {
	generator := NewMockGenerator()

	_, err := generator.GenerateAnswer(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, 1, generator.CallCount())

	generator.Reset()
	assert.Zero(t, generator.CallCount())
	assert.Empty(t, generator.LastPrompt())
}
