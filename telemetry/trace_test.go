package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceID(t *testing.T) {
	t.Run("caller-supplied id kept verbatim", func(t *testing.T) {
		ctx, id := WithTraceID(context.Background(), "abc")
		assert.Equal(t, "abc", id)
		assert.Equal(t, "abc", TraceID(ctx))
	})

	t.Run("empty id generates a fresh one", func(t *testing.T) {
		ctx, id := WithTraceID(context.Background(), "")
		require.NotEmpty(t, id)
		assert.Equal(t, id, TraceID(ctx))
	})

	t.Run("id is scoped to the derived context", func(t *testing.T) {
		parent := context.Background()
		ctx, _ := WithTraceID(parent, "scoped")

		assert.Equal(t, "scoped", TraceID(ctx))
		assert.Empty(t, TraceID(parent))
	})

	t.Run("nested requests do not leak outward", func(t *testing.T) {
		outer, outerID := WithTraceID(context.Background(), "")
		inner, innerID := WithTraceID(outer, "")

		assert.NotEqual(t, outerID, innerID)
		assert.Equal(t, innerID, TraceID(inner))
		assert.Equal(t, outerID, TraceID(outer))
	})
}

func TestTraceID_AbsentContext(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestGenerateTraceID_ConcurrentUniqueness(t *testing.T) {
	const n = 100

	var (
		mu  sync.Mutex
		ids = make(map[string]bool, n)
		wg  sync.WaitGroup
	)

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, id := WithTraceID(context.Background(), "")
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, n, "concurrently generated trace ids must never collide")
}
