package codegen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func TestNextCodeIsUniqueAndIncreasing(t *testing.T) {
	gen, err := NewGenerator(1)
	require.NoError(t, err)

	prev := gen.NextCode()
	for i := 0; i < 1000; i++ {
		next := gen.NextCode()
		require.True(t, next.Valid())
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestNextCodeConcurrent(t *testing.T) {
	gen, err := NewGenerator(3)
	require.NoError(t, err)

	const workers, each = 8, 200
	var mu sync.Mutex
	seen := make(map[definition.Code]struct{}, workers*each)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				code := gen.NextCode()
				mu.Lock()
				seen[code] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*each)
}

func TestNewGeneratorRejectsNodeOutOfRange(t *testing.T) {
	_, err := NewGenerator(-1)
	assert.Error(t, err)
	_, err = NewGenerator(1 << 20)
	assert.Error(t, err)
}
