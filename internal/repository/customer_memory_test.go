package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerMemoryRepository_RegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerMemoryRepository()

	_, err := repo.Lookup(ctx, 1)
	require.ErrorIs(t, err, entity.ErrNotFound)

	id, err := repo.Register(ctx, 1, "c1", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "c1", id)

	id, err = repo.Register(ctx, 1, "c2", "other@b.co")
	require.NoError(t, err)
	assert.Equal(t, "c1", id)

	got, err := repo.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "c1", got)
}

func TestCustomerMemoryRepository_ConcurrentRegister(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerMemoryRepository()

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Register(ctx, 5, "c"+string(rune('a'+i)), "a@b.co")
			assert.NoError(t, err)
			results[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range results {
		assert.Equal(t, results[0], id)
	}
}
