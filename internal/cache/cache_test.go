package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := store.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	calls := 0

	compute := func(context.Context) (map[string]int, error) {
		calls++
		return map[string]int{"visits": 42}, nil
	}

	first, err := GetOrCompute(ctx, store, "k", time.Minute, compute)
	assert.NoError(t, err)
	assert.Equal(t, 42, first["visits"])

	second, err := GetOrCompute(ctx, store, "k", time.Minute, compute)
	assert.NoError(t, err)
	assert.Equal(t, 42, second["visits"])
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	calls := 0

	compute := func(context.Context) (int, error) {
		calls++
		return 0, errors.New("query failed")
	}

	_, err := GetOrCompute(ctx, store, "k", time.Minute, compute)
	assert.Error(t, err)

	_, err = GetOrCompute(ctx, store, "k", time.Minute, compute)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
