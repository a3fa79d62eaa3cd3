package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"triviaduel-backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Count int `json:"count"`
}

func newTestStore(t *testing.T) *store.LobbyStore[*record] {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewLobbyStore[*record](rdb)
}

func TestLobbyStore_CreateGetSave(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "l1", &record{Count: 1}, time.Minute))

	err := s.Create(ctx, "l1", &record{Count: 2}, time.Minute)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)

	got.Count = 5
	require.NoError(t, s.Save(ctx, "l1", got))

	got, err = s.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)

	require.NoError(t, s.Delete(ctx, "l1"))
	_, err = s.Get(ctx, "l1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLobbyStore_WithLock_SerializesConcurrentMutations(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, "l1", &record{}, time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.WithLock(ctx, "l1", time.Second, func(r *record) (*record, error) {
				r.Count++
				return r, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.Count)
}

func TestLobbyStore_List(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, "l1", &record{Count: 1}, time.Minute))
	require.NoError(t, s.Create(ctx, "l2", &record{Count: 2}, time.Minute))

	all, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := s.List(ctx, func(r *record) bool { return r.Count == 2 })
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 2, filtered[0].Count)
}
