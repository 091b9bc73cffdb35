package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the next failIncr increments and failDelete deletes.
type flakyStore struct {
	Store
	failIncr   int
	failDelete int
	sets       int
}

var errRedisDown = errors.New("redis down")

func (s *flakyStore) Incr(ctx context.Context, key string) (int64, error) {
	if s.failIncr > 0 {
		s.failIncr--
		return 0, errRedisDown
	}
	return s.Store.Incr(ctx, key)
}

func (s *flakyStore) Delete(ctx context.Context, keys ...string) error {
	if s.failDelete > 0 {
		s.failDelete--
		return errRedisDown
	}
	return s.Store.Delete(ctx, keys...)
}

func (s *flakyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.sets++
	return s.Store.Set(ctx, key, value, ttl)
}

// source is a loader over a mutable slice that counts its calls.
type source struct {
	items []item
	loads int
	hook  func()
}

func (s *source) load(context.Context) ([]item, error) {
	s.loads++
	snapshot := append([]item{}, s.items...)
	if s.hook != nil {
		hook := s.hook
		s.hook = nil
		hook()
	}
	return snapshot, nil
}

func TestLists_ServesCurrentGeneration(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	lists := NewLists(store, time.Minute, nil)
	src := &source{items: []item{{ID: 1, Name: "Finance"}}}

	for range 2 {
		got, err := Fetch(ctx, lists, KeyAreas, src.load)
		require.NoError(t, err)
		assert.Equal(t, src.items, got)
	}
	assert.Equal(t, 1, src.loads)

	src.items = append(src.items, item{ID: 2, Name: "Sales"})
	require.NoError(t, lists.Invalidate(ctx, KeyAreas))

	got, err := Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, src.loads)
}

func TestLists_EmptyListIsCached(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	lists := NewLists(store, time.Minute, nil)
	src := &source{items: []item{}}

	for range 2 {
		got, err := Fetch(ctx, lists, KeyRoles, src.load)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Equal(t, 1, src.loads)
}

func TestLists_FillOverlappingAWriteIsDiscarded(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	lists := NewLists(store, time.Minute, nil)
	src := &source{items: []item{{ID: 1, Name: "Finance"}}}

	// A write commits and invalidates after the loader has read its rows.
	src.hook = func() {
		src.items = append(src.items, item{ID: 2, Name: "Sales"})
		require.NoError(t, lists.Invalidate(ctx, KeyAreas))
	}

	got, err := Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, src.loads)
}

func TestLists_LateFillUnderOldGenerationIsIgnored(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	lists := NewLists(store, time.Minute, nil)

	// An entry written under generation 0 after the bump to 1 landed.
	require.NoError(t, lists.Invalidate(ctx, KeyAreas))
	require.NoError(t, store.Set(ctx, KeyAreas, `{"gen":0,"items":[{"ID":1,"Name":"Finance"}]}`, time.Minute))

	src := &source{items: []item{{ID: 1, Name: "Finance"}, {ID: 2, Name: "Sales"}}}
	got, err := Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, src.loads)
}

func TestLists_FailedBumpIsRetriedBeforeServing(t *testing.T) {
	redisStore, _ := newTestStore(t)
	store := &flakyStore{Store: redisStore}
	ctx := context.Background()
	lists := NewLists(store, time.Minute, nil)
	src := &source{items: []item{{ID: 1, Name: "Finance"}}}

	_, err := Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)

	src.items = append(src.items, item{ID: 2, Name: "Sales"})
	store.failIncr, store.failDelete = 1, 1
	require.ErrorIs(t, lists.Invalidate(ctx, KeyAreas), errRedisDown)
	assert.True(t, lists.Pending(KeyAreas))

	got, err := Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.False(t, lists.Pending(KeyAreas))
}

func TestLists_ReadsThroughWhileBumpKeepsFailing(t *testing.T) {
	redisStore, _ := newTestStore(t)
	store := &flakyStore{Store: redisStore}
	ctx := context.Background()
	lists := NewLists(store, time.Minute, nil)
	src := &source{items: []item{{ID: 1, Name: "Finance"}}}

	_, err := Fetch(ctx, lists, KeyAreas, src.load)
	require.NoError(t, err)
	require.Equal(t, 1, store.sets)

	src.items = append(src.items, item{ID: 2, Name: "Sales"})
	store.failIncr, store.failDelete = 10, 10
	require.Error(t, lists.Invalidate(ctx, KeyAreas))

	for range 2 {
		got, err := Fetch(ctx, lists, KeyAreas, src.load)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	assert.Equal(t, 3, src.loads)
	assert.Equal(t, 1, store.sets)
	assert.True(t, lists.Pending(KeyAreas))
}

func TestLists_NopStoreAlwaysLoads(t *testing.T) {
	ctx := context.Background()
	lists := NewLists(nil, 0, nil)
	src := &source{items: []item{{ID: 1, Name: "Finance"}}}

	for range 2 {
		_, err := Fetch(ctx, lists, KeyAreas, src.load)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.loads)
	assert.NoError(t, lists.Invalidate(ctx, KeyAreas))
}
