package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffkit/staff-admin/internal/cache"
	"github.com/staffkit/staff-admin/internal/events"
)

type recordingStore struct {
	cache.Nop
	deleted [][]string
	bumped  []string
	err     error
}

func (s *recordingStore) Incr(_ context.Context, key string) (int64, error) {
	s.bumped = append(s.bumped, strings.TrimPrefix(key, "gen:"))
	return int64(len(s.bumped)), s.err
}

func (s *recordingStore) Delete(_ context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys)
	return s.err
}

func TestCacheWorker_InvalidatesAffectedLists(t *testing.T) {
	tests := []struct {
		event events.EventType
		want  []string
	}{
		{events.EventAreaCreated, []string{cache.KeyAreas}},
		{events.EventAreaUpdated, []string{cache.KeyAreas, cache.KeyEmployees}},
		{events.EventRoleDeleted, []string{cache.KeyRoles}},
		{events.EventEmployeeUpdated, []string{cache.KeyEmployees}},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			store := &recordingStore{}
			d := events.NewInMemoryDispatcher()
			StartCacheInvalidationWorker(d, cache.NewLists(store, time.Minute, nil), zap.NewNop())

			require.NoError(t, d.Publish(context.Background(), events.NewEvent(tt.event, 1, nil)))
			assert.Equal(t, [][]string{tt.want}, store.deleted)
			assert.ElementsMatch(t, tt.want, store.bumped)
		})
	}
}

func TestCacheWorker_EveryEventTypeIsCovered(t *testing.T) {
	for _, eventType := range events.AllTypes {
		assert.Contains(t, staleKeys, eventType)
	}
}

func TestCacheWorker_FailureLeavesKeyPending(t *testing.T) {
	store := &recordingStore{err: errors.New("redis down")}
	lists := cache.NewLists(store, time.Minute, nil)
	d := events.NewInMemoryDispatcher()
	StartCacheInvalidationWorker(d, lists, zap.NewNop())

	err := d.Publish(context.Background(), events.Event{Type: events.EventRoleCreated, Timestamp: time.Now()})
	assert.Error(t, err)
	assert.True(t, lists.Pending(cache.KeyRoles))
	assert.False(t, lists.Pending(cache.KeyAreas))
}
