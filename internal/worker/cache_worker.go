package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/staffkit/staff-admin/internal/cache"
	"github.com/staffkit/staff-admin/internal/events"
)

// staleKeys maps each event to the cached lists it invalidates. Employee
// lists embed the area name, so area changes drop them too.
var staleKeys = map[events.EventType][]string{
	events.EventAreaCreated:     {cache.KeyAreas},
	events.EventAreaUpdated:     {cache.KeyAreas, cache.KeyEmployees},
	events.EventAreaDeleted:     {cache.KeyAreas},
	events.EventRoleCreated:     {cache.KeyRoles},
	events.EventRoleUpdated:     {cache.KeyRoles},
	events.EventRoleDeleted:     {cache.KeyRoles},
	events.EventEmployeeCreated: {cache.KeyEmployees},
	events.EventEmployeeUpdated: {cache.KeyEmployees},
	events.EventEmployeeDeleted: {cache.KeyEmployees},
}

// StartCacheInvalidationWorker subscribes to every domain event and
// invalidates the cached lists it makes stale. Keys whose invalidation fails
// stay pending in lists and bypass the cache until a retry succeeds.
func StartCacheInvalidationWorker(dispatcher events.Dispatcher, lists *cache.Lists, logger *zap.Logger) {
	if dispatcher == nil || lists == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for eventType, keys := range staleKeys {
		dispatcher.Subscribe(eventType, invalidate(lists, keys, logger))
	}
}

func invalidate(lists *cache.Lists, keys []string, logger *zap.Logger) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		if err := lists.Invalidate(ctx, keys...); err != nil {
			logger.Warn("cache invalidation failed",
				zap.String("event", string(event.Type)),
				zap.Strings("keys", keys),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}
