package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/staffkit/staff-admin/internal/cache"
	"github.com/staffkit/staff-admin/internal/events"
	"github.com/staffkit/staff-admin/internal/observability"
	"github.com/staffkit/staff-admin/internal/repository"
	apperrors "github.com/staffkit/staff-admin/pkg/util/errorutil"
)

// Dependencies bundles everything the services need. Lists, Dispatcher,
// Metrics and Logger are optional.
type Dependencies struct {
	AreaRepo     repository.AreaRepository
	RoleRepo     repository.RoleRepository
	EmployeeRepo repository.EmployeeRepository
	Lists        *cache.Lists
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// base carries the cross-cutting collaborators shared by every service.
type base struct {
	lists      *cache.Lists
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func newBase(deps Dependencies) base {
	b := base{
		lists:      deps.Lists,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.lists == nil {
		b.lists = cache.NewLists(nil, 0, b.logger)
	}
	return b
}

// observe records the outcome of op. Input and lookup failures count as
// successful operations; only storage failures count against it.
func (b base) observe(ctx context.Context, op string, start time.Time, err error) {
	success := err == nil || !apperrors.HasCode(err, apperrors.CodeStorage)
	b.metrics.Observe(ctx, op, success, time.Since(start))
}

func (b base) publishEvent(ctx context.Context, event events.Event) {
	if b.dispatcher == nil {
		return
	}
	if err := b.dispatcher.Publish(ctx, event); err != nil {
		b.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// storageError logs err with its operation and hides it behind message.
func (b base) storageError(op, message string, err error) error {
	b.logger.Error("storage failure", zap.String("operation", op), zap.Error(err))
	return apperrors.NewStorageError(message, err)
}

// listCached serves key through the list cache. Cache failures never fail
// the read.
func listCached[T any](ctx context.Context, b base, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	return cache.Fetch(ctx, b.lists, key, load)
}
