package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Keys of the cached list views.
const (
	KeyAreas     = "areas"
	KeyRoles     = "roles"
	KeyEmployees = "empleados"
)

// Lists caches whole list views on a Store. Every key has a generation
// counter that Invalidate bumps; an entry is served only while the generation
// it was filled under is still current. A key whose bump failed stays pending
// in this process and reads go straight to the loader until a later bump
// succeeds.
type Lists struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

type listEntry struct {
	Gen   int64           `json:"gen"`
	Items json.RawMessage `json:"items"`
}

// NewLists builds a list cache. A nil store disables caching.
func NewLists(store Store, ttl time.Duration, logger *zap.Logger) *Lists {
	if store == nil {
		store = Nop{}
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lists{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

func generationKey(key string) string { return "gen:" + key }

// Invalidate bumps the generation of every key and drops their entries.
func (l *Lists) Invalidate(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if _, err := l.store.Incr(ctx, generationKey(key)); err != nil {
			l.setPending(key, true)
			errs = append(errs, fmt.Errorf("bump %s: %w", key, err))
			continue
		}
		l.setPending(key, false)
	}
	if err := l.store.Delete(ctx, keys...); err != nil {
		errs = append(errs, fmt.Errorf("drop %v: %w", keys, err))
	}
	return errors.Join(errs...)
}

// Pending reports whether key has an invalidation that has not reached the
// store yet.
func (l *Lists) Pending(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.pending[key]
	return ok
}

func (l *Lists) setPending(key string, pending bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pending {
		l.pending[key] = struct{}{}
	} else {
		delete(l.pending, key)
	}
}

func (l *Lists) generation(ctx context.Context, key string) (int64, error) {
	raw, err := l.store.Get(ctx, generationKey(key))
	if errors.Is(err, ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// lookup returns the raw items stored at key if they belong to gen.
func (l *Lists) lookup(ctx context.Context, key string, gen int64) (json.RawMessage, bool) {
	raw, err := l.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			l.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var entry listEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Gen != gen {
		return nil, false
	}
	return entry.Items, true
}

// fill stores items under gen unless a write bumped the generation while
// they were being loaded.
func (l *Lists) fill(ctx context.Context, key string, gen int64, items any) {
	if l.Pending(key) {
		return
	}
	current, err := l.generation(ctx, key)
	if err != nil || current != gen {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	entry, err := json.Marshal(listEntry{Gen: gen, Items: raw})
	if err != nil {
		return
	}
	if err := l.store.Set(ctx, key, string(entry), l.ttl); err != nil {
		l.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Fetch serves the list at key from the cache or from load, refilling the
// cache afterwards. Cache failures never fail the read.
func Fetch[T any](ctx context.Context, l *Lists, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if l.Pending(key) {
		if err := l.Invalidate(ctx, key); err != nil {
			l.logger.Warn("cache invalidation still failing, reading through", zap.String("key", key), zap.Error(err))
			return load(ctx)
		}
	}

	gen, err := l.generation(ctx, key)
	if err != nil {
		l.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return load(ctx)
	}
	if raw, ok := l.lookup(ctx, key, gen); ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil && items != nil {
			return items, nil
		}
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	l.fill(ctx, key, gen, items)
	return items, nil
}
