package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qc-dashboard/internal/core/cache"
	"qc-dashboard/internal/features/bulkorders/domain"

	"github.com/google/uuid"
)

// RedisSessionRepository implements ports.SessionRepository on top of the cache.
type RedisSessionRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisSessionRepository creates a new RedisSessionRepository.
func NewRedisSessionRepository(c cache.Cache, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{cache: c, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return "bulk_session:" + id.String()
}

// Save stores the session, refreshing its TTL.
func (r *RedisSessionRepository) Save(ctx context.Context, s *domain.FetchSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.cache.Set(ctx, sessionKey(s.ID), data, r.ttl); err != nil {
		return fmt.Errorf("failed to save session to cache: %w", err)
	}
	return nil
}

// Get loads a session by id.
func (r *RedisSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.FetchSession, error) {
	data, err := r.cache.Get(ctx, sessionKey(id))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var s domain.FetchSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// RedisCompletionCache implements ports.CompletionCache. Only terminal details are stored:
// a visit that is still scheduled or on route can change.
type RedisCompletionCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisCompletionCache creates a new RedisCompletionCache.
func NewRedisCompletionCache(c cache.Cache, ttl time.Duration) *RedisCompletionCache {
	return &RedisCompletionCache{cache: c, ttl: ttl}
}

func completionKey(orderNo string) string {
	return "completion:" + orderNo
}

// GetMany returns the cached details for the order numbers that have them.
func (r *RedisCompletionCache) GetMany(ctx context.Context, orderNos []string) (map[string]domain.CompletionDetails, error) {
	keys := make([]string, len(orderNos))
	for i, no := range orderNos {
		keys[i] = completionKey(no)
	}

	raw, err := r.cache.GetMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.CompletionDetails, len(raw))
	for _, no := range orderNos {
		data, ok := raw[completionKey(no)]
		if !ok {
			continue
		}
		var d domain.CompletionDetails
		if err := json.Unmarshal(data, &d); err != nil {
			continue
		}
		out[no] = d
	}
	return out, nil
}

// Put stores the terminal entries of details.
func (r *RedisCompletionCache) Put(ctx context.Context, details map[string]domain.CompletionDetails) error {
	for no, d := range details {
		if !d.Terminal() {
			continue
		}
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to marshal completion %s: %w", no, err)
		}
		if err := r.cache.Set(ctx, completionKey(no), data, r.ttl); err != nil {
			return err
		}
	}
	return nil
}
