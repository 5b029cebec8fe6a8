// README: Place cache by exact name; in-process go-cache in front of Redis, text search on miss.
package placecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"tripwise/internal/apperrors"
	"tripwise/internal/logger"
	"tripwise/internal/metrics"
	"tripwise/internal/types"
)

const (
	nameKeyPrefix = "tripwise:place:name:%s"
	// Redis keeps places for a week by default; ratings drift slowly.
	defaultTTL = 7 * 24 * time.Hour
	// The in-process layer only absorbs bursts within one instance.
	memoryTTL = 30 * time.Minute
)

// TextSearcher resolves a place by name against the live provider.
type TextSearcher interface {
	TextSearch(ctx context.Context, name string) (types.Candidate, error)
}

// Store caches candidates keyed by their exact, case-sensitive name.
type Store struct {
	redis  *redis.Client
	mem    *cache.Cache
	search TextSearcher
	ttl    time.Duration
	log    logger.Logger
}

// NewStore returns a Store. redis and search may be nil: without redis the cache is
// process-local, without search a miss is final.
func NewStore(rdb *redis.Client, search TextSearcher, ttl time.Duration, log logger.Logger) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		redis:  rdb,
		mem:    cache.New(min(ttl, memoryTTL), 10*time.Minute),
		search: search,
		ttl:    ttl,
		log:    log,
	}
}

// Lookup returns the place stored under name. On a miss it falls back to text search
// and caches the result under name. Returns a NotFound error when nothing resolves.
func (s *Store) Lookup(ctx context.Context, name string) (types.Candidate, error) {
	key := nameKey(name)

	if v, ok := s.mem.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("memory").Inc()
		return v.(types.Candidate), nil
	}

	if s.redis != nil {
		c, found, err := s.get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("place cache read failed", map[string]interface{}{"name": name, "error": err.Error()})
		case found:
			metrics.CacheLookups.WithLabelValues("redis").Inc()
			s.mem.Set(key, c, cache.DefaultExpiration)
			return c, nil
		}
	}

	if s.search == nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return types.Candidate{}, apperrors.NotFound("place cache", fmt.Sprintf("no cached place named %q", name))
	}

	c, err := s.search.TextSearch(ctx, name)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return types.Candidate{}, err
	}
	metrics.CacheLookups.WithLabelValues("search").Inc()

	if err := s.put(ctx, map[string]types.Candidate{name: c, c.Name: c}); err != nil {
		s.log.Warn("place cache write failed", map[string]interface{}{"name": name, "error": err.Error()})
	}
	return c, nil
}

// Remember caches candidates under their own names.
func (s *Store) Remember(ctx context.Context, candidates []types.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	byName := make(map[string]types.Candidate, len(candidates))
	for _, c := range candidates {
		if c.Name != "" {
			byName[c.Name] = c
		}
	}
	return s.put(ctx, byName)
}

func (s *Store) put(ctx context.Context, byName map[string]types.Candidate) error {
	for name, c := range byName {
		s.mem.Set(nameKey(name), c, cache.DefaultExpiration)
	}
	if s.redis == nil {
		return nil
	}

	pipe := s.redis.Pipeline()
	for name, c := range byName {
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode place %q: %w", name, err)
		}
		pipe.Set(ctx, nameKey(name), raw, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) get(ctx context.Context, key string) (types.Candidate, bool, error) {
	raw, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Candidate{}, false, nil
	}
	if err != nil {
		return types.Candidate{}, false, err
	}
	var c types.Candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return types.Candidate{}, false, fmt.Errorf("decode cached place: %w", err)
	}
	return c, true, nil
}

func nameKey(name string) string {
	return fmt.Sprintf(nameKeyPrefix, name)
}
