package placecache

import (
	"context"

	"tripwise/internal/logger"
	"tripwise/internal/types"
)

// PlaceSearcher is the live search provider being decorated.
type PlaceSearcher interface {
	NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.Candidate, error)
	TextSearch(ctx context.Context, name string) (types.Candidate, error)
}

// CachingSearcher remembers every nearby result so later name lookups resolve without
// another provider call, and serves TextSearch through the Store.
type CachingSearcher struct {
	next  PlaceSearcher
	store *Store
	log   logger.Logger
}

func NewCachingSearcher(next PlaceSearcher, store *Store, log logger.Logger) *CachingSearcher {
	return &CachingSearcher{next: next, store: store, log: log}
}

func (s *CachingSearcher) NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.Candidate, error) {
	out, err := s.next.NearbySearch(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.store.Remember(ctx, out); err != nil {
		s.log.Warn("remember nearby results failed", map[string]interface{}{"count": len(out), "error": err.Error()})
	}
	return out, nil
}

func (s *CachingSearcher) TextSearch(ctx context.Context, name string) (types.Candidate, error) {
	return s.store.Lookup(ctx, name)
}
