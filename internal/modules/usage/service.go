// README: Monthly agent quota; lazily resets on the first call of a new month.
package usage

import (
	"context"
	"errors"
	"time"
)

type quotaStore interface {
	Consume(ctx context.Context, uid, month string, allowance int) error
	Ensure(ctx context.Context, uid, month string, allowance int) error
	Remaining(ctx context.Context, uid, month string, allowance int) (int, error)
}

// Service meters agent invocations per caller.
type Service struct {
	store     quotaStore
	allowance int
	now       func() time.Time
}

// NewService returns a Service. A non-positive allowance falls back to DefaultMonthlyCalls.
func NewService(store *Store, allowance int) *Service {
	return newService(store, allowance, time.Now)
}

func newService(store quotaStore, allowance int, now func() time.Time) *Service {
	if allowance <= 0 {
		allowance = DefaultMonthlyCalls
	}
	return &Service{store: store, allowance: allowance, now: now}
}

// Consume deducts one call from uid's monthly allowance.
// Returns ErrQuotaExhausted when nothing is left for the current month.
func (s *Service) Consume(ctx context.Context, uid string) error {
	month := s.month()
	err := s.store.Consume(ctx, uid, month, s.allowance)
	if !errors.Is(err, ErrQuotaExhausted) {
		return err
	}

	// Row may be missing: create it, then retry once.
	if err := s.store.Ensure(ctx, uid, month, s.allowance); err != nil {
		return err
	}
	return s.store.Consume(ctx, uid, month, s.allowance)
}

func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid, s.month(), s.allowance)
}

func (s *Service) month() string {
	return s.now().UTC().Format(monthLayout)
}
