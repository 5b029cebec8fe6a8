package usage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	remaining int
	month     string
}

// memStore mirrors the agent_usage UPDATE/INSERT semantics in memory.
type memStore struct {
	mu   sync.Mutex
	rows map[string]row
}

func newMemStore() *memStore { return &memStore{rows: map[string]row{}} }

func (m *memStore) Consume(_ context.Context, uid, month string, allowance int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[uid]
	if !ok || (r.month >= month && r.remaining <= 0) {
		return ErrQuotaExhausted
	}
	if r.month != month {
		r.remaining = allowance
	}
	r.remaining--
	r.month = month
	m.rows[uid] = r
	return nil
}

func (m *memStore) Ensure(_ context.Context, uid, month string, allowance int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[uid]; !ok {
		m.rows[uid] = row{remaining: allowance, month: month}
	}
	return nil
}

func (m *memStore) Remaining(_ context.Context, uid, month string, allowance int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[uid]
	if !ok || r.month < month {
		return allowance, nil
	}
	return r.remaining, nil
}

func fixedClock(ts string) func() time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestConsume_NewCallerIsInitialised(t *testing.T) {
	store := newMemStore()
	svc := newService(store, 3, fixedClock("2026-10-18T09:00:00Z"))
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, "uid-1"))
	left, err := svc.Remaining(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestConsume_ExhaustsWithinMonth(t *testing.T) {
	store := newMemStore()
	svc := newService(store, 2, fixedClock("2026-10-18T09:00:00Z"))
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, "uid-1"))
	require.NoError(t, svc.Consume(ctx, "uid-1"))
	assert.ErrorIs(t, svc.Consume(ctx, "uid-1"), ErrQuotaExhausted)
}

func TestConsume_ResetsOnNewMonth(t *testing.T) {
	store := newMemStore()
	store.rows["uid-1"] = row{remaining: 0, month: "2026-09"}
	svc := newService(store, 5, fixedClock("2026-10-01T00:00:01Z"))
	ctx := context.Background()

	left, err := svc.Remaining(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 5, left)

	require.NoError(t, svc.Consume(ctx, "uid-1"))
	left, err = svc.Remaining(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 4, left)
}

func TestNewService_DefaultAllowance(t *testing.T) {
	svc := newService(newMemStore(), 0, time.Now)
	assert.Equal(t, DefaultMonthlyCalls, svc.allowance)
}
