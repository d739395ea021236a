package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payhub-backend/internal/domains/billing/model"
	"payhub-backend/pkg/cache"
)

// =====================================================
// STUBS
// =====================================================

// memoryCache is a map-backed cache for tests. JSON round-trips values
// like the Redis implementation does.
type memoryCache struct {
	cache.Cache

	data    map[string][]byte
	getErr  error
	setErr  error
	sets    int
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, found := m.data[key]
	if !found {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
		m.deletes = append(m.deletes, key)
	}
	return nil
}

type fetcherStub struct {
	bill  *model.Bill
	err   error
	calls int
}

func (f *fetcherStub) FetchBill(ctx context.Context, category, subscriberKey string) (*model.Bill, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.bill
	return &clone, nil
}

func sampleBill() *model.Bill {
	return &model.Bill{
		Category:      "electricity",
		SubscriberKey: "CUST-42",
		BillerName:    "State Power Board",
		Amount:        decimal.RequireFromString("1450.50"),
		DueDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}
}

// =====================================================
// TESTS
// =====================================================

func TestFetch_MissThenHit(t *testing.T) {
	mem := newMemoryCache()
	fetcher := &fetcherStub{bill: sampleBill()}
	svc := NewBillService(fetcher, mem, 15*time.Minute)

	bill, cached, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "1450.50", bill.Amount.StringFixed(2))
	assert.False(t, bill.FetchedAt.IsZero())
	assert.Equal(t, 1, fetcher.calls)

	bill, cached, err = svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "State Power Board", bill.BillerName)
	assert.Equal(t, 1, fetcher.calls, "cache hit must not touch the provider")
}

func TestFetch_ForceRefreshBypassesCache(t *testing.T) {
	mem := newMemoryCache()
	fetcher := &fetcherStub{bill: sampleBill()}
	svc := NewBillService(fetcher, mem, 15*time.Minute)

	_, _, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)

	_, cached, err := svc.Fetch(context.Background(), "electricity", "CUST-42", true)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, 2, mem.sets, "refresh overwrites the cached bill")
}

func TestFetch_EmptyQueryRejected(t *testing.T) {
	svc := NewBillService(&fetcherStub{bill: sampleBill()}, newMemoryCache(), 0)

	_, _, err := svc.Fetch(context.Background(), "", "CUST-42", false)
	assert.ErrorIs(t, err, model.ErrInvalidBillQuery)

	_, _, err = svc.Fetch(context.Background(), "electricity", "", false)
	assert.ErrorIs(t, err, model.ErrInvalidBillQuery)
}

func TestFetch_CacheReadErrorFallsThrough(t *testing.T) {
	mem := newMemoryCache()
	mem.getErr = errors.New("connection refused")
	fetcher := &fetcherStub{bill: sampleBill()}
	svc := NewBillService(fetcher, mem, 15*time.Minute)

	bill, cached, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotNil(t, bill)
	assert.Equal(t, 1, fetcher.calls)
}

func TestFetch_CacheWriteErrorStillReturnsBill(t *testing.T) {
	mem := newMemoryCache()
	mem.setErr = errors.New("connection refused")
	fetcher := &fetcherStub{bill: sampleBill()}
	svc := NewBillService(fetcher, mem, 15*time.Minute)

	bill, cached, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "CUST-42", bill.SubscriberKey)
}

func TestFetch_ProviderFailure(t *testing.T) {
	fetcher := &fetcherStub{err: model.ErrProviderFailure}
	svc := NewBillService(fetcher, newMemoryCache(), 15*time.Minute)

	_, _, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	assert.ErrorIs(t, err, model.ErrProviderFailure)
}

func TestInvalidateKey_EvictsCachedBill(t *testing.T) {
	mem := newMemoryCache()
	fetcher := &fetcherStub{bill: sampleBill()}
	svc := NewBillService(fetcher, mem, 15*time.Minute)

	_, _, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateKey(context.Background(), model.BillKey("electricity", "CUST-42")))
	assert.Equal(t, []string{"bill:electricity:CUST-42"}, mem.deletes)

	_, cached, err := svc.Fetch(context.Background(), "electricity", "CUST-42", false)
	require.NoError(t, err)
	assert.False(t, cached, "invalidated bill must be refetched")
	assert.Equal(t, 2, fetcher.calls)
}
