package service

import (
	"context"

	"payhub-backend/internal/domains/billing/model"
)

// BillFetcher talks to the external bill provider. Kept behind an
// interface so tests and development run against a mock.
type BillFetcher interface {
	FetchBill(ctx context.Context, category, subscriberKey string) (*model.Bill, error)
}

// BillService serves bill lookups through the cache.
type BillService interface {
	// Fetch returns the bill for a subscriber. The second return
	// reports whether the bill came from the cache. forceRefresh
	// bypasses the cache and overwrites it with the fresh result.
	Fetch(ctx context.Context, category, subscriberKey string, forceRefresh bool) (*model.Bill, bool, error)

	// InvalidateKey evicts a cached bill by its bill key. Called by the
	// webhook reconciler after a successful bill payment.
	InvalidateKey(ctx context.Context, billKey string) error
}
