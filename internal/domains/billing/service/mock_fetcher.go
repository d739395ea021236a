package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/shopspring/decimal"

	"payhub-backend/internal/domains/billing/model"
)

// MockBillFetcher fabricates deterministic bills for development and
// tests. The amount is derived from the subscriber key so repeated
// lookups agree.
type MockBillFetcher struct{}

func NewMockBillFetcher() *MockBillFetcher {
	return &MockBillFetcher{}
}

func (f *MockBillFetcher) FetchBill(ctx context.Context, category, subscriberKey string) (*model.Bill, error) {
	sum := sha256.Sum256([]byte(category + ":" + subscriberKey))
	cents := binary.BigEndian.Uint32(sum[:4]) % 500000 // up to 5000.00

	return &model.Bill{
		Category:      category,
		SubscriberKey: subscriberKey,
		BillerName:    "Mock " + category + " Board",
		Amount:        decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100)),
		DueDate:       time.Now().UTC().AddDate(0, 0, 10).Truncate(24 * time.Hour),
	}, nil
}
