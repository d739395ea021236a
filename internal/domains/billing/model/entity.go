package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidBillQuery = errors.New("bill category and subscriber key are required")
	ErrProviderFailure  = errors.New("bill provider request failed")
)

// =====================================================
// BILL ENTITY
// =====================================================
// A bill fetched from an external provider (electricity board, DTH
// operator, ...). Cached because providers are slow and rate-limited.
type Bill struct {
	Category      string          `json:"category"`
	SubscriberKey string          `json:"subscriber_key"`
	BillerName    string          `json:"biller_name"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// BillKey is the stable identity of a bill lookup. Stored on bill
// payment transactions so the reconciler can invalidate the cache when
// the payment succeeds.
func BillKey(category, subscriberKey string) string {
	return category + ":" + subscriberKey
}
