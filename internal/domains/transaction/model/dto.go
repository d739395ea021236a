package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest initiates a payin or payout. The auth layer in
// front of this service supplies the user and schema identities.
type CreatePaymentRequest struct {
	SchemaID    uuid.UUID       `json:"schema_id"`
	GatewayCode string          `json:"gateway_code"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`

	// Optional bill cache key for bill payments.
	BillKey *string `json:"bill_key,omitempty"`
}

func (r CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SchemaID, validation.Required, validation.By(uuidNotNil)),
		validation.Field(&r.GatewayCode, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.In("PAYIN", "PAYOUT")),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3)),
	)
}

func uuidNotNil(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "must be a non-nil UUID")
	}
	return nil
}

// CreatePaymentResponse returns the created transaction together with
// the rate decision so callers can display the fee up front.
type CreatePaymentResponse struct {
	TransactionID    uuid.UUID       `json:"transaction_id"`
	GatewayReference string          `json:"gateway_reference"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	Rate             decimal.Decimal `json:"rate"`
	FeeType          string          `json:"fee_type"`
	Commission       decimal.Decimal `json:"commission"`
}
