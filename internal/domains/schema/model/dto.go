package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateSchemaRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsDefault   bool    `json:"is_default"`
}

func (r CreateSchemaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
	)
}

type SlabInput struct {
	MinAmount decimal.Decimal `json:"min_amount"`
	MaxAmount decimal.Decimal `json:"max_amount"`
	Rate      decimal.Decimal `json:"rate"`
	FeeType   string          `json:"fee_type"`
}

type ConfigureRateCardRequest struct {
	SchemaID uuid.UUID `json:"schema_id"`
	PGID     uuid.UUID `json:"pg_id"`

	PayinRate    decimal.Decimal `json:"payin_rate"`
	PayinFeeType string          `json:"payin_fee_type"`

	PayoutRate    decimal.Decimal `json:"payout_rate"`
	PayoutFeeType string          `json:"payout_fee_type"`

	// Optional payout slabs; empty means the flat payout rate applies.
	Slabs []SlabInput `json:"slabs,omitempty"`
}

func (r ConfigureRateCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SchemaID, validation.Required, validation.By(uuidNotNil)),
		validation.Field(&r.PGID, validation.Required, validation.By(uuidNotNil)),
		validation.Field(&r.PayinFeeType, validation.Required, validation.In("percentage", "flat")),
		validation.Field(&r.PayoutFeeType, validation.Required, validation.In("percentage", "flat")),
	)
}

func uuidNotNil(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "must be a non-nil UUID")
	}
	return nil
}
