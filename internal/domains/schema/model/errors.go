package model

import "errors"

var (
	ErrSchemaNotFound       = errors.New("schema not found")
	ErrNoRateCardConfigured = errors.New("no rate card configured for schema and gateway")
	ErrAmountOutOfRange     = errors.New("amount exceeds gateway maximum")
	ErrNoSlabForAmount      = errors.New("no payout slab covers amount")
	ErrRateCardExists       = errors.New("rate card already exists for schema and gateway")
	ErrDefaultSchemaRace    = errors.New("another default schema was set concurrently")
)

// Slab configuration errors, raised at write time so a broken slab
// layout can never reach the resolver.
var (
	ErrSlabEmptyRange  = errors.New("slab min_amount must be below max_amount")
	ErrSlabGap         = errors.New("slabs must be contiguous")
	ErrSlabNotFromZero = errors.New("first slab must start at 0")
	ErrSlabShortCover  = errors.New("slabs must cover up to the gateway max amount")
)
