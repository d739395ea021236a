package model

// =====================================================
// GATEWAY CODES
// =====================================================
const (
	GatewayCashfree = "CASHFREE"
	GatewayRazorpay = "RAZORPAY"
	GatewayRunpaisa = "RUNPAISA"
)

var ValidGateways = []string{
	GatewayCashfree,
	GatewayRazorpay,
	GatewayRunpaisa,
}

// =====================================================
// TRANSACTION TYPES
// =====================================================
const (
	TxnTypePayin  = "PAYIN"
	TxnTypePayout = "PAYOUT"
)

var ValidTxnTypes = []string{
	TxnTypePayin,
	TxnTypePayout,
}

// =====================================================
// FEE TYPES
// =====================================================
// How a configured rate is applied to an amount.
const (
	FeeTypePercentage = "percentage"
	FeeTypeFlat       = "flat"
)

var ValidFeeTypes = []string{
	FeeTypePercentage,
	FeeTypeFlat,
}

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeGatewayNotFound  = "PG001"
	ErrCodeGatewayInactive  = "PG002"
	ErrCodeInvalidGateway   = "PG003"
	ErrCodeAmountOutOfRange = "PG004"
)
