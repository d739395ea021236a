package model

// =====================================================
// WEBHOOK EVENT OUTCOMES
// =====================================================
const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
)

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeVerificationFailed = "WHK001"
	ErrCodeUnknownTransaction = "WHK002"
	ErrCodeInvalidTransition  = "WHK003"
	ErrCodeUnparseablePayload = "WHK004"
	ErrCodeProcessingFailed   = "WHK005"
)
