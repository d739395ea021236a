package model

// =====================================================
// TRANSACTION STATUS
// =====================================================
const (
	StatusInitiated  = "INITIATED"
	StatusProcessing = "PROCESSING"
	StatusSuccess    = "SUCCESS"
	StatusFailed     = "FAILED"
	StatusRefunded   = "REFUNDED"
)

var ValidStatuses = []string{
	StatusInitiated,
	StatusProcessing,
	StatusSuccess,
	StatusFailed,
	StatusRefunded,
}

// allowedTransitions is the ledger state machine:
//
//	INITIATED -> PROCESSING -> SUCCESS | FAILED
//	SUCCESS -> REFUNDED
//
// Any edge not listed here is rejected and leaves the record untouched.
var allowedTransitions = map[string][]string{
	StatusInitiated:  {StatusProcessing},
	StatusProcessing: {StatusSuccess, StatusFailed},
	StatusSuccess:    {StatusRefunded},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status ends webhook-driven processing.
// Further webhook deliveries for a terminal transaction are no-ops.
func IsTerminal(status string) bool {
	return status == StatusSuccess || status == StatusFailed || status == StatusRefunded
}

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeTransactionNotFound = "TXN001"
	ErrCodeInvalidTransition   = "TXN002"
	ErrCodeDuplicateReference  = "TXN003"
	ErrCodeNoRateCard          = "TXN004"
	ErrCodeAmountOutOfRange    = "TXN005"
	ErrCodeGatewayUnsupported  = "TXN006"
	ErrCodeInternalError       = "TXN007"
)
