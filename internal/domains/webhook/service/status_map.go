package service

import (
	"encoding/json"
	"fmt"
	"strings"

	gwmodel "payhub-backend/internal/domains/gateway/model"
	txnmodel "payhub-backend/internal/domains/transaction/model"
	"payhub-backend/internal/domains/webhook/model"
)

// =====================================================
// PAYLOAD NORMALIZATION
// =====================================================
// Each gateway pushes its own payload shape and status vocabulary.
// Parsing happens only AFTER signature verification; the raw body used
// for verification is never the product of these structs.

type cashfreePayload struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		Payment struct {
			CFPaymentID   json.Number `json:"cf_payment_id"`
			PaymentStatus string      `json:"payment_status"`
		} `json:"payment"`
	} `json:"data"`
}

type razorpayPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type runpaisaPayload struct {
	MerchantRef string      `json:"merchant_ref"`
	TxnID       string      `json:"txn_id"`
	Status      json.Number `json:"status"`
}

// ParsePayload extracts the gateway reference, event id and native
// status from a verified webhook body.
func ParsePayload(gatewayCode string, rawBody []byte) (*model.NormalizedEvent, error) {
	switch gatewayCode {
	case gwmodel.GatewayCashfree:
		var p cashfreePayload
		if err := json.Unmarshal(rawBody, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUnparseablePayload, err)
		}
		if p.Data.Order.OrderID == "" {
			return nil, fmt.Errorf("%w: missing data.order.order_id", model.ErrUnparseablePayload)
		}
		return &model.NormalizedEvent{
			GatewayCode:      gatewayCode,
			GatewayReference: p.Data.Order.OrderID,
			EventID:          p.Data.Payment.CFPaymentID.String(),
			NativeStatus:     p.Data.Payment.PaymentStatus,
		}, nil

	case gwmodel.GatewayRazorpay:
		var p razorpayPayload
		if err := json.Unmarshal(rawBody, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUnparseablePayload, err)
		}
		entity := p.Payload.Payment.Entity
		if entity.OrderID == "" {
			return nil, fmt.Errorf("%w: missing payload.payment.entity.order_id", model.ErrUnparseablePayload)
		}
		return &model.NormalizedEvent{
			GatewayCode:      gatewayCode,
			GatewayReference: entity.OrderID,
			EventID:          entity.ID,
			NativeStatus:     entity.Status,
		}, nil

	case gwmodel.GatewayRunpaisa:
		var p runpaisaPayload
		if err := json.Unmarshal(rawBody, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrUnparseablePayload, err)
		}
		if p.MerchantRef == "" {
			return nil, fmt.Errorf("%w: missing merchant_ref", model.ErrUnparseablePayload)
		}
		return &model.NormalizedEvent{
			GatewayCode:      gatewayCode,
			GatewayReference: p.MerchantRef,
			EventID:          p.TxnID,
			NativeStatus:     p.Status.String(),
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown gateway %s", model.ErrUnparseablePayload, gatewayCode)
}

// =====================================================
// NATIVE STATUS MAPPING
// =====================================================
// Per-gateway translation from native status vocabulary to the ledger
// state machine. Unknown native statuses map to PROCESSING so an
// unexpected vocabulary addition on the gateway side never flips a
// transaction to a terminal state.

var cashfreeStatusMap = map[string]string{
	"SUCCESS":       txnmodel.StatusSuccess,
	"FAILED":        txnmodel.StatusFailed,
	"USER_DROPPED":  txnmodel.StatusFailed,
	"CANCELLED":     txnmodel.StatusFailed,
	"PENDING":       txnmodel.StatusProcessing,
	"NOT_ATTEMPTED": txnmodel.StatusProcessing,
}

var razorpayStatusMap = map[string]string{
	"captured":   txnmodel.StatusSuccess,
	"failed":     txnmodel.StatusFailed,
	"refunded":   txnmodel.StatusRefunded,
	"authorized": txnmodel.StatusProcessing,
	"created":    txnmodel.StatusProcessing,
}

var runpaisaStatusMap = map[string]string{
	"0": txnmodel.StatusProcessing,
	"1": txnmodel.StatusSuccess,
	"2": txnmodel.StatusFailed,
	"3": txnmodel.StatusRefunded,
}

// MapNativeStatus translates a gateway status into a ledger status.
// The second return reports whether the native status was recognized.
func MapNativeStatus(gatewayCode, nativeStatus string) (string, bool) {
	var table map[string]string
	var key string

	switch gatewayCode {
	case gwmodel.GatewayCashfree:
		table = cashfreeStatusMap
		key = strings.ToUpper(nativeStatus)
	case gwmodel.GatewayRazorpay:
		table = razorpayStatusMap
		key = strings.ToLower(nativeStatus)
	case gwmodel.GatewayRunpaisa:
		table = runpaisaStatusMap
		key = nativeStatus
	default:
		return txnmodel.StatusProcessing, false
	}

	if status, found := table[key]; found {
		return status, true
	}
	return txnmodel.StatusProcessing, false
}
