package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gwmodel "payhub-backend/internal/domains/gateway/model"
	txnmodel "payhub-backend/internal/domains/transaction/model"
	"payhub-backend/internal/domains/webhook/model"
)

func TestParsePayload_Cashfree(t *testing.T) {
	body := []byte(`{
		"type": "PAYMENT_SUCCESS_WEBHOOK",
		"data": {
			"order": {"order_id": "TXN_AB12"},
			"payment": {"cf_payment_id": 5114910, "payment_status": "SUCCESS"}
		}
	}`)

	evt, err := ParsePayload(gwmodel.GatewayCashfree, body)
	require.NoError(t, err)

	assert.Equal(t, "TXN_AB12", evt.GatewayReference)
	assert.Equal(t, "5114910", evt.EventID)
	assert.Equal(t, "SUCCESS", evt.NativeStatus)
}

func TestParsePayload_Razorpay(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {"id": "pay_29QQoUBi66xm2f", "order_id": "TXN_CD34", "status": "captured"}
			}
		}
	}`)

	evt, err := ParsePayload(gwmodel.GatewayRazorpay, body)
	require.NoError(t, err)

	assert.Equal(t, "TXN_CD34", evt.GatewayReference)
	assert.Equal(t, "pay_29QQoUBi66xm2f", evt.EventID)
	assert.Equal(t, "captured", evt.NativeStatus)
}

func TestParsePayload_Runpaisa(t *testing.T) {
	body := []byte(`{"merchant_ref": "TXN_EF56", "txn_id": "RP991", "status": 1, "secret_key": "s"}`)

	evt, err := ParsePayload(gwmodel.GatewayRunpaisa, body)
	require.NoError(t, err)

	assert.Equal(t, "TXN_EF56", evt.GatewayReference)
	assert.Equal(t, "RP991", evt.EventID)
	assert.Equal(t, "1", evt.NativeStatus)
}

func TestParsePayload_MissingReference(t *testing.T) {
	_, err := ParsePayload(gwmodel.GatewayCashfree, []byte(`{"data":{}}`))
	assert.ErrorIs(t, err, model.ErrUnparseablePayload)

	_, err = ParsePayload(gwmodel.GatewayRunpaisa, []byte(`{"status":1}`))
	assert.ErrorIs(t, err, model.ErrUnparseablePayload)
}

func TestParsePayload_InvalidJSON(t *testing.T) {
	_, err := ParsePayload(gwmodel.GatewayRazorpay, []byte(`not json`))
	assert.ErrorIs(t, err, model.ErrUnparseablePayload)
}

func TestMapNativeStatus(t *testing.T) {
	tests := []struct {
		gateway string
		native  string
		want    string
		mapped  bool
	}{
		{gwmodel.GatewayCashfree, "SUCCESS", txnmodel.StatusSuccess, true},
		{gwmodel.GatewayCashfree, "USER_DROPPED", txnmodel.StatusFailed, true},
		{gwmodel.GatewayCashfree, "PENDING", txnmodel.StatusProcessing, true},
		{gwmodel.GatewayCashfree, "success", txnmodel.StatusSuccess, true},

		{gwmodel.GatewayRazorpay, "captured", txnmodel.StatusSuccess, true},
		{gwmodel.GatewayRazorpay, "refunded", txnmodel.StatusRefunded, true},
		{gwmodel.GatewayRazorpay, "authorized", txnmodel.StatusProcessing, true},

		{gwmodel.GatewayRunpaisa, "1", txnmodel.StatusSuccess, true},
		{gwmodel.GatewayRunpaisa, "2", txnmodel.StatusFailed, true},
		{gwmodel.GatewayRunpaisa, "0", txnmodel.StatusProcessing, true},

		// Unmapped vocabulary falls back to PROCESSING, never terminal
		{gwmodel.GatewayCashfree, "SOMETHING_NEW", txnmodel.StatusProcessing, false},
		{gwmodel.GatewayRazorpay, "disputed", txnmodel.StatusProcessing, false},
		{"UNKNOWN_GW", "SUCCESS", txnmodel.StatusProcessing, false},
	}

	for _, tt := range tests {
		got, mapped := MapNativeStatus(tt.gateway, tt.native)
		assert.Equal(t, tt.want, got, "%s/%s", tt.gateway, tt.native)
		assert.Equal(t, tt.mapped, mapped, "%s/%s", tt.gateway, tt.native)
	}
}

func TestIdempotencyKey(t *testing.T) {
	withEventID := model.IdempotencyKey("CASHFREE", "TXN_1", "evt_1", "SUCCESS")
	sameEventOtherStatus := model.IdempotencyKey("CASHFREE", "TXN_1", "evt_1", "FAILED")
	assert.Equal(t, withEventID, sameEventOtherStatus,
		"event id wins over native status when present")

	noEventID := model.IdempotencyKey("CASHFREE", "TXN_1", "", "SUCCESS")
	noEventIDOtherStatus := model.IdempotencyKey("CASHFREE", "TXN_1", "", "FAILED")
	assert.NotEqual(t, noEventID, noEventIDOtherStatus,
		"without an event id the native status differentiates deliveries")

	otherGateway := model.IdempotencyKey("RAZORPAY", "TXN_1", "evt_1", "SUCCESS")
	assert.NotEqual(t, withEventID, otherGateway)
}
