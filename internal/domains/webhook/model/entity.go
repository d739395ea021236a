package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// WEBHOOK EVENT ENTITY
// =====================================================
// Audit and idempotency record for one inbound delivery. Payload and
// outcome are never mutated after creation; the retryable flag is
// cleared once a replay resolves the event.
type WebhookEvent struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GatewayCode string    `json:"gateway_code" db:"gateway_code"`

	// IdempotencyKey collapses duplicate deliveries of the same event.
	IdempotencyKey string `json:"idempotency_key" db:"idempotency_key"`

	// PayloadDigest is the SHA-256 of the raw body, kept for audit.
	PayloadDigest string `json:"payload_digest" db:"payload_digest"`

	// RawBody is retained so valid-but-unprocessed deliveries can be
	// replayed by the retry job.
	RawBody []byte `json:"-" db:"raw_body"`

	GatewayReference  *string `json:"gateway_reference,omitempty" db:"gateway_reference"`
	Outcome           string  `json:"outcome" db:"outcome"`
	TransactionStatus *string `json:"transaction_status,omitempty" db:"transaction_status"`
	Reason            *string `json:"reason,omitempty" db:"reason"`

	// Retryable marks rejected events that failed on a transient
	// processing error rather than on verification.
	Retryable bool `json:"retryable" db:"retryable"`

	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}

// DigestPayload hashes a raw webhook body for the audit record.
func DigestPayload(rawBody []byte) string {
	sum := sha256.Sum256(rawBody)
	return hex.EncodeToString(sum[:])
}

// IdempotencyKey derives a stable key for one gateway event.
// Uses the gateway's own event id when present, otherwise falls back
// to reference + native status so repeated status pushes collapse.
func IdempotencyKey(gatewayCode, gatewayRef, eventID, nativeStatus string) string {
	material := gatewayCode + "|" + gatewayRef + "|"
	if eventID != "" {
		material += eventID
	} else {
		material += nativeStatus
	}
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// =====================================================
// NORMALIZED EVENT
// =====================================================
// One parsed webhook, normalized across gateway payload shapes.
type NormalizedEvent struct {
	GatewayCode      string
	GatewayReference string
	EventID          string
	NativeStatus     string
}

// =====================================================
// RECONCILIATION OUTCOME
// =====================================================
type ReconciliationOutcome struct {
	Result            string `json:"result"` // applied | duplicate | rejected
	TransactionStatus string `json:"transaction_status,omitempty"`
	Reason            string `json:"reason,omitempty"`

	// HTTPStatus is what the webhook endpoint should answer.
	// Most failures still answer 200 to stop gateway retry storms;
	// only verification failures and transient processing errors ask
	// the gateway to retry.
	HTTPStatus int `json:"-"`
}
