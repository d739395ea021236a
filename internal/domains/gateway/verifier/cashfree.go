package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"
)

// Cashfree webhook headers
const (
	cashfreeSignatureHeader = "X-Webhook-Signature"
	cashfreeTimestampHeader = "X-Webhook-Timestamp"
)

// CashfreeVerifier verifies Cashfree webhooks.
//
// Cashfree Algorithm:
// 1. Read x-webhook-timestamp header (unix milliseconds)
// 2. Signed payload = timestamp + rawBody (byte concatenation)
// 3. HMAC-SHA256(signedPayload, secret)
// 4. Base64 encode and compare against x-webhook-signature header
//
// The timestamp is also checked against a skew window to reject
// replayed deliveries, independent of signature validity.
type CashfreeVerifier struct {
	secret []byte
	skew   time.Duration
	now    func() time.Time
}

func NewCashfreeVerifier(secret string, skew time.Duration) *CashfreeVerifier {
	return &CashfreeVerifier{
		secret: []byte(secret),
		skew:   skew,
		now:    time.Now,
	}
}

func (v *CashfreeVerifier) Verify(rawBody []byte, headers http.Header) Result {
	if len(v.secret) == 0 {
		return fail("cashfree webhook secret not configured")
	}

	signature := headers.Get(cashfreeSignatureHeader)
	if signature == "" {
		return fail("missing %s header", cashfreeSignatureHeader)
	}

	timestamp := headers.Get(cashfreeTimestampHeader)
	if timestamp == "" {
		return fail("missing %s header", cashfreeTimestampHeader)
	}

	// Replay guard: reject payloads older than the skew window
	millis, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fail("invalid timestamp %q", timestamp)
	}

	sentAt := time.UnixMilli(millis)
	age := v.now().Sub(sentAt)
	if age > v.skew || age < -v.skew {
		return fail("timestamp outside allowed skew window (%s)", v.skew)
	}

	// Signature over timestamp + raw body
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fail("signature mismatch")
	}

	return ok()
}
