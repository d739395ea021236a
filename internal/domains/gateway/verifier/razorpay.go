package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

const razorpaySignatureHeader = "X-Razorpay-Signature"

// RazorpayVerifier verifies Razorpay webhooks.
//
// Razorpay Algorithm:
// 1. HMAC-SHA256(rawBody, webhookSecret)
// 2. Lowercase hex encode
// 3. Compare against X-Razorpay-Signature header
type RazorpayVerifier struct {
	secret []byte
}

func NewRazorpayVerifier(secret string) *RazorpayVerifier {
	return &RazorpayVerifier{secret: []byte(secret)}
}

func (v *RazorpayVerifier) Verify(rawBody []byte, headers http.Header) Result {
	if len(v.secret) == 0 {
		return fail("razorpay webhook secret not configured")
	}

	signature := headers.Get(razorpaySignatureHeader)
	if signature == "" {
		return fail("missing %s header", razorpaySignatureHeader)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fail("signature mismatch")
	}

	return ok()
}
