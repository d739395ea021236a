package verifier

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashfreeSign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestCashfreeVerify(t *testing.T) {
	secret := "cf-secret"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"data":{"order":{"order_id":"TXN_1"},"payment":{"payment_status":"SUCCESS"}}}`)

	newVerifier := func() *CashfreeVerifier {
		v := NewCashfreeVerifier(secret, 5*time.Minute)
		v.now = func() time.Time { return now }
		return v
	}

	validHeaders := func(ts time.Time) http.Header {
		timestamp := strconv.FormatInt(ts.UnixMilli(), 10)
		h := http.Header{}
		h.Set("X-Webhook-Timestamp", timestamp)
		h.Set("X-Webhook-Signature", cashfreeSign(secret, timestamp, body))
		return h
	}

	t.Run("valid signature", func(t *testing.T) {
		res := newVerifier().Verify(body, validHeaders(now))
		assert.True(t, res.OK, res.Reason)
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := append([]byte(nil), body...)
		tampered[len(tampered)-2] ^= 0x01

		res := newVerifier().Verify(tampered, validHeaders(now))
		assert.False(t, res.OK)
	})

	t.Run("timestamp outside skew window", func(t *testing.T) {
		res := newVerifier().Verify(body, validHeaders(now.Add(-6*time.Minute)))
		assert.False(t, res.OK)
		assert.Contains(t, res.Reason, "skew")
	})

	t.Run("future timestamp outside skew window", func(t *testing.T) {
		res := newVerifier().Verify(body, validHeaders(now.Add(6*time.Minute)))
		assert.False(t, res.OK)
	})

	t.Run("missing signature header", func(t *testing.T) {
		h := validHeaders(now)
		h.Del("X-Webhook-Signature")

		res := newVerifier().Verify(body, h)
		assert.False(t, res.OK)
	})

	t.Run("no secret configured rejects everything", func(t *testing.T) {
		v := NewCashfreeVerifier("", 5*time.Minute)
		res := v.Verify(body, validHeaders(now))
		assert.False(t, res.OK)
	})
}

func TestRazorpayVerify(t *testing.T) {
	secret := "rzp-secret"
	body := []byte(`{"event":"payment.captured"}`)

	sign := func(b []byte) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(b)
		return hex.EncodeToString(mac.Sum(nil))
	}

	v := NewRazorpayVerifier(secret)

	t.Run("valid signature", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Razorpay-Signature", sign(body))

		res := v.Verify(body, h)
		assert.True(t, res.OK, res.Reason)
	})

	t.Run("tampered body", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Razorpay-Signature", sign(body))

		tampered := append([]byte(nil), body...)
		tampered[0] ^= 0x01

		res := v.Verify(tampered, h)
		assert.False(t, res.OK)
	})

	t.Run("missing header", func(t *testing.T) {
		res := v.Verify(body, http.Header{})
		assert.False(t, res.OK)
	})
}

func TestRunpaisaVerify_SharedSecret(t *testing.T) {
	v, err := NewRunpaisaVerifier("rp-secret", "")
	require.NoError(t, err)

	t.Run("matching secret", func(t *testing.T) {
		res := v.Verify([]byte(`{"merchant_ref":"TXN_1","status":1,"secret_key":"rp-secret"}`), http.Header{})
		assert.True(t, res.OK, res.Reason)
	})

	t.Run("wrong secret", func(t *testing.T) {
		res := v.Verify([]byte(`{"merchant_ref":"TXN_1","status":1,"secret_key":"guess"}`), http.Header{})
		assert.False(t, res.OK)
	})

	t.Run("unparseable body", func(t *testing.T) {
		res := v.Verify([]byte(`not json`), http.Header{})
		assert.False(t, res.OK)
	})
}

func TestRunpaisaVerify_RSASignature(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))

	v, err := NewRunpaisaVerifier("rp-secret", pubPEM)
	require.NoError(t, err)

	body := []byte(`{"merchant_ref":"TXN_1","status":1,"secret_key":"rp-secret"}`)
	digest := sha256.Sum256(body)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Runpaisa-Signature", base64.StdEncoding.EncodeToString(sig))

		res := v.Verify(body, h)
		assert.True(t, res.OK, res.Reason)
	})

	t.Run("signature required once key configured", func(t *testing.T) {
		res := v.Verify(body, http.Header{})
		assert.False(t, res.OK)
	})

	t.Run("signature over different body rejected", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Runpaisa-Signature", base64.StdEncoding.EncodeToString(sig))

		other := []byte(`{"merchant_ref":"TXN_2","status":1,"secret_key":"rp-secret"}`)
		res := v.Verify(other, h)
		assert.False(t, res.OK)
	})
}

func TestRegistry_UnknownGateway(t *testing.T) {
	r := NewRegistry()

	res := r.Verify("PAYPAL", []byte(`{}`), http.Header{})
	assert.False(t, res.OK)
	assert.Contains(t, res.Reason, "no verifier registered")
}
