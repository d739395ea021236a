package verifier

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
)

const runpaisaSignatureHeader = "X-Runpaisa-Signature"

// RunpaisaVerifier verifies Runpaisa webhooks.
//
// Runpaisa uses two mechanisms:
// 1. A shared secret carried in the payload's "secret_key" field,
//    compared in constant time against the configured secret.
// 2. Optionally, when a public key is configured, an RSA-SHA256
//    signature over the raw body in the X-Runpaisa-Signature header
//    (base64). The RSA check is required once a key is configured.
//
// Only the secret_key field is extracted from the body; the signature
// check still runs over the raw bytes.
type RunpaisaVerifier struct {
	sharedSecret string
	publicKey    *rsa.PublicKey
}

func NewRunpaisaVerifier(sharedSecret, publicKeyPEM string) (*RunpaisaVerifier, error) {
	v := &RunpaisaVerifier{sharedSecret: sharedSecret}

	if publicKeyPEM != "" {
		key, err := parseRSAPublicKey(publicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse runpaisa public key: %w", err)
		}
		v.publicKey = key
	}

	return v, nil
}

func parseRSAPublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaKey, isRSA := pub.(*rsa.PublicKey)
	if !isRSA {
		return nil, fmt.Errorf("public key is not RSA")
	}

	return rsaKey, nil
}

func (v *RunpaisaVerifier) Verify(rawBody []byte, headers http.Header) Result {
	if v.sharedSecret == "" {
		return fail("runpaisa shared secret not configured")
	}

	var payload struct {
		SecretKey string `json:"secret_key"`
	}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return fail("unparseable payload: %v", err)
	}

	if subtle.ConstantTimeCompare([]byte(payload.SecretKey), []byte(v.sharedSecret)) != 1 {
		return fail("shared secret mismatch")
	}

	if v.publicKey != nil {
		signature := headers.Get(runpaisaSignatureHeader)
		if signature == "" {
			return fail("missing %s header", runpaisaSignatureHeader)
		}

		sigBytes, err := base64.StdEncoding.DecodeString(signature)
		if err != nil {
			return fail("signature is not valid base64")
		}

		digest := sha256.Sum256(rawBody)
		if err := rsa.VerifyPKCS1v15(v.publicKey, crypto.SHA256, digest[:], sigBytes); err != nil {
			return fail("rsa signature mismatch")
		}
	}

	return ok()
}
