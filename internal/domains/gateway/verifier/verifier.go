package verifier

import (
	"fmt"
	"net/http"
)

// =====================================================
// WEBHOOK SIGNATURE VERIFICATION
// =====================================================

// Result is the outcome of verifying one inbound webhook payload.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func ok() Result {
	return Result{OK: true}
}

func fail(format string, args ...interface{}) Result {
	return Result{OK: false, Reason: fmt.Sprintf(format, args...)}
}

// Verifier authenticates that a webhook payload genuinely originated
// from the claimed gateway.
//
// Verification MUST run against the raw, unparsed request body.
// Parsing and re-serializing JSON can change byte-for-byte content
// (key order, whitespace, number formatting) and silently invalidate
// signatures, so implementations never re-serialize.
type Verifier interface {
	Verify(rawBody []byte, headers http.Header) Result
}

// Registry maps gateway codes to their verification strategy.
// Built once at startup; safe for concurrent reads afterwards.
type Registry struct {
	verifiers map[string]Verifier
}

func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[string]Verifier)}
}

func (r *Registry) Register(gatewayCode string, v Verifier) {
	r.verifiers[gatewayCode] = v
}

// Verify dispatches to the gateway's verifier. An unknown gateway code
// is a verification failure, never a panic.
func (r *Registry) Verify(gatewayCode string, rawBody []byte, headers http.Header) Result {
	v, exists := r.verifiers[gatewayCode]
	if !exists {
		return fail("no verifier registered for gateway %s", gatewayCode)
	}
	return v.Verify(rawBody, headers)
}
