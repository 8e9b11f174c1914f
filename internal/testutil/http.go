package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commitchain/commitchaind/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
)

// Well-known wallet addresses for tests. All are valid EIP-55 checksummed
// addresses; Owner is the one handler tests configure as platform owner.
const (
	Owner  = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	Alice  = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	Bob    = "0x4E83362442B8d1beC281594cEa3050c8EB01311C"
	Carol  = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	Dave   = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	Oracle = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
)

// Checksum returns the EIP-55 form of a test address. Store-level tests use
// it so stored values compare equal to what handlers persist.
func Checksum(t *testing.T, s string) string {
	t.Helper()
	v, err := identity.Normalize(s)
	if err != nil {
		t.Fatalf("bad test address %q: %v", s, err)
	}
	return v
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// NewRequest creates an HTTP request with a JSON body and the caller's wallet
// address in the identity header. A nil body sends no payload.
func NewRequest(t *testing.T, method, target, caller string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if caller != "" {
		req.Header.Set(identity.CallerHeader, caller)
	}
	return req
}

// DecodeResponse unmarshals a recorded JSON response body into out.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}
