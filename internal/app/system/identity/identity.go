// internal/app/system/identity/identity.go
package identity

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

// CallerHeader carries the wallet address of the caller on every request,
// standing in for the transaction sender of the on-chain original.
const CallerHeader = "X-Caller-Address"

var (
	ErrMissingCaller  = errors.New("missing caller address")
	ErrInvalidAddress = errors.New("invalid wallet address")
)

// Normalize validates a hex wallet address and returns its EIP-55
// checksummed form, so the same address always compares equal regardless of
// the casing a client sent.
func Normalize(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(s).Hex(), nil
}

// Caller extracts and normalizes the caller address from the request.
func Caller(r *http.Request) (string, error) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		return "", ErrMissingCaller
	}
	return Normalize(raw)
}
