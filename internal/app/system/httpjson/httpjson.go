// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes bounds request bodies; every call payload here is small.
const maxBodyBytes = 1 << 20

// Respond writes v as a JSON response with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the standard error envelope: {"error": "..."}.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// Decode reads the request body into dst, rejecting unknown fields and
// oversized payloads.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second value means trailing garbage.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
