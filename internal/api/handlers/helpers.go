package handlers

import (
	"city-route-optimizer/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

// Planning bodies are a handful of knobs; anything larger is rejected.
const maxBodyBytes = 1 << 16

var errTrailingData = errors.New("body must contain only one JSON object")

// decodeJSON reads at most one strict JSON object into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func allowOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s path=%s err=%v", obs.RequestID(r.Context()), r.URL.Path, err)
	}
}

// Error bodies carry the request id so clients can quote it.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg, "request_id": obs.RequestID(r.Context())})
}
