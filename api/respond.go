package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chat-api/errors"
)

// writeJSON encodes the payload with the given status. Encoding happens
// after the header is written, so a marshalling failure can only be
// logged, not reported.
func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("response encoding failed", "err", err)
	}
}

// writeError resolves the sentinel chain to its status code and
// client-facing message. Unmatched errors surface as a generic 500.
func writeError(w http.ResponseWriter, err error) {
	status, msg := errors.MapToHTTPError(err)
	http.Error(w, msg, status)
}
