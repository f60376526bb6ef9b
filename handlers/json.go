// Package handlers provides the HTTP handlers for the rxcompare API:
// medication search, details, alternatives, NDC lookup, price comparison,
// pharmacy rosters, safety formatting and health.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rxcompare/rxcompare-api/logging"
)

// RespondWithJSON writes a JSON response with the standard headers.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error body. Only caller-input errors reach
// this with a 4xx; upstream failures degrade before they get here.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}
