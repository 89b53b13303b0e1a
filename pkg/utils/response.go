package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON sends a JSON response.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError sends a single-field error envelope.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// RespondErrorMessage sends the generic {error, message} envelope used for
// 404/405/429/500 responses.
func RespondErrorMessage(w http.ResponseWriter, status int, errText, message string) {
	RespondJSON(w, status, map[string]string{"error": errText, "message": message})
}
