package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends the JSON error body shared with the API handlers.
func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
