package http

import (
	"encoding/json"
	"net/http"
)

// writeJSON serializes data and writes it with the given status code. The
// Content-Type header is set before the status line goes out.
func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(jsonData)
}

// listStatus picks the status of an archive listing: 206 signals that
// eviction or expiry may have removed rows the requested window would
// otherwise have surfaced.
func listStatus(partial bool) int {
	if partial {
		return http.StatusPartialContent
	}
	return http.StatusOK
}
