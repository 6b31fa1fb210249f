package handlers

import (
	"encoding/json"
	"net/http"

	"accountswitchd/internal/version"
)

// StatusHandler reports liveness and build info.
func StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version.Version,
			"commit":  version.Commit,
		})
	}
}
