package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"accountswitchd/internal/switchstate"
)

// StateHandler reports the persisted switch state, so a client can show
// "sign in to finish switching" prompts after a restart.
func StateHandler(store switchstate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Get(r.Context())
		if err != nil {
			log.Printf("⚠️ Switch state read failed: %v", err)
			st = switchstate.Idle()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(st)
	}
}
