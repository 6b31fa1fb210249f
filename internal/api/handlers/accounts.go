package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"accountswitchd/internal/accounts"
	"accountswitchd/internal/tokens"
)

// AccountsHandler lists the registry, most recently used first.
func AccountsHandler(store accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context())
		if err != nil {
			// Fail open: a broken registry renders as empty, never a 500.
			log.Printf("⚠️ Account listing failed: %v", err)
			list = nil
		}

		sort.Slice(list, func(i, j int) bool {
			return list[i].LastUsedAt.After(list[j].LastUsedAt)
		})

		type entry struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			Username   string `json:"username,omitempty"`
			FullName   string `json:"full_name,omitempty"`
			AvatarURL  string `json:"avatar_url,omitempty"`
			LastUsedAt string `json:"last_used_at"`
			HasSession bool   `json:"has_session"`
		}

		entries := make([]entry, 0, len(list))
		for _, acc := range list {
			entries = append(entries, entry{
				ID:         acc.ID,
				Email:      acc.Email,
				Username:   acc.Username,
				FullName:   acc.FullName,
				AvatarURL:  acc.AvatarURL,
				LastUsedAt: acc.LastUsedAt.Format(time.RFC3339),
				HasSession: len(acc.CachedSession) > 0,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"accounts": entries,
		})
	}
}

// RemoveAccountHandler prunes an account and its refresh token. Removing an
// unknown account succeeds; the operation is idempotent.
func RemoveAccountHandler(accStore accounts.Store, tokStore tokens.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := tokStore.Remove(r.Context(), id); err != nil {
			log.Printf("⚠️ Token removal failed for %s: %v", id, err)
		}
		if err := accStore.Remove(r.Context(), id); err != nil {
			log.Printf("⚠️ Account removal failed for %s: %v", id, err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	}
}
