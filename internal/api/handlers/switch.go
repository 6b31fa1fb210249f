package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"accountswitchd/internal/accounts"
	"accountswitchd/internal/switcher"
)

type switchResponse struct {
	OK     bool            `json:"ok"`
	Reason switcher.Reason `json:"reason,omitempty"`
	// SignInHint is the target's email when a manual sign-in is needed, so
	// the client can pre-fill the login redirect.
	SignInHint string `json:"sign_in_hint,omitempty"`
}

// SwitchHandler runs a switch attempt for the account in the URL.
func SwitchHandler(sw *switcher.Switcher, store accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID := chi.URLParam(r, "id")
		res := sw.SwitchToAccount(r.Context(), targetID)

		resp := switchResponse{OK: res.OK, Reason: res.Reason}
		if !res.OK {
			resp.SignInHint = emailFor(r, store, targetID)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// DeferSwitchHandler records a switch to run on the next startup.
func DeferSwitchHandler(sw *switcher.Switcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := sw.BeginDeferredSwitch(r.Context(), chi.URLParam(r, "id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(switchResponse{OK: res.OK, Reason: res.Reason})
	}
}

// CaptureHandler snapshots the current session into the stores.
func CaptureHandler(sw *switcher.Switcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := sw.CaptureSession(r.Context())

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(switchResponse{OK: res.OK, Reason: res.Reason})
	}
}

func emailFor(r *http.Request, store accounts.Store, id string) string {
	list, err := store.List(r.Context())
	if err != nil {
		return ""
	}
	for _, acc := range list {
		if acc.ID == id {
			return acc.Email
		}
	}
	return ""
}
