// Package switcher moves the active session between previously-seen accounts
// using cached refresh tokens, degrading to a manual sign-in whenever the
// automatic path cannot complete.
package switcher

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"accountswitchd/internal/accounts"
	"accountswitchd/internal/auth"
	"accountswitchd/internal/switchstate"
	"accountswitchd/internal/tokens"
)

// Reason classifies why a switch attempt did not complete.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonTokenMissing  Reason = "token_missing"
	ReasonRefreshFailed Reason = "refresh_failed"
	ReasonStorage       Reason = "storage_error"
)

// Result is the only thing that crosses the public boundary. Every failure
// mode degrades to a manual sign-in, so callers branch on Reason rather than
// on errors; Err carries detail for logs only.
type Result struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

// Switcher orchestrates switch attempts. It is stateless between calls;
// serializing concurrent attempts is the caller's job.
type Switcher struct {
	accounts accounts.Store
	tokens   tokens.Store
	state    switchstate.Store
	provider auth.SessionProvider
}

func New(acc accounts.Store, tok tokens.Store, st switchstate.Store, provider auth.SessionProvider) *Switcher {
	return &Switcher{accounts: acc, tokens: tok, state: st, provider: provider}
}

// SwitchToAccount attempts to make targetID the active account using its
// cached refresh token. On any failure the persisted state records that the
// user must sign in to the target manually.
func (s *Switcher) SwitchToAccount(ctx context.Context, targetID string) Result {
	// Switching to the account that is already active is a no-op.
	if cur, err := s.provider.GetSession(ctx); err == nil && cur != nil && cur.AccountID == targetID {
		log.Printf("🔁 Account %s is already active, nothing to switch", targetID)
		return Result{OK: true}
	}

	refreshToken, err := s.tokens.Get(ctx, targetID)
	if err != nil {
		log.Printf("⚠️ Token lookup failed for %s: %v", targetID, err)
		s.markManual(ctx, targetID)
		return Result{Reason: ReasonStorage, Err: err}
	}
	if refreshToken == "" {
		// Expected first-time state: the account never completed a capture
		// on this device. Record the intent and hand over to manual sign-in.
		log.Printf("🔑 No refresh token on file for %s, manual sign-in required", targetID)
		s.markManual(ctx, targetID)
		return Result{Reason: ReasonTokenMissing}
	}

	return s.refreshInto(ctx, targetID, refreshToken)
}

// BeginDeferredSwitch records that a switch to targetID should be attempted
// automatically on the next startup, without touching the active session now.
func (s *Switcher) BeginDeferredSwitch(ctx context.Context, targetID string) Result {
	if err := s.state.Set(ctx, switchstate.State{
		Phase:     switchstate.PhaseAwaitingRetry,
		AccountID: targetID,
	}); err != nil {
		log.Printf("⚠️ Failed to record deferred switch to %s: %v", targetID, err)
		return Result{Reason: ReasonStorage, Err: err}
	}
	log.Printf("⏭️ Deferred switch to %s recorded for next startup", targetID)
	return Result{OK: true}
}

// Initialize runs the startup reconciliation: if a previous run left a switch
// awaiting retry, the flag is cleared immediately (a crash mid-attempt must
// not loop) and the refresh path runs once for that account.
func (s *Switcher) Initialize(ctx context.Context) Result {
	st, err := s.state.Get(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to read switch state at startup: %v", err)
		return Result{Reason: ReasonStorage, Err: err}
	}
	if st.Phase != switchstate.PhaseAwaitingRetry {
		return Result{OK: true}
	}

	targetID := st.AccountID
	if err := s.state.Clear(ctx); err != nil {
		log.Printf("⚠️ Failed to clear retry flag for %s: %v", targetID, err)
	}
	log.Printf("🔄 Resuming switch to %s from previous run", targetID)

	refreshToken, err := s.tokens.Get(ctx, targetID)
	if err != nil {
		s.markManual(ctx, targetID)
		return Result{Reason: ReasonStorage, Err: err}
	}
	if refreshToken == "" {
		log.Printf("🔑 No refresh token on file for %s, manual sign-in required", targetID)
		s.markManual(ctx, targetID)
		return Result{Reason: ReasonTokenMissing}
	}

	return s.refreshInto(ctx, targetID, refreshToken)
}

// CaptureSession snapshots the current active session after a fresh sign-in:
// the refresh token goes into the token store and the full session into the
// account registry. This is the only way the token store is populated. When
// the captured account is the one a pending manual switch was waiting for,
// the pending state is cleared.
func (s *Switcher) CaptureSession(ctx context.Context) Result {
	sess, err := s.provider.GetSession(ctx)
	if err != nil {
		log.Printf("⚠️ Session read failed during capture: %v", err)
		return Result{Reason: ReasonStorage, Err: err}
	}
	if sess == nil {
		log.Printf("🪪 No active session to capture")
		return Result{}
	}

	// Some providers omit a stable account ID. Reuse the ID of a known
	// account with the same email so repeat sign-ins don't fork entries,
	// and mint a fresh one only for genuinely new accounts.
	if sess.AccountID == "" {
		sess.AccountID = s.resolveAccountID(ctx, sess.Email)
	}

	if err := s.accounts.Upsert(ctx, accounts.Upsert{
		ID:        sess.AccountID,
		Email:     sess.Email,
		FullName:  sess.FullName,
		AvatarURL: sess.AvatarURL,
	}); err != nil {
		log.Printf("⚠️ Failed to record account %s: %v", sess.Email, err)
		return Result{Reason: ReasonStorage, Err: err}
	}

	if sess.RefreshToken != "" {
		if err := s.tokens.Store(ctx, sess.AccountID, sess.RefreshToken); err != nil {
			log.Printf("⚠️ Failed to store refresh token for %s: %v", sess.Email, err)
			return Result{Reason: ReasonStorage, Err: err}
		}
		s.snapshotSession(ctx, sess)
		log.Printf("✅ Captured session for %s", sess.Email)
	} else {
		log.Printf("🪪 Session for %s carries no refresh token, registry updated only", sess.Email)
	}

	s.completeManualSignIn(ctx, sess.AccountID)
	return Result{OK: true}
}

// PendingManualTarget returns the account the machine is waiting on a manual
// sign-in for, so the UI can pre-fill the sign-in form.
func (s *Switcher) PendingManualTarget(ctx context.Context) (string, bool) {
	st, err := s.state.Get(ctx)
	if err != nil || st.Phase != switchstate.PhaseAwaitingManualSignIn {
		return "", false
	}
	return st.AccountID, true
}

// refreshInto signs out, then exchanges the refresh token for a new session.
// Sign-out happens first: if the exchange fails the user is left signed out,
// not reverted, and the persisted state records the manual fallback.
func (s *Switcher) refreshInto(ctx context.Context, targetID, refreshToken string) Result {
	if err := s.provider.SignOut(ctx); err != nil {
		log.Printf("⚠️ Sign-out before switch failed: %v", err)
	}

	sess, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		if isPermanentRefreshError(err) {
			log.Printf("🔒 Refresh token for %s rejected, re-login required: %v", targetID, err)
		} else {
			log.Printf("⏳ Transient refresh failure for %s: %v", targetID, err)
		}
		s.markManual(ctx, targetID)
		return Result{Reason: ReasonRefreshFailed, Err: err}
	}

	// Persist the rotated refresh token if the provider issued one.
	if sess.RefreshToken != "" && sess.RefreshToken != refreshToken {
		log.Printf("🔄 Rotating refresh token for %s", targetID)
		if err := s.tokens.Store(ctx, targetID, sess.RefreshToken); err != nil {
			log.Printf("⚠️ Failed to store rotated token for %s: %v", targetID, err)
		}
	}

	s.snapshotSession(ctx, sess)
	if err := s.accounts.TouchLastUsed(ctx, targetID); err != nil {
		log.Printf("⚠️ Failed to bump last-used for %s: %v", targetID, err)
	}
	if err := s.state.Clear(ctx); err != nil {
		log.Printf("⚠️ Failed to clear switch state: %v", err)
	}

	log.Printf("✅ Switched active session to %s", sess.Email)
	return Result{OK: true}
}

func (s *Switcher) snapshotSession(ctx context.Context, sess *auth.Session) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := s.accounts.StoreCachedSession(ctx, sess.AccountID, raw); err != nil {
		log.Printf("⚠️ Failed to snapshot session for %s: %v", sess.Email, err)
	}
}

func (s *Switcher) markManual(ctx context.Context, targetID string) {
	if err := s.state.Set(ctx, switchstate.State{
		Phase:     switchstate.PhaseAwaitingManualSignIn,
		AccountID: targetID,
	}); err != nil {
		log.Printf("⚠️ Failed to record pending manual sign-in for %s: %v", targetID, err)
	}
}

func (s *Switcher) resolveAccountID(ctx context.Context, email string) string {
	if list, err := s.accounts.List(ctx); err == nil {
		for _, acc := range list {
			if acc.Email == email {
				return acc.ID
			}
		}
	}
	return uuid.New().String()
}

func (s *Switcher) completeManualSignIn(ctx context.Context, accountID string) {
	st, err := s.state.Get(ctx)
	if err != nil || st.Phase != switchstate.PhaseAwaitingManualSignIn || st.AccountID != accountID {
		return
	}
	if err := s.state.Clear(ctx); err != nil {
		log.Printf("⚠️ Failed to clear pending manual sign-in for %s: %v", accountID, err)
		return
	}
	log.Printf("✅ Manual sign-in completed the pending switch to %s", accountID)
}
