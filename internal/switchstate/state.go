// Package switchstate persists the switch machine's phase between process
// runs. The original design kept two separate flags ("retry on next load" and
// "needs manual sign-in") that could drift apart; here they are one tagged
// value under one key, so the machine can never be in both states at once.
package switchstate

import "context"

type Phase string

const (
	// PhaseIdle means no switch is pending.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingRetry means a switch was initiated and should be retried
	// automatically on the next startup.
	PhaseAwaitingRetry Phase = "awaiting_retry"
	// PhaseAwaitingManualSignIn means a switch could not complete
	// automatically and the user must sign in to the target account.
	PhaseAwaitingManualSignIn Phase = "awaiting_manual_sign_in"
)

// State is the persisted machine phase. AccountID is empty when idle.
type State struct {
	Phase     Phase  `json:"phase"`
	AccountID string `json:"account_id,omitempty"`
}

// Idle is the zero state.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Store abstracts state persistence.
type Store interface {
	Get(ctx context.Context) (State, error)
	Set(ctx context.Context, st State) error
	// Clear resets to idle.
	Clear(ctx context.Context) error
}
