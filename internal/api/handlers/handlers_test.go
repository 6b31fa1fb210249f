package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"accountswitchd/internal/accounts"
	"accountswitchd/internal/auth"
	"accountswitchd/internal/db/models"
	"accountswitchd/internal/switcher"
	"accountswitchd/internal/switchstate"
	"accountswitchd/internal/tokens"
)

type stubProvider struct {
	current *auth.Session
}

func (s *stubProvider) SignOut(ctx context.Context) error { s.current = nil; return nil }

func (s *stubProvider) RefreshSession(ctx context.Context, refreshToken string) (*auth.Session, error) {
	return nil, fmt.Errorf("not wired in this test")
}

func (s *stubProvider) GetSession(ctx context.Context) (*auth.Session, error) {
	return s.current, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.AutoMigrate(&models.StoredAccount{}, &models.StoredToken{}, &models.SwitchStateRow{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestAccountsHandler_SortsByLastUsedDescending(t *testing.T) {
	db := newTestDB(t)
	store := accounts.NewGormStore(db)
	ctx := context.Background()

	for _, id := range []string{"old", "fresh"} {
		if err := store.Upsert(ctx, accounts.Upsert{ID: id, Email: id + "@x.com"}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	if err := db.Model(&models.StoredAccount{}).Where("id = ?", "old").
		Update("last_used_at", time.Now().Add(-24*time.Hour)).Error; err != nil {
		t.Fatalf("age account: %v", err)
	}

	w := httptest.NewRecorder()
	AccountsHandler(store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Accounts []struct {
			ID string `json:"id"`
		} `json:"accounts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(body.Accounts))
	}
	if body.Accounts[0].ID != "fresh" || body.Accounts[1].ID != "old" {
		t.Fatalf("expected most recent first, got %+v", body.Accounts)
	}
}

func TestSwitchHandler_TokenMissingCarriesSignInHint(t *testing.T) {
	db := newTestDB(t)
	accStore := accounts.NewGormStore(db)
	tokStore := tokens.NewGormStore(db)
	stateStore := switchstate.NewGormStore(db)
	sw := switcher.New(accStore, tokStore, stateStore, &stubProvider{})

	if err := accStore.Upsert(context.Background(), accounts.Upsert{ID: "u2", Email: "b@x.com"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	r := chi.NewRouter()
	r.Post("/api/accounts/{id}/switch", SwitchHandler(sw, accStore))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/accounts/u2/switch", nil))

	var body struct {
		OK         bool   `json:"ok"`
		Reason     string `json:"reason"`
		SignInHint string `json:"sign_in_hint"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OK {
		t.Fatal("switch without token must not succeed")
	}
	if body.Reason != string(switcher.ReasonTokenMissing) {
		t.Fatalf("expected token_missing, got %q", body.Reason)
	}
	if body.SignInHint != "b@x.com" {
		t.Fatalf("expected sign-in hint with the target email, got %q", body.SignInHint)
	}

	st, err := stateStore.Get(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Phase != switchstate.PhaseAwaitingManualSignIn || st.AccountID != "u2" {
		t.Fatalf("expected pending manual sign-in for u2, got %+v", st)
	}
}

func TestRemoveAccountHandler_PrunesBothStores(t *testing.T) {
	db := newTestDB(t)
	accStore := accounts.NewGormStore(db)
	tokStore := tokens.NewGormStore(db)
	ctx := context.Background()

	if err := accStore.Upsert(ctx, accounts.Upsert{ID: "u1", Email: "a@x.com"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := tokStore.Store(ctx, "u1", "tok"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	r := chi.NewRouter()
	r.Delete("/api/accounts/{id}", RemoveAccountHandler(accStore, tokStore))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/accounts/u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	list, _ := accStore.List(ctx)
	if len(list) != 0 {
		t.Fatalf("account not removed: %+v", list)
	}
	token, _ := tokStore.Get(ctx, "u1")
	if token != "" {
		t.Fatalf("token not removed: %q", token)
	}

	// Deleting again is fine.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/accounts/u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected idempotent delete, got %d", w.Code)
	}
}

func TestStateHandler_ReportsPersistedState(t *testing.T) {
	stateStore := switchstate.NewMemoryStore()
	if err := stateStore.Set(context.Background(), switchstate.State{
		Phase:     switchstate.PhaseAwaitingManualSignIn,
		AccountID: "u7",
	}); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	w := httptest.NewRecorder()
	StateHandler(stateStore).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	var st switchstate.State
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Phase != switchstate.PhaseAwaitingManualSignIn || st.AccountID != "u7" {
		t.Fatalf("unexpected state: %+v", st)
	}
}
