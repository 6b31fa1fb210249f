package switchstate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"accountswitchd/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.AutoMigrate(&models.SwitchStateRow{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestGormStore_DefaultsToIdle(t *testing.T) {
	store := NewGormStore(newTestDB(t))

	st, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Phase != PhaseIdle || st.AccountID != "" {
		t.Fatalf("expected idle state, got %+v", st)
	}
}

func TestGormStore_SetGetClear(t *testing.T) {
	db := newTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	if err := store.Set(ctx, State{Phase: PhaseAwaitingRetry, AccountID: "u3"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	st, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Phase != PhaseAwaitingRetry || st.AccountID != "u3" {
		t.Fatalf("unexpected state: %+v", st)
	}

	// Only one possible state: repeated writes stay a single row.
	if err := store.Set(ctx, State{Phase: PhaseAwaitingManualSignIn, AccountID: "u4"}); err != nil {
		t.Fatalf("second set: %v", err)
	}
	var count int64
	if err := db.Model(&models.SwitchStateRow{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single state row, got %d", count)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, _ = store.Get(ctx)
	if st.Phase != PhaseIdle || st.AccountID != "" {
		t.Fatalf("expected idle after clear, got %+v", st)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	st, _ := store.Get(ctx)
	if st.Phase != PhaseIdle {
		t.Fatalf("expected idle, got %+v", st)
	}

	if err := store.Set(ctx, State{Phase: PhaseAwaitingManualSignIn, AccountID: "u1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	st, _ = store.Get(ctx)
	if st.Phase != PhaseAwaitingManualSignIn || st.AccountID != "u1" {
		t.Fatalf("unexpected state: %+v", st)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, _ = store.Get(ctx)
	if st.Phase != PhaseIdle {
		t.Fatalf("expected idle after clear, got %+v", st)
	}
}
