package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"accountswitchd/internal/accounts"
	"accountswitchd/internal/api/handlers"
	"accountswitchd/internal/auth/google"
	"accountswitchd/internal/config"
	"accountswitchd/internal/db"
	"accountswitchd/internal/logging"
	"accountswitchd/internal/providers/catalog"
	"accountswitchd/internal/switcher"
	"accountswitchd/internal/switchstate"
	"accountswitchd/internal/tokens"
)

func main() {
	cfg := config.MustLoad()

	if err := catalog.Init(); err != nil {
		log.Printf("⚠️ Provider catalog: %v (continuing with built-ins)", err)
	}

	accStore, tokStore, stateStore := buildStores(cfg)

	provider := google.NewProvider()
	sw := switcher.New(accStore, tokStore, stateStore, provider)

	// Startup reconciliation: finish a switch a previous run left pending.
	if res := sw.Initialize(context.Background()); !res.OK && res.Reason != switcher.ReasonNone {
		log.Printf("⚠️ Startup switch reconciliation did not complete: %s", res.Reason)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// OAuth flow (initial sign-in; also completes pending manual switches)
	r.Get("/auth/google/login", google.HandleLogin)
	r.Get("/auth/google/callback", google.HandleCallback(provider, sw))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler())
		r.Get("/state", handlers.StateHandler(stateStore))
		r.Post("/capture", handlers.CaptureHandler(sw))

		r.Get("/accounts", handlers.AccountsHandler(accStore))
		r.Post("/accounts/{id}/switch", handlers.SwitchHandler(sw, accStore))
		r.Post("/accounts/{id}/defer", handlers.DeferSwitchHandler(sw))
		r.Delete("/accounts/{id}", handlers.RemoveAccountHandler(accStore, tokStore))
	})

	addr := cfg.Server.Address()
	log.Printf("🚀 accountswitchd starting on http://%s", addr)
	log.Printf("🔌 Account API: http://%s/api/accounts", addr)
	log.Printf("🔑 Sign-in: http://%s/auth/google/login", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildStores wires the configured persistence backends.
func buildStores(cfg *config.Config) (accounts.Store, tokens.Store, switchstate.Store) {
	var (
		accStore accounts.Store
		tokStore tokens.Store
	)

	switch cfg.Store.Backend {
	case "file":
		accStore = accounts.NewFileStore(cfg.Store.Dir)
		tokStore = tokens.NewFileStore(cfg.Store.Dir)
		log.Printf("📦 Using JSON file stores in %s", cfg.Store.Dir)
	default:
		database, err := db.InitDB(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		accStore = accounts.NewGormStore(database)
		tokStore = tokens.NewGormStore(database)
		log.Printf("📦 Using SQLite stores at %s", cfg.Store.SQLitePath)

		if cfg.State.Backend == "sqlite" || cfg.State.Backend == "" {
			return accStore, tokStore, switchstate.NewGormStore(database)
		}
	}

	return accStore, tokStore, buildStateStore(cfg)
}

func buildStateStore(cfg *config.Config) switchstate.Store {
	switch cfg.State.Backend {
	case "redis":
		store, err := switchstate.NewRedisStore(switchstate.RedisConfig{
			Addr:     cfg.State.RedisAddress(),
			Password: cfg.State.RedisPassword,
			DB:       cfg.State.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Printf("📦 Switch state in Redis at %s", cfg.State.RedisAddress())
		return store
	case "sqlite":
		// File stores plus sqlite state means a dedicated state database.
		database, err := db.InitDB("switchd-state.db")
		if err != nil {
			log.Fatalf("Failed to initialize state database: %v", err)
		}
		return switchstate.NewGormStore(database)
	default:
		log.Printf("📦 Switch state in memory (not durable across restarts)")
		return switchstate.NewMemoryStore()
	}
}
