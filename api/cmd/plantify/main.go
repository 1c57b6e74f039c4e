package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Melonns/PlantifyBE/api/internal/care"
	"github.com/Melonns/PlantifyBE/api/internal/care/gemini"
	"github.com/Melonns/PlantifyBE/api/internal/care/perenual"
	"github.com/Melonns/PlantifyBE/api/internal/config"
	"github.com/Melonns/PlantifyBE/api/internal/handle"
	"github.com/Melonns/PlantifyBE/api/internal/httpserver"
	"github.com/Melonns/PlantifyBE/api/internal/identify"
	"github.com/Melonns/PlantifyBE/api/internal/middleware"
	"github.com/Melonns/PlantifyBE/api/internal/scan"
	"github.com/Melonns/PlantifyBE/api/internal/store"
)

func main() {
	cfg := config.Load()

	identifier := identify.New(cfg.PlantNetAPIKey, cfg.PlantNetBaseURL, cfg.Lang)
	engine := careEngine(cfg)
	scanner := scan.New(identifier, engine, cfg.ConfidenceThreshold)

	h := handle.New(scanner)

	// Optional pieces: users need a database, auth needs a secret.
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("store: ensure schema: %v", err)
		}
		cancel()
		h.Users = store.NewUserRepo(db)
		log.Printf("user routes enabled")
	} else {
		log.Printf("DATABASE_URL not set; user routes disabled")
	}

	var tm *middleware.TokenManager
	if cfg.JWTSecret != "" {
		tm = middleware.NewTokenManager(cfg.JWTSecret)
		h.Tokens = tm
	} else {
		log.Printf("JWT_SECRET not set; scan route is unauthenticated and login is disabled")
	}

	router := httpserver.NewRouter(h, tm, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("plantify listening on %s (care provider: %s)", srv.Addr, engine.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}

func careEngine(cfg *config.Config) care.Engine {
	switch strings.ToLower(cfg.CareProvider) {
	case "perenual":
		if cfg.PerenualAPIKey == "" {
			log.Fatal("CARE_PROVIDER=perenual requires PERENUAL_API_KEY")
		}
		return perenual.New(cfg.PerenualAPIKey, cfg.PerenualBaseURL)
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Fatal("CARE_PROVIDER=gemini requires GEMINI_API_KEY")
		}
		return gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.CareMaxAttempts, cfg.CareBackoff)
	default:
		log.Fatalf("unknown CARE_PROVIDER %q", cfg.CareProvider)
		return nil
	}
}
