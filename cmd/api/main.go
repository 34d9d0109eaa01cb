package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/georgemunganga/vendor-directory/internal/config"
	"github.com/georgemunganga/vendor-directory/internal/modules/auth"
	"github.com/georgemunganga/vendor-directory/internal/modules/catalog"
	"github.com/georgemunganga/vendor-directory/internal/modules/location"
	"github.com/georgemunganga/vendor-directory/internal/modules/proximity"
	"github.com/georgemunganga/vendor-directory/internal/modules/tier"
	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
	"github.com/georgemunganga/vendor-directory/internal/shared/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	policy := tier.Default()
	if cfg.TierPolicyFile != "" {
		policy, err = tier.LoadFile(cfg.TierPolicyFile)
		if err != nil {
			log.Error("failed to load tier policy", "file", cfg.TierPolicyFile, "error", err)
			os.Exit(1)
		}
		log.Info("tier policy loaded", "file", cfg.TierPolicyFile)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	authenticate := auth.Middleware(auth.NewService(cfg.JWTSecret))

	// ── Tier entitlements ───────────────────────────────────
	tier.NewHandler(policy).RegisterRoutes(router)

	// ── Directory ───────────────────────────────────────────
	vendorRepo := vendor.NewPostgresRepository(db)
	vendorService := vendor.NewService(vendorRepo, policy)
	vendor.NewHandler(vendorService).RegisterRoutes(router)

	// Catalog and location writes drop the cached directory snapshots.
	var proximityService proximity.Service
	invalidateDirectory := func() { proximityService.Invalidate() }

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, vendorRepo, policy, invalidateDirectory)
	catalog.NewHandler(catalogService, authenticate).RegisterRoutes(router)

	proximityService = proximity.NewService(vendorRepo, catalogService, policy, cfg.DirectoryCacheTTL,
		logger.WithComponent("proximity"))
	proximity.NewHandler(proximityService).RegisterRoutes(router)

	// ── Vendor dashboard ────────────────────────────────────
	locationRepo := location.NewPostgresRepository(db)
	locationService := location.NewService(locationRepo, vendorRepo, policy, invalidateDirectory,
		logger.WithComponent("location"))
	location.NewHandler(locationService, authenticate).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("vendor directory API starting", "addr", srv.Addr, "cache_ttl", cfg.DirectoryCacheTTL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
