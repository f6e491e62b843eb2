package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vantix_site_backend/internal/contact"
	"vantix_site_backend/internal/email"
	apphttp "vantix_site_backend/internal/http"
	"vantix_site_backend/internal/http/router"
	"vantix_site_backend/internal/ratelimit"
	"vantix_site_backend/internal/turnstile"
	"vantix_site_backend/platform/config"
	"vantix_site_backend/platform/logger"
	"vantix_site_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Counter store for the submission rate limiter. Absence of REDIS_URL
	// disables the limiter entirely; the pipeline fails open by policy.
	limiter, health, closeStore := initRateLimiter(cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	// Outbound email transport. A missing key is NOT fatal here: the contact
	// service answers each submission with a configuration error instead.
	sender, err := email.NewSender(cfg)
	if err != nil {
		if !errors.Is(err, email.ErrNotConfigured) {
			log.Error("failed to initialize email sender", "error", err)
			panic("failed to initialize email sender: " + err.Error())
		}
		log.Warn("email delivery not configured; submissions will be rejected")
		sender = nil
	}

	verifier := turnstile.New(cfg.GetTurnstileSecret())
	if !verifier.Enabled() {
		log.Warn("TURNSTILE_SECRET_KEY not configured; bot verification disabled")
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	contactModule := contact.NewModule(cfg, sender, verifier, limiter, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: health,
		Modules: []apphttp.Module{
			contactModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRateLimiter(cfg *config.Config, log *logger.Logger) (*ratelimit.Limiter, apphttp.HealthChecker, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; submission rate limiting disabled")
		return nil, nil, nil
	}

	store, err := ratelimit.NewRedisStore(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to initialize counter store; rate limiting disabled", "error", err)
		return nil, nil, nil
	}

	limiter := ratelimit.New(store, cfg.GetRateLimitPerMinute(), cfg.GetRateLimitPerHour(), log)
	return limiter, store, func() {
		_ = store.Close()
	}
}
