// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"activation-admin/internal/config"
	"activation-admin/internal/infra/codeapi"
	"activation-admin/internal/infra/i18n"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"
	"activation-admin/internal/infra/offline"
	red "activation-admin/internal/infra/redis"
	"activation-admin/internal/infra/security"
	"activation-admin/internal/infra/web"
	"activation-admin/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, insecure fallbacks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister(nil)
	metrics.SetBuildInfo(version, commit)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Encryption ----
	encKey := cfg.Security.EncryptionKey
	if encKey == "" {
		if !cfg.Runtime.Dev {
			logger.Fatal().Msg("security.encryption_key is required outside dev mode")
		}
		logger.Warn().Msg("security.encryption_key not set; falling back to dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	cipher, err := security.NewTokenCipher(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- Repositories ----
	sessionRepo := red.NewSessionRepo(redisClient, cipher, cfg.Session.TTL)
	codeClient := codeapi.NewClient(cfg.API.BaseURL, nil, cfg.API.Timeout, logger)

	// ---- Use cases ----
	sessionUC := usecase.NewSessionUseCase(sessionRepo, logger)
	codeUC := usecase.NewCodeUseCase(codeClient, sessionUC, logger)

	// ---- Offline cache ----
	var store offline.Store = offline.NewMemoryStore()
	if cfg.Offline.Store == "redis" {
		store = red.NewAssetStore(redisClient)
	}
	worker := offline.NewWorker(cfg.Offline.CacheName, web.StaticAssets, store, web.StaticHandler(), logger)
	if err := worker.Install(ctx); err != nil {
		// Assets are still served from the network when install fails.
		logger.Error().Err(err).Str("cache", worker.Name()).Msg("offline cache install")
	} else {
		logger.Info().Str("cache", worker.Name()).Strs("assets", worker.Assets()).Msg("offline cache installed")
	}
	sw, err := offline.ServiceWorkerScript(cfg.Offline.CacheName, cfg.Offline.Precache)
	if err != nil {
		logger.Fatal().Err(err).Msg("service worker script")
	}

	// ---- HTTP ----
	messages, err := i18n.Load(cfg.UI.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("message catalog")
	}
	if messages.Lang() != cfg.UI.Lang {
		logger.Warn().Str("lang", cfg.UI.Lang).Msg("no catalog for ui.lang; using default")
	}
	auth := web.NewAuthManager(cfg.Session.JWTSecret, cfg.Session.SecureCookie, cfg.Session.CookieDomain, cfg.Session.TTL)
	srv := web.NewServer(web.Options{
		Auth:               auth,
		Sessions:           sessionUC,
		Codes:              codeUC,
		Offline:            worker,
		ServiceWorker:      sw,
		LoginRatePerMinute: cfg.Session.LoginRatePerMinute,
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		Messages:           messages,
	}, logger)

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTP.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("api", cfg.API.BaseURL).Msg("admin console listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
		os.Exit(1)
	}
}
