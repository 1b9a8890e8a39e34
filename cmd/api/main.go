package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xela07ax/crm-backend/internal/api/handler"
	"github.com/xela07ax/crm-backend/internal/api/server"
	"github.com/xela07ax/crm-backend/internal/infra"
	"github.com/xela07ax/crm-backend/internal/infra/auth"
	"github.com/xela07ax/crm-backend/internal/repository/postgres"
	"github.com/xela07ax/crm-backend/internal/service"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Контекст жизненного цикла: SIGTERM/SIGINT останавливают сервис
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Postgres: на старте ждем готовности базы с ретраями.
	// В обработке запросов ретраев нет — только здесь, в bootstrap.
	repo, err := postgres.Connect(appCtx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to init postgres", zap.Error(err))
	}
	defer repo.Close()

	r := retry.New(retry.Context(appCtx), retry.Attempts(5))
	if err := r.Do(func() error {
		pingCtx, cancel := context.WithTimeout(appCtx, 3*time.Second)
		defer cancel()
		return repo.Ping(pingCtx)
	}); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}

	// 3. Сборка слоев (Dependency Injection)
	codec, err := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		logger.Fatal("failed to init token codec", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	metrics := infra.NewMetrics(reg)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	store := service.NewReliableUserProvider(repo)
	authService := service.NewAuthService(store, hasher, codec, cfg.Auth.TokenTTL, logger)
	authHandler := handler.NewAuthHandler(authService, metrics, logger)
	resolver := auth.NewIdentityResolver(codec)

	api := server.NewAPIServer(logger, metrics, reg, resolver, authHandler)

	// 4. Запуск сервера
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("CRM API started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-appCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
