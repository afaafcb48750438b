package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "crowd-bidding/internal/biddingService"
	"crowd-bidding/internal/config"
	"crowd-bidding/internal/database"
	"crowd-bidding/internal/events"
	"crowd-bidding/internal/jobs"
	"crowd-bidding/internal/payments"
	"crowd-bidding/internal/repository"
	"crowd-bidding/internal/server"
	"crowd-bidding/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	utils.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, healthCheck, closeStore := openStore(ctx, cfg)
	defer closeStore()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		publisher = events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RoundEventsQueue)
	}

	biddingSvc := bidding.NewBiddingService(store, payments.NewStaticProvider(cfg.Payments),
		bidding.WithRoundDuration(cfg.RoundDuration),
		bidding.WithPublisher(publisher),
	)

	if cfg.RoundSweepInterval > 0 {
		jobs.NewRoundSweeperJob(biddingSvc).Start(ctx, cfg.RoundSweepInterval)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	router := server.SetupRouter(biddingSvc, server.Options{
		JWTSecret:   cfg.JWTSecret,
		Redis:       rdb,
		RateLimit:   cfg.RateLimit,
		HealthCheck: healthCheck,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Info("starting bidding server", map[string]any{
			"addr":           srv.Addr,
			"round_duration": cfg.RoundDuration.String(),
			"postgres":       cfg.DatabaseURL != "",
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("shutdown error", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("successful shutdown", nil)
}

// openStore picks PostgreSQL when DATABASE_URL is set and the in-memory store otherwise
func openStore(ctx context.Context, cfg *config.Config) (repository.BiddingStore, func(context.Context) error, func()) {
	if cfg.DatabaseURL == "" {
		utils.Warn("DATABASE_URL not set, using in-memory store", nil)
		return repository.NewMemoryRepo(), nil, func() {}
	}

	pg, err := database.Connect(ctx, cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		utils.Fatal("failed to connect to database", map[string]any{"error": err.Error()})
	}
	if err := database.Migrate(pg); err != nil {
		utils.Fatal("failed to run migrations", map[string]any{"error": err.Error()})
	}

	closeStore := func() {
		if err := pg.Close(); err != nil {
			utils.Error("failed to close database", map[string]any{"error": err.Error()})
		}
	}
	return repository.NewPostgresRepo(pg), pg.Database.PingContext, closeStore
}
