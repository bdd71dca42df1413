package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homewise/internal/affiliate"
	"homewise/internal/config"
	"homewise/internal/conversation"
	"homewise/internal/handler"
	"homewise/internal/llm"
	"homewise/internal/llmclient"
	"homewise/internal/photo"
	"homewise/internal/repository"
	diagnosisrepo "homewise/internal/repository/diagnosis"
	maintenancerepo "homewise/internal/repository/maintenance"
	shoppingrepo "homewise/internal/repository/shoppinglist"
	"homewise/internal/server"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	diagnoses, err := diagnosisrepo.NewPostgresStore(pool)
	if err != nil {
		log.Error("init diagnosis store", "error", err)
		os.Exit(1)
	}
	shopping := shoppingrepo.NewPostgresStore(pool)
	tasks := maintenancerepo.NewPostgresStore(pool)

	var photos photo.Store
	if cfg.Photo.Enabled {
		photos, err = photo.NewS3Store(photo.S3Config{
			Endpoint:  cfg.Photo.Endpoint,
			Region:    cfg.Photo.Region,
			AccessKey: cfg.Photo.AccessKey,
			SecretKey: cfg.Photo.SecretKey,
			Bucket:    cfg.Photo.Bucket,
			UseSSL:    cfg.Photo.UseSSL,
		})
		if err != nil {
			log.Error("init photo store", "error", err)
			os.Exit(1)
		}
	} else {
		photos = photo.NewMemoryStore()
	}

	primary, err := llmclient.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.PrimaryModel)
	if err != nil {
		log.Error("init primary model client", "error", err)
		os.Exit(1)
	}
	fallback, err := llmclient.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.FallbackModel)
	if err != nil {
		log.Error("init fallback model client", "error", err)
		os.Exit(1)
	}
	gateway := llm.NewGateway(primary, fallback, llm.Options{
		Retry: llm.RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxJitter:   cfg.RetryMaxJitter,
		},
		MinInterval: cfg.MinCallInterval,
		Logger:      log,
	})
	defer gateway.Close()

	h := handler.New(
		gateway,
		conversation.NewManager(),
		diagnoses,
		shopping,
		tasks,
		photos,
		affiliate.NewBuilder(affiliate.Tags{
			Amazon:    cfg.AmazonTag,
			HomeDepot: cfg.HomeDepotTag,
			Lowes:     cfg.LowesTag,
			AceHW:     cfg.AceTag,
		}),
		log,
	)

	srv := server.New(cfg.Port, server.Routes(h, cfg.JWTSecret), log)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
