package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Memaso-max/schedule-sync-service/internal/config"
	"github.com/Memaso-max/schedule-sync-service/internal/events"
	"github.com/Memaso-max/schedule-sync-service/internal/handlers"
	"github.com/Memaso-max/schedule-sync-service/internal/models"
	"github.com/Memaso-max/schedule-sync-service/internal/remote"
	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
	pgstore "github.com/Memaso-max/schedule-sync-service/internal/repositories/postgres"
	redisstore "github.com/Memaso-max/schedule-sync-service/internal/repositories/redis"
	"github.com/Memaso-max/schedule-sync-service/internal/store"
	syncctl "github.com/Memaso-max/schedule-sync-service/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, cleanup, err := newKVStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer cleanup()

	if err := seedDocuments(ctx, kv); err != nil {
		log.Fatalf("Failed to seed documents: %v", err)
	}

	bus := events.NewBus(logger)
	defer bus.Close()
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.StartKafkaBridge(ctx, bus, cfg.KafkaBrokers, logger); err != nil {
			logger.Warn("kafka bridge disabled", "error", err)
		}
	}

	// When remote endpoints are configured this process also runs a sync
	// session against them, like an app install would.
	if cfg.RemoteDataURL != "" {
		client := remote.NewHTTPClient(remote.Endpoints{
			DataURL:     cfg.RemoteDataURL,
			MetaURL:     cfg.RemoteMetaURL,
			ContentsURL: cfg.RemoteContentsURL,
		}, &http.Client{Timeout: 30 * time.Second}, remote.StaticToken(cfg.PushToken))

		st := store.NewStore(kv, client, bus, logger)
		controller := syncctl.NewController(st, kv, client, logger, cfg.SyncInterval)
		controller.Load(ctx)
		controller.Start(ctx)
		defer controller.Stop()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(kv, cfg.HostWriteToken, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("document host listening", "addr", cfg.HTTPAddr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func newKVStore(ctx context.Context, cfg config.Config) (repositories.KeyValueStore, func(), error) {
	if cfg.PostgresDSN != "" {
		kv, err := pgstore.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return redisstore.NewKVStore(client, ""), func() { _ = client.Close() }, nil
}

// seedDocuments writes the default dataset as data.json on first boot so
// fresh installs have something to bootstrap from.
func seedDocuments(ctx context.Context, kv repositories.KeyValueStore) error {
	const dataKey = "remote:data.json"
	const metaKey = "remote:data_meta.json"

	if _, err := kv.Get(ctx, dataKey); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrKeyNotFound) {
		return err
	}

	snap := models.DefaultSnapshot()
	snap.LastUpdated = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	meta, err := json.Marshal(remote.Metadata{LastUpdated: snap.LastUpdated})
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, dataKey, string(data)); err != nil {
		return err
	}
	return kv.Set(ctx, metaKey, string(meta))
}
