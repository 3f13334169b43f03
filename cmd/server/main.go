package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/api"
	"github.com/arbitex/marketplace/internal/infrastructure/config"
	mongodb "github.com/arbitex/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/arbitex/marketplace/internal/infrastructure/db/redis"
	"github.com/arbitex/marketplace/internal/infrastructure/events"
	"github.com/arbitex/marketplace/internal/infrastructure/session"
	"github.com/arbitex/marketplace/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependencies ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx,
		mongodb.NewIdentityRepository(db),
		mongodb.NewDisputeRepository(db),
		mongodb.NewVoteRepository(db),
		mongodb.NewEvidenceRepository(db),
		mongodb.NewProductRepository(db),
		mongodb.NewOrderRepository(db),
	); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	publisher, err := events.NewRedisStreamPublisher(rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("event publisher setup failed")
	}
	defer publisher.Close()

	codec, err := session.NewCodec(sealKey(cfg, log))
	if err != nil {
		log.Fatal().Err(err).Msg("session codec setup failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(cfg, db, rdb, publisher, codec, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// sealKey decodes the configured cookie key; without one a throwaway key is
// generated, which invalidates all cookies on restart.
func sealKey(cfg *config.Config, log zerolog.Logger) []byte {
	if cfg.Session.SealKey != "" {
		key, err := hex.DecodeString(cfg.Session.SealKey)
		if err == nil && len(key) == 32 {
			return key
		}
		log.Warn().Msg("SESSION_SEAL_KEY is not 32 hex-encoded bytes, generating a throwaway key")
	} else {
		log.Warn().Msg("SESSION_SEAL_KEY not set, generating a throwaway key")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}
