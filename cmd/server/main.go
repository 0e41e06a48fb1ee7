package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rimba/nft-store/internal/api"
	"github.com/rimba/nft-store/internal/infrastructure/chain"
	"github.com/rimba/nft-store/internal/infrastructure/config"
	mongodb "github.com/rimba/nft-store/internal/infrastructure/db/mongo"
	redisdb "github.com/rimba/nft-store/internal/infrastructure/db/redis"
	"github.com/rimba/nft-store/internal/infrastructure/queue"
	"github.com/rimba/nft-store/internal/infrastructure/storage"
	"github.com/rimba/nft-store/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	files, err := storage.NewLocalStore(storage.Config{
		UploadDir:     cfg.Storage.UploadDir,
		MetadataDir:   cfg.Storage.MetadataDir,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise file storage")
	}

	chainClient, err := chain.NewClient(chain.Config{
		RPCURL:          cfg.Chain.RPCURL,
		PrivateKey:      cfg.Chain.PrivateKey,
		ContractAddress: cfg.Chain.ContractAddress,
		ChainID:         cfg.Chain.ChainID,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise chain client")
	}

	// All mint submissions go through the single-writer queue so concurrent
	// requests never race on the signing account's nonce.
	submitter := queue.NewMintSubmitter(chainClient, log)
	submitter.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		DB:        db,
		Redis:     rdb,
		Minter:    submitter,
		Files:     files,
		JWTSecret: cfg.JWTSecret,
		UploadDir: cfg.Storage.UploadDir,
		MetaDir:   cfg.Storage.MetadataDir,
		Logger:    log,
	})

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErrors:
		log.Error().Err(err).Msg("http server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
		os.Exit(1)
	}

	log.Info().Msg("http server stopped")
}
