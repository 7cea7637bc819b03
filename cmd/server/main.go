package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpop/popup-service/internal/api"
	"github.com/leadpop/popup-service/internal/api/metrics"
	"github.com/leadpop/popup-service/internal/core/ports"
	"github.com/leadpop/popup-service/internal/core/service"
	"github.com/leadpop/popup-service/internal/infrastructure/config"
	mongodb "github.com/leadpop/popup-service/internal/infrastructure/db/mongo"
	redisdb "github.com/leadpop/popup-service/internal/infrastructure/db/redis"
	"github.com/leadpop/popup-service/internal/infrastructure/memory"
	"github.com/leadpop/popup-service/internal/infrastructure/notify"
	"github.com/leadpop/popup-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	var (
		clients  ports.ClientRepository
		leads    ports.LeadRepository
		authRepo ports.AuthRepository
		dedup    ports.Deduper
		mongoDB  *mongo.Database
		rdb      *redis.Client
	)

	switch cfg.Backend {
	case "memory":
		clients = memory.NewClientStore()
		leads = memory.NewLeadStore()
		authRepo = memory.NewAuthStore()
		dedup = memory.NewDedupStore(cfg.DedupWindow)
		log.Info().Msg("using in-memory backend")

	default: // mongo
		mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		mongoDB = db

		clientRepo := mongodb.NewClientRepository(db)
		leadRepo := mongodb.NewLeadRepository(db)
		if err := clientRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create client indexes")
		}
		if err := leadRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create lead indexes")
		}
		clients = clientRepo
		leads = leadRepo
		authRepo = mongodb.NewAuthRepository(db)

		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() {
			_ = rdb.Close()
		}()
		dedup = redisdb.NewDedupStore(rdb, cfg.DedupWindow)
	}

	directory := service.NewDirectory(clients, cfg.DirectoryTTL, log).
		WithRefreshHook(func(ok bool) {
			result := "ok"
			if !ok {
				result = "error"
			}
			metrics.DirectoryRefreshTotal.WithLabelValues(result).Inc()
		})

	dispatcher := notify.NewDispatcher(cfg.NotifyWorkers, notify.NewWebhookSender(nil), log)
	dispatcher.Start(ctx)

	gate := service.NewGateService(
		directory,
		leads,
		dedup,
		dispatcher,
		ports.ResolutionMode(cfg.ResolutionMode),
		service.PopupDefaults{Title: cfg.PopupTitle, Text: cfg.PopupText},
		log,
	)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	e := api.NewRouter(api.Deps{
		Gate:      gate,
		Auth:      authService,
		Clients:   clients,
		Leads:     leads,
		Directory: directory,
		Mongo:     mongoDB,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		RateRPS:   cfg.RateRPS,
		RateBurst: cfg.RateBurst,
		Logger:    log,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.Backend).
			Str("resolution_mode", cfg.ResolutionMode).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
