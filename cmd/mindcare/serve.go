package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindcare/common/database"
	"mindcare/common/logger"
	"mindcare/common/mqtt"
	commonredis "mindcare/common/redis"
	"mindcare/internal/config"
	httpapi "mindcare/internal/http"
	"mindcare/internal/identity"
	"mindcare/internal/metrics"
	"mindcare/internal/records"
	"mindcare/internal/reminder"
	"mindcare/internal/repository"
	"mindcare/internal/service"
	"mindcare/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "mindcare")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
		return serve(cfg, log)
	},
}

func serve(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session cache: Redis when enabled, otherwise in memory.
	var kv store.KV = store.NewMemoryKV()
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient = commonredis.NewRedisClient(&cfg.Redis)
		if err := commonredis.Ping(ctx, redisClient); err != nil {
			log.Warn("Redis enabled but unreachable, using in-memory session cache", zap.Error(err))
			_ = commonredis.Close(redisClient)
			redisClient = nil
		} else {
			kv = store.NewRedisKV(redisClient)
		}
	}
	sessions := store.NewSessionCache(kv)
	if u, ok, err := sessions.Restore(ctx); err != nil {
		log.Warn("Failed to restore cached session", zap.Error(err))
	} else if ok {
		log.Info("Restored cached session", zap.String("email", u.Email))
	}

	// Clinic state: Postgres when enabled, otherwise in memory.
	var repo repository.StateRepository = repository.NewMemoryStateRepository()
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			pg := repository.NewPostgresStateRepository(d)
			if err := pg.EnsureSchema(ctx); err != nil {
				_ = database.Close(d)
				return err
			}
			db, repo = d, pg
			log.Info("DB enabled for mindcare")
		} else {
			log.Warn("DB enabled but connection failed, keeping state in memory", zap.Error(err))
		}
	}
	clinicStore, err := service.LoadStore(ctx, repo, cfg.Practice, records.DefaultEnv(), log)
	if err != nil {
		return err
	}
	mutator := service.NewMutator(clinicStore, repo, cfg.Practice.Email, log)

	var provider identity.Provider
	if cfg.Identity.URL != "" {
		provider = identity.NewSupabaseProvider(cfg.Identity.URL, cfg.Identity.APIKey, log)
	} else {
		mem := identity.NewMemoryProvider(log)
		if err := mem.Seed(cfg.Practice.Name, cfg.Practice.Email, cfg.Practice.SeedPassword); err != nil {
			return fmt.Errorf("seed identity: %w", err)
		}
		log.Warn("No identity service configured, using in-process provider", zap.String("email", cfg.Practice.Email))
		provider = mem
	}

	var publisher reminder.Publisher = reminder.NewLogPublisher(log)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		if c, err := mqtt.NewClient(&cfg.MQTT.MQTTConfig, log); err == nil {
			mqttClient = c
			publisher = reminder.NewMQTTPublisher(c, cfg.MQTT.Topic, log)
		} else {
			log.Warn("MQTT enabled but connection failed, reminders will only be logged", zap.Error(err))
		}
	}

	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(provider, sessions, tokens, mutator, log)
	resetSvc := service.NewPasswordResetService(provider, log)
	accountSvc := service.NewAccountService(mutator, log)
	clinicSvc := service.NewClinicService(mutator, publisher, log)

	router := httpapi.NewRouter(log)
	router.UseAuth(httpapi.RequireAuth(tokens, log))
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authSvc, resetSvc, log))
	router.RegisterCatalogRoutes(httpapi.NewCatalogHandler(log))
	router.RegisterAccountRoutes(httpapi.NewAccountHandler(accountSvc, authSvc, log))
	router.RegisterClinicRoutes(httpapi.NewClinicHandler(clinicSvc, log))
	router.RegisterOpsRoutes(metrics.Handler())

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		log.Error("HTTP server stopped", zap.Error(runErr))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	if redisClient != nil {
		_ = commonredis.Close(redisClient)
	}
	if db != nil {
		_ = database.Close(db)
	}
	return runErr
}
