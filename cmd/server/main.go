// Command server runs the platform API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/flowmatic-labs/platform/internal/app"
	"github.com/flowmatic-labs/platform/internal/app/httpapi"
	onboardingsvc "github.com/flowmatic-labs/platform/internal/app/services/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/storage/postgres"
	"github.com/flowmatic-labs/platform/internal/config"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

func main() {
	// A missing .env file is fine; variables may come from the process
	// environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("server").WithError(err).Fatal("load configuration")
	}

	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	}).WithField("service", "server")

	stores := app.Stores{}
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.WithError(err).Fatal("connect to postgres")
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnLifetime)
		defer db.Close()

		store := postgres.New(db)
		if err := store.Migrate(); err != nil {
			log.WithError(err).Fatal("run migrations")
		}
		stores = app.Stores{
			Users:        store,
			Sessions:     store,
			Onboarding:   store,
			Wallets:      store,
			Interactions: store,
			Payments:     store,
			Admin:        store,
		}
		log.Info("postgres storage configured")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	var drafts onboardingsvc.DraftCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		drafts = onboardingsvc.NewRedisDraftCache(client)
		log.WithField("addr", cfg.Redis.Addr).Info("redis draft cache configured")
	}

	application, err := app.New(stores, app.Options{
		JWTSecret:         []byte(cfg.Auth.JWTSecret),
		TokenTTL:          cfg.Auth.TokenTTL,
		WebhookBaseURL:    cfg.Webhook.BaseURL,
		WebhookAPIKey:     cfg.Webhook.APIKey,
		WebhookTimeout:    cfg.Webhook.Timeout,
		WebhookMaxRetries: cfg.Webhook.MaxRetries,
		Drafts:            drafts,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("build application")
	}

	api := httpapi.NewServer(
		application.Accounts,
		application.Onboarding,
		application.Wallets,
		application.Insights,
		application.Automations,
		application.Payments,
		application.Admin,
		application.Chatbot,
		httpapi.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RatePerSecond:  cfg.RateLimit.RequestsPerSecond,
			RateBurst:      cfg.RateLimit.Burst,
		},
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		log.WithError(err).Fatal("start application services")
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application shutdown")
	}
}
