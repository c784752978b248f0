package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	jwttoken "pavrica/internal/jwt_token"
	"pavrica/internal/platform/config"
	"pavrica/internal/platform/httpserver"
	"pavrica/internal/platform/kafka"
	"pavrica/internal/platform/logger"
	"pavrica/internal/platform/metrics"
	"pavrica/internal/platform/middleware"
	"pavrica/internal/platform/postgres"
	platformredis "pavrica/internal/platform/redis"
	"pavrica/internal/rica/audit"
	"pavrica/internal/rica/carrier"
	"pavrica/internal/rica/handler"
	"pavrica/internal/rica/service"
	"pavrica/internal/rica/store"
	"pavrica/internal/rica/token"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal/rica packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		fatal(log, "database connection failed", err)
	}
	defer db.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		fatal(log, "redis connection failed", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := kafka.NewPublisher(ctx, cfg.Kafka)
	if err != nil {
		fatal(log, "kafka connection failed", err)
	}
	if publisher != nil {
		defer publisher.Close()
	}

	m := metrics.New()
	ricaStore := store.NewPostgres(db)

	carrierHTTP := &http.Client{Timeout: cfg.Carrier.RequestTimeout}

	authenticator, err := token.NewAuthenticator(carrierHTTP, cfg.Carrier.AuthURL)
	if err != nil {
		fatal(log, "authenticator setup failed", err)
	}

	cacheOpts := []token.Option{token.WithLogger(log), token.WithMetrics(m)}
	if redisClient != nil {
		cacheOpts = append(cacheOpts, token.WithMirror(token.NewRedisMirror(redisClient.Client)))
	}
	tokenCache, err := token.NewCache(authenticator, ricaStore, cacheOpts...)
	if err != nil {
		fatal(log, "token cache setup failed", err)
	}
	if err := tokenCache.Seed(ctx); err != nil {
		log.Warn("token cache seed failed", "error", err.Error())
	}

	submitter, err := carrier.NewSubmitter(
		carrier.NewClient(carrierHTTP),
		cfg.Carrier.RegistrationURLs,
		carrier.WithLogger(log),
		carrier.WithMetrics(m),
	)
	if err != nil {
		fatal(log, "submitter setup failed", err)
	}

	svcOpts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}
	var recorder *audit.Recorder
	if publisher != nil {
		recorder = audit.NewRecorder(publisher, 256, log)
		svcOpts = append(svcOpts, service.WithAuditRecorder(recorder))
		go func() {
			if err := recorder.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("audit recorder stopped", "error", err.Error())
			}
		}()
	}

	ricaService, err := service.New(tokenCache, submitter, ricaStore, svcOpts...)
	if err != nil {
		fatal(log, "service setup failed", err)
	}

	var jwtValidator middleware.JWTValidator
	if cfg.Server.JWTSigningKey != "" {
		jwtValidator = jwttoken.NewJWTServiceAdapter(
			jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "pavrica"))
	}

	health := []handler.HealthCheck{
		{Name: "postgres", Check: db.PingContext},
	}
	if redisClient != nil {
		health = append(health, handler.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	router := chi.NewRouter()
	handler.New(ricaService, log, m, jwtValidator, health...).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting pavrica gateway",
		"addr", cfg.Server.Addr,
		"registration_endpoints", len(cfg.Carrier.RegistrationURLs),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err.Error())
	os.Exit(1)
}
