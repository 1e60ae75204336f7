package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fortuna/services/cfb-analytics-service/internal/cache"
	"github.com/fortuna/services/cfb-analytics-service/internal/config"
	"github.com/fortuna/services/cfb-analytics-service/internal/consumer"
	"github.com/fortuna/services/cfb-analytics-service/internal/db"
	"github.com/fortuna/services/cfb-analytics-service/internal/handlers"
	"github.com/fortuna/services/cfb-analytics-service/internal/hub"
	"github.com/fortuna/services/cfb-analytics-service/internal/logging"
	"github.com/fortuna/services/cfb-analytics-service/internal/middleware"
	"github.com/fortuna/services/cfb-analytics-service/internal/poller"
	"github.com/fortuna/services/cfb-analytics-service/internal/providers/cfbd"
	"github.com/fortuna/services/cfb-analytics-service/internal/publisher"
	"github.com/fortuna/services/cfb-analytics-service/internal/registry"
	"github.com/fortuna/services/cfb-analytics-service/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.Component(logger, "main")

	log.Info("starting cfb analytics service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	redisClient, err := newRedisClient(cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("failed to parse Redis URL")
	}
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	pingCancel()
	log.WithField("addr", cfg.Redis.URL).Info("connected to Redis")

	// Play parser
	parsers := registry.New()
	parser, err := parsers.Get(cfg.Analysis.PlayParser)
	if err != nil {
		log.WithError(err).WithField("available", parsers.Keys()).Fatal("unknown play parser")
	}

	// Optional sinks
	sinks := publisher.Fanout{publisher.NewStreamPublisher(redisClient, cfg.Redis.Stream)}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := publisher.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to AMQP")
		}
		defer amqpPublisher.Close()
		sinks = append(sinks, amqpPublisher)
		log.WithField("exchange", cfg.AMQP.Exchange).Info("publishing to AMQP")
	}

	opts := service.Options{
		Source:     cfbd.New(cfbdOptions(cfg.Provider), logging.Component(logger, "cfbd")),
		Parser:     parser,
		Cache:      cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL),
		Publisher:  sinks,
		TopPlayers: cfg.Analysis.TopPlayers,
		Logger:     logging.Component(logger, "service"),
	}

	if cfg.Archive.DSN != "" {
		archive, err := db.Open(cfg.Archive.Driver, cfg.Archive.DSN)
		if err != nil {
			log.WithError(err).Fatal("failed to open grade archive")
		}
		defer archive.Close()

		if err := archive.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to prepare grade archive")
		}
		opts.Archive = archive
		log.WithField("driver", cfg.Archive.Driver).Info("grade archive enabled")
	}

	// Live push
	wsHub := hub.NewHub(logging.Component(logger, "hub"))
	go wsHub.Run(ctx)

	switch cfg.Hub.Source {
	case "stream":
		streamConsumer := consumer.NewStreamConsumer(redisClient, cfg.Redis.Stream, wsHub, logging.Component(logger, "consumer"))
		go streamConsumer.Start(ctx)
	default:
		opts.Broadcaster = wsHub
	}

	svc := service.New(opts)

	// Background refresh of tracked games
	gamePoller := poller.NewGamePoller(svc, cfg.Poller.TrackedGames, cfg.Poller.Interval, logging.Component(logger, "poller"))
	go gamePoller.Run(ctx)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logging.Component(logger, "http")))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	handlers.NewHandler(ctx, svc, wsHub, logging.Component(logger, "handlers")).Register(r)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
		}
	case sig := <-shutdown:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		srv.Close()
	}

	log.Info("cfb analytics service stopped")
}

// newRedisClient accepts either a redis:// URL or a bare host:port
func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if strings.Contains(cfg.URL, "://") {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
	}), nil
}

func cfbdOptions(cfg config.ProviderConfig) cfbd.Options {
	return cfbd.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}
}
