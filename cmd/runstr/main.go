package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/bohemia111/RUNSTR-sub012/internal/cache"
	"github.com/bohemia111/RUNSTR-sub012/internal/collector"
	"github.com/bohemia111/RUNSTR-sub012/internal/config"
	"github.com/bohemia111/RUNSTR-sub012/internal/handlers"
	"github.com/bohemia111/RUNSTR-sub012/internal/logging"
	"github.com/bohemia111/RUNSTR-sub012/internal/relay"
	"github.com/bohemia111/RUNSTR-sub012/internal/repository"
	"github.com/bohemia111/RUNSTR-sub012/internal/scheduler"
	"github.com/bohemia111/RUNSTR-sub012/internal/server"
	"github.com/bohemia111/RUNSTR-sub012/internal/service"
	"github.com/bohemia111/RUNSTR-sub012/internal/validator"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With("service", "runstr")
	logging.SetDefault(logger)

	logger.Info("Starting leaderboard service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"relays", cfg.NATS.Relays,
	)

	// Run database migrations
	log.Println("Running database migrations...")
	m, err := migrate.New("file://migrations", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize repository
	repo, err := repository.NewPostgresRepository(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer repo.Close()

	// Initialize snapshot cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	snapshots := cache.NewRedisStore(redisClient, cfg.Redis.SnapshotTTL)
	defer snapshots.Close()

	// Connect to the relay transport
	natsConn, err := nats.Connect(cfg.NATS.URL, nats.Name("runstr-collector"))
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	relays := make([]relay.Client, 0, len(cfg.NATS.Relays))
	for _, name := range cfg.NATS.Relays {
		relays = append(relays, relay.NewNATSRelay(natsConn, name))
	}

	// Initialize the collection and aggregation pipeline
	collectorCfg := collector.DefaultConfig()
	if cfg.Collector.QueryTimeout > 0 {
		collectorCfg.QueryTimeout = cfg.Collector.QueryTimeout
	}
	if cfg.Collector.BatchPause > 0 {
		collectorCfg.BatchPause = cfg.Collector.BatchPause
	}
	if cfg.Collector.CompletenessThreshold > 0 {
		collectorCfg.CompletenessThreshold = cfg.Collector.CompletenessThreshold
	}
	eventCollector := collector.New(relays, collectorCfg, logger)

	svc := service.New(
		eventCollector,
		validator.New(cfg.ValidatorLimits()),
		repo,
		snapshots,
		logger,
	)

	// Start the background refresh scheduler
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(svc, scheduler.Config{
			Interval:       cfg.Scheduler.Interval,
			RefreshTimeout: cfg.Scheduler.RefreshTimeout,
		}, logger)
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("Background refresh scheduler disabled")
	}

	// Initialize HTTP server
	handler := handlers.New(svc, repo)
	router := server.NewRouter(handler, cfg.Auth.JWTSecret)
	if cfg.Auth.JWTSecret == "" {
		log.Println("WARNING: moderation endpoints are unauthenticated (auth.jwt_secret is empty)")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Leaderboard service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
