package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"projet/internal/geo/cache"
	"projet/internal/geo/events"
	"projet/internal/geo/handler"
	geometrics "projet/internal/geo/metrics"
	"projet/internal/geo/service"
	citystore "projet/internal/geo/store/city"
	playerstore "projet/internal/geo/store/player"
	regionstore "projet/internal/geo/store/region"
	"projet/internal/platform/config"
	"projet/internal/platform/httpserver"
	"projet/internal/platform/logger"
	"projet/internal/platform/metrics"
	"projet/internal/platform/postgres"
	platformredis "projet/internal/platform/redis"
	"projet/pkg/platform/circuit"
)

func newServeCmd(cfg *config.Server) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg, migrate)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (env: PROJET_ADDR)")
	cmd.Flags().StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "Redis URL for the record cache (env: REDIS_URL)")
	cmd.Flags().StringSliceVar(&cfg.Kafka.Brokers, "kafka-brokers", cfg.Kafka.Brokers, "Kafka seed brokers (env: KAFKA_BROKERS)")
	cmd.Flags().BoolVar(&cfg.Kafka.EnsureTopic, "ensure-topic", cfg.Kafka.EnsureTopic, "Create the events topic on start (env: KAFKA_ENSURE_TOPIC)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the schema before serving")
	return cmd
}

// runServe wires the stores, cache, publisher and HTTP stack and blocks
// until the context is cancelled or a signal arrives.
func runServe(ctx context.Context, cfg config.Server, migrate bool) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := map[string]healthCheck{}

	var tx service.StoreTx
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		if migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
		}
		tx = newPostgresStoreTx(db, cfg.Database.TxTimeout)
		checks["postgres"] = db.PingContext
		log.InfoContext(ctx, "using postgres stores")
	} else {
		tx = service.NewInMemoryTx(service.Stores{
			Regions: regionstore.NewInMemory(),
			Cities:  citystore.NewInMemory(),
			Players: playerstore.NewInMemory(),
		}, cfg.Database.TxTimeout)
		log.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
	}

	var recordCache cache.Cache = cache.Nop{}
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		recordCache = cache.NewRedis(redisClient.Client, cache.WithTTL(cfg.Redis.CacheTTL))
		checks["redis"] = redisClient.Health
		log.InfoContext(ctx, "record cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	var publisher events.Publisher = events.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			events.WithLogger(log),
			events.WithFallback(publisher),
			events.WithBreaker(circuit.New("kafka-events")),
		)
		if err != nil {
			return err
		}
		defer kafka.Close()
		if cfg.Kafka.EnsureTopic {
			if err := kafka.EnsureTopic(ctx, cfg.Kafka.ReplicationFactor); err != nil {
				return err
			}
		}
		publisher = kafka
		log.InfoContext(ctx, "publishing change events to kafka", "topic", cfg.Kafka.Topic)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithCache(recordCache),
		service.WithPublisher(publisher),
		service.WithMetrics(geometrics.New(reg)),
		service.WithSecretCost(cfg.Secrets.BcryptCost),
	}
	api := handler.New(
		service.NewRegionService(tx, opts...),
		service.NewCityService(tx, opts...),
		service.NewPlayerService(tx, opts...),
		log,
	)

	router := newRouter(routerConfig{
		Logger:         log,
		Registry:       reg,
		HTTPMetrics:    metrics.NewHTTP(reg),
		API:            api,
		Checks:         checks,
		RequestTimeout: cfg.RequestTimeout,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting projet", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
