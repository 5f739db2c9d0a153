package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/analytics"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/config"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/event"
	handler "github.com/rilsonjoas/alternativas-br-sub001/internal/handler/http"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/history"
	historyredis "github.com/rilsonjoas/alternativas-br-sub001/internal/history/redis"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/service"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source/catalogapi"
	essource "github.com/rilsonjoas/alternativas-br-sub001/internal/source/elasticsearch"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source/memory"
	pgsource "github.com/rilsonjoas/alternativas-br-sub001/internal/source/postgres"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/suggest"
	"github.com/rilsonjoas/alternativas-br-sub001/migrations"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/database"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/health"
	pkgkafka "github.com/rilsonjoas/alternativas-br-sub001/pkg/kafka"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/middleware"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/tracing"
)

// closer releases one external resource on shutdown.
type closer struct {
	name  string
	close func() error
}

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	consumers      []*pkgkafka.Consumer
	closers        []closer
	shutdownTracer tracing.ShutdownFunc
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// On error every resource opened so far is released.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.closeResources()
		}
	}()

	a.shutdownTracer, err = tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  config.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.SampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	healthHandler := health.NewHandler()

	src, err := a.buildSource(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := source.NewSnapshot(src, cfg.SnapshotTTL, logger)
	healthHandler.Register("entity_source", snapshot.Ping)

	store, err := a.buildHistoryStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{service.WithRecommendLimit(cfg.RecommendDefaultLimit)}
	if cfg.AnalyticsEnabled {
		producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		a.closers = append(a.closers, closer{"kafka producer", producer.Close})
		opts = append(opts, service.WithAnalytics(
			analytics.NewKafkaSink(producer, cfg.AnalyticsTopic, config.ServiceName, logger),
		))
		logger.Info("search analytics enabled", slog.String("topic", cfg.AnalyticsTopic))
	}

	if cfg.ProductEventsEnabled {
		eventConsumer := event.NewConsumer(snapshot, logger)
		for _, topic := range event.Topics() {
			c := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  cfg.ProductEventsGroup,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6, // 10 MB
			}, eventConsumer.Handle, logger)
			a.consumers = append(a.consumers, c)
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(a.consumers)),
		)
	}

	if cfg.UsesKafka() {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}

	catalogService := service.NewCatalogService(
		snapshot,
		history.NewService(store, logger),
		suggest.NewGenerator(snapshot, logger),
		logger,
		opts...,
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	router := handler.NewRouter(catalogService, healthHandler, handler.RouterConfig{
		ServiceName:     config.ServiceName,
		CORS:            cors,
		SuggestDebounce: cfg.SuggestDebounce,
		RequestTimeout:  cfg.RequestTimeout,
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// buildSource opens the configured entity source.
func (a *App) buildSource(ctx context.Context) (source.Source, error) {
	cfg, logger := a.cfg, a.logger

	switch cfg.EntitySource {
	case config.SourcePostgres:
		dbCfg := cfg.Postgres.Database()
		pool, err := database.NewPostgresPool(ctx, &dbCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, closer{"postgres pool", func() error {
			pool.Close()
			return nil
		}})

		if cfg.Postgres.RunMigrations {
			if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, config.ServiceName); err != nil {
			logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}
		logger.Info("postgres entity source initialized",
			slog.String("host", dbCfg.Host),
			slog.String("database", dbCfg.DBName),
		)
		return pgsource.New(pool, cfg.Postgres.SlowQuery, logger), nil

	case config.SourceCatalogAPI:
		logger.Info("catalog API entity source initialized", slog.String("url", cfg.CatalogAPIURL))
		return catalogapi.NewDefault(cfg.CatalogAPIURL, logger), nil

	case config.SourceElasticsearch:
		es, err := essource.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch source: %w", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			return nil, fmt.Errorf("ensure elasticsearch index: %w", err)
		}
		logger.Info("elasticsearch entity source initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
		return es, nil

	default:
		mem, err := memory.FromFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed catalog: %w", err)
		}
		logger.Info("in-memory entity source initialized", slog.String("seed_file", cfg.SeedFile))
		return mem, nil
	}
}

// buildHistoryStore opens the configured search history store.
func (a *App) buildHistoryStore(ctx context.Context, healthHandler *health.Handler) (history.Store, error) {
	if a.cfg.HistoryStore != config.HistoryRedis {
		a.logger.Info("in-memory search history initialized")
		return history.NewMemoryStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	redisCfg := a.cfg.Redis.Database()
	client, err := database.NewRedisClient(connectCtx, redisCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, closer{"redis", client.Close})

	store := historyredis.NewStore(client, a.cfg.HistoryTTL)
	healthHandler.Register("redis", store.Ping)
	a.logger.Info("connected to Redis",
		slog.String("addr", redisCfg.Addr()),
		slog.Int("db", redisCfg.DB),
	)
	return store, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	errs = append(errs, a.closeResources())

	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases resources in reverse opening order.
func (a *App) closeResources() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error(c.name+" close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
