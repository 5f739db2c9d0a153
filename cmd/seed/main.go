// Package main loads the catalog seed file into PostgreSQL and, optionally,
// into the Elasticsearch index used by the elasticsearch entity source.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/config"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source/elasticsearch"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source/memory"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/source/postgres"
	"github.com/rilsonjoas/alternativas-br-sub001/migrations"
	pkgconfig "github.com/rilsonjoas/alternativas-br-sub001/pkg/config"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/database"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/logger"
)

type seedConfig struct {
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	SeedFile           string `env:"SEED_FILE"`
	SkipPostgres       bool   `env:"SEED_SKIP_POSTGRES" envDefault:"false"`
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"alternativas_products"`
}

func main() {
	var cfg seedConfig
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var pgCfg config.PostgresConfig
	if err := pkgconfig.LoadWithPrefix(&pgCfg, "POSTGRES_"); err != nil {
		slog.Error("failed to load postgres config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, pgCfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg seedConfig, pgCfg config.PostgresConfig, log *slog.Logger) error {
	src, err := memory.FromFile(cfg.SeedFile)
	if err != nil {
		return err
	}
	products, err := src.FetchAll(ctx)
	if err != nil {
		return err
	}
	log.Info("seed catalog loaded", slog.Int("products", len(products)))

	if !cfg.SkipPostgres {
		dbCfg := pgCfg.Database()
		pool, err := database.NewPostgresPool(ctx, &dbCfg, log)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		if err := postgres.New(pool, pgCfg.SlowQuery, log).Upsert(ctx, products); err != nil {
			return fmt.Errorf("upsert products: %w", err)
		}
		log.Info("postgres seeded", slog.String("database", dbCfg.DBName))
	}

	if cfg.ElasticsearchURL != "" {
		es, err := elasticsearch.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, log)
		if err != nil {
			return fmt.Errorf("init elasticsearch: %w", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			return err
		}
		if err := es.BulkIndex(ctx, products); err != nil {
			return err
		}
		log.Info("elasticsearch index seeded", slog.String("index", cfg.ElasticsearchIndex))
	}

	return nil
}
