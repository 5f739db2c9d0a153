package config

import (
	"fmt"
	"slices"
	"time"

	pkgconfig "github.com/rilsonjoas/alternativas-br-sub001/pkg/config"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/database"
)

// ServiceName labels logs, metrics and traces.
const ServiceName = "catalog"

// Entity sources.
const (
	SourceMemory        = "memory"
	SourcePostgres      = "postgres"
	SourceCatalogAPI    = "catalog_api"
	SourceElasticsearch = "elasticsearch"
)

// History stores.
const (
	HistoryMemory = "memory"
	HistoryRedis  = "redis"
)

// PostgresConfig is read with the POSTGRES_ prefix.
type PostgresConfig struct {
	Host          string        `env:"HOST" envDefault:"localhost"`
	Port          int           `env:"PORT" envDefault:"5432"`
	User          string        `env:"USER" envDefault:"catalog"`
	Password      string        `env:"PASSWORD" envDefault:"catalog"`
	DBName        string        `env:"DB" envDefault:"alternativas"`
	SSLMode       string        `env:"SSLMODE" envDefault:"disable"`
	MaxConns      int32         `env:"MAX_CONNS" envDefault:"10"`
	RunMigrations bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	SlowQuery     time.Duration `env:"SLOW_QUERY" envDefault:"200ms"`
}

// Database converts to the shared pool configuration.
func (p PostgresConfig) Database() database.PostgresConfig {
	cfg := database.DefaultPostgresConfig()
	cfg.Host = p.Host
	cfg.Port = p.Port
	cfg.User = p.User
	cfg.Password = p.Password
	cfg.DBName = p.DBName
	cfg.SSLMode = p.SSLMode
	if p.MaxConns > 0 {
		cfg.MaxConns = p.MaxConns
	}
	return cfg
}

// RedisConfig is read with the REDIS_ prefix.
type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Database converts to the shared client configuration.
func (r RedisConfig) Database() database.RedisConfig {
	return database.RedisConfig{Host: r.Host, Port: r.Port, Password: r.Password, DB: r.DB}
}

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int           `env:"CATALOG_HTTP_PORT" envDefault:"8020"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Entity source
	EntitySource string        `env:"ENTITY_SOURCE" envDefault:"memory"`
	SeedFile     string        `env:"SEED_FILE"`
	SnapshotTTL  time.Duration `env:"SNAPSHOT_TTL" envDefault:"5m"`

	Postgres PostgresConfig `envPrefix:"POSTGRES_"`

	CatalogAPIURL string `env:"CATALOG_API_URL" envDefault:"http://localhost:8080"`

	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"alternativas_products"`

	// Search history
	HistoryStore string        `env:"HISTORY_STORE" envDefault:"memory"`
	HistoryTTL   time.Duration `env:"HISTORY_TTL" envDefault:"720h"`
	Redis        RedisConfig   `envPrefix:"REDIS_"`

	// Kafka
	KafkaBrokers         []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	ProductEventsEnabled bool     `env:"PRODUCT_EVENTS_ENABLED" envDefault:"false"`
	ProductEventsGroup   string   `env:"PRODUCT_EVENTS_GROUP" envDefault:"catalog-search"`
	AnalyticsEnabled     bool     `env:"ANALYTICS_ENABLED" envDefault:"false"`
	AnalyticsTopic       string   `env:"ANALYTICS_TOPIC" envDefault:"alternativas.catalog.search"`

	// Features
	SuggestDebounce       time.Duration `env:"SUGGEST_DEBOUNCE" envDefault:"300ms"`
	RecommendDefaultLimit int           `env:"RECOMMEND_DEFAULT_LIMIT" envDefault:"8"`

	// Tracing
	TracingEnabled bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate     float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UsesKafka reports whether any component needs the brokers.
func (c *Config) UsesKafka() bool {
	return c.ProductEventsEnabled || c.AnalyticsEnabled
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	sources := []string{SourceMemory, SourcePostgres, SourceCatalogAPI, SourceElasticsearch}
	if !slices.Contains(sources, c.EntitySource) {
		return fmt.Errorf("invalid ENTITY_SOURCE %q: must be one of %v", c.EntitySource, sources)
	}
	switch c.EntitySource {
	case SourcePostgres:
		if c.Postgres.Port < 1 || c.Postgres.Port > 65535 {
			return fmt.Errorf("invalid POSTGRES_PORT: %d", c.Postgres.Port)
		}
	case SourceCatalogAPI:
		if c.CatalogAPIURL == "" {
			return fmt.Errorf("CATALOG_API_URL is required for the %s source", SourceCatalogAPI)
		}
	case SourceElasticsearch:
		if c.ElasticsearchURL == "" {
			return fmt.Errorf("ELASTICSEARCH_URL is required for the %s source", SourceElasticsearch)
		}
	}

	if c.HistoryStore != HistoryMemory && c.HistoryStore != HistoryRedis {
		return fmt.Errorf("invalid HISTORY_STORE %q: must be %s or %s", c.HistoryStore, HistoryMemory, HistoryRedis)
	}
	if c.HistoryTTL < 0 {
		return fmt.Errorf("HISTORY_TTL must not be negative")
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive")
	}
	if c.SuggestDebounce <= 0 {
		return fmt.Errorf("SUGGEST_DEBOUNCE must be positive")
	}
	if c.RecommendDefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be positive, got %d", c.RecommendDefaultLimit)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0,1], got %v", c.SampleRate)
	}
	if c.UsesKafka() && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when Kafka features are enabled")
	}
	return nil
}
