package history

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

var historyDegraded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_history_degraded_total",
		Help: "Search history store failures absorbed by the in-memory fallback",
	},
	[]string{"op"},
)

// Service records and lists search history over a Store. Store failures
// never reach the caller: the owner's history degrades to an in-memory
// cache for the lifetime of the process.
type Service struct {
	store    Store
	logger   *slog.Logger
	capacity int
	now      func() time.Time

	mu       sync.Mutex
	fallback map[string]*Cache
}

// NewService creates a history service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		capacity: domain.MaxHistoryEntries,
		now:      func() time.Time { return time.Now().UTC() },
		fallback: make(map[string]*Cache),
	}
}

// Record adds a committed search to owner's history. Blank queries are
// ignored.
func (s *Service) Record(ctx context.Context, owner, query string, criteria domain.FilterCriteria, resultCount int) domain.SearchHistoryEntry {
	query = strings.TrimSpace(query)
	entry := domain.SearchHistoryEntry{
		ID:          uuid.New().String(),
		Query:       query,
		Filters:     criteria,
		ResultCount: resultCount,
		Timestamp:   s.now(),
	}
	if query == "" {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cache := s.load(ctx, owner)
	cache.Record(entry)
	s.save(ctx, owner, cache)
	return entry
}

// List returns owner's history, most recent first. It never fails.
func (s *Service) List(ctx context.Context, owner string) []domain.SearchHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, owner).Entries()
}

// Clear empties owner's history.
func (s *Service) Clear(ctx context.Context, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.fallback, owner)
	if err := s.store.Clear(ctx, owner); err != nil {
		s.degrade(ctx, "clear", owner, err)
		s.fallback[owner] = NewCache(s.capacity)
	}
}

// load returns owner's cache. Once an owner is degraded its fallback cache
// is authoritative; otherwise the store is read and an unreadable store
// yields an empty fallback.
func (s *Service) load(ctx context.Context, owner string) *Cache {
	if c, ok := s.fallback[owner]; ok {
		return c
	}
	entries, err := s.store.Load(ctx, owner)
	if err != nil {
		s.degrade(ctx, "load", owner, err)
		c := NewCache(s.capacity)
		s.fallback[owner] = c
		return c
	}
	return FromEntries(s.capacity, entries)
}

func (s *Service) save(ctx context.Context, owner string, c *Cache) {
	if _, degraded := s.fallback[owner]; degraded {
		return
	}
	if err := s.store.Save(ctx, owner, c.Entries()); err != nil {
		s.degrade(ctx, "save", owner, err)
		s.fallback[owner] = c
	}
}

func (s *Service) degrade(ctx context.Context, op, owner string, err error) {
	historyDegraded.WithLabelValues(op).Inc()
	s.logger.WarnContext(ctx, "search history store failed, using in-memory history",
		slog.String("op", op),
		slog.String("owner", owner),
		slog.String("error", err.Error()),
	)
}
