package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

// DefaultTTL is how long a fetched collection is served before refetching.
const DefaultTTL = 5 * time.Minute

// DefaultRetryInterval is how long a failed refresh is remembered; the
// stale collection is served without calling the source in the meantime.
const DefaultRetryInterval = 10 * time.Second

// DefaultFetchTimeout bounds one shared refresh.
const DefaultFetchTimeout = 30 * time.Second

var snapshotRefreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_snapshot_refresh_total",
		Help: "Entity snapshot refresh attempts by result",
	},
	[]string{"result"},
)

// Snapshot caches the last collection fetched from a Source. Callers get
// the same immutable slice until the TTL expires or Invalidate is called;
// a failed refresh keeps serving the previous collection and reports it
// as degraded.
//
// Concurrent refreshes collapse into one source call. The call runs
// detached from any single request, so each caller only waits as long as
// its own context allows.
type Snapshot struct {
	src          Source
	ttl          time.Duration
	retry        time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
	flight       singleflight.Group

	mu        sync.Mutex
	products  []domain.Product
	loaded    bool
	fetchedAt time.Time
	failedAt  time.Time
	stale     bool
	gen       uint64
}

// NewSnapshot creates a snapshot cache over src. A non-positive ttl uses
// DefaultTTL.
func NewSnapshot(src Source, ttl time.Duration, logger *slog.Logger) *Snapshot {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Snapshot{
		src:          src,
		ttl:          ttl,
		retry:        min(DefaultRetryInterval, ttl),
		fetchTimeout: DefaultFetchTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Get returns the current collection. degraded is true when the source
// failed and the last good collection is returned instead. When no fetch
// ever succeeded Get returns domain.ErrDataUnavailable. A canceled ctx
// returns its error unchanged.
func (s *Snapshot) Get(ctx context.Context) (products []domain.Product, degraded bool, err error) {
	s.mu.Lock()
	now := s.now()
	switch {
	case s.loaded && !s.stale && now.Sub(s.fetchedAt) < s.ttl:
		products = s.products
		s.mu.Unlock()
		return products, false, nil
	case s.loaded && !s.failedAt.IsZero() && now.Sub(s.failedAt) < s.retry:
		products = s.products
		s.mu.Unlock()
		return products, true, nil
	}
	s.mu.Unlock()

	ch := s.flight.DoChan("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.([]domain.Product), false, nil
		}
		return s.fallback(ctx, res.Err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, false, ctx.Err()
		}
		return s.fallback(ctx, ctx.Err())
	}
}

// refresh performs one source call and records its outcome.
func (s *Snapshot) refresh(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	fetched, err := s.src.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		snapshotRefreshes.WithLabelValues("error").Inc()
		s.failedAt = s.now()
		return nil, err
	}

	snapshotRefreshes.WithLabelValues("ok").Inc()
	if fetched == nil {
		fetched = []domain.Product{}
	}
	s.products = fetched
	s.loaded = true
	s.fetchedAt = s.now()
	s.failedAt = time.Time{}
	// An Invalidate that raced this fetch still forces the next refresh.
	s.stale = s.gen != gen
	s.logger.DebugContext(ctx, "entity snapshot refreshed", slog.Int("products", len(fetched)))
	return fetched, nil
}

// fallback serves the last good collection after a failed or abandoned
// refresh.
func (s *Snapshot) fallback(ctx context.Context, cause error) ([]domain.Product, bool, error) {
	s.mu.Lock()
	products, loaded, fetchedAt := s.products, s.loaded, s.fetchedAt
	s.mu.Unlock()

	if !loaded {
		s.logger.WarnContext(ctx, "entity source unavailable, no snapshot to fall back to",
			slog.String("error", cause.Error()),
		)
		return nil, false, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, cause)
	}
	s.logger.WarnContext(ctx, "entity source unavailable, serving last snapshot",
		slog.String("error", cause.Error()),
		slog.Time("fetched_at", fetchedAt),
		slog.Int("products", len(products)),
	)
	return products, true, nil
}

// FetchAll returns the current collection, failing only when no snapshot
// is available. It lets a Snapshot stand in for a Source.
func (s *Snapshot) FetchAll(ctx context.Context) ([]domain.Product, error) {
	products, _, err := s.Get(ctx)
	return products, err
}

// Invalidate forces the next Get to refetch. The previous collection stays
// available as a fallback.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.failedAt = time.Time{}
	s.gen++
	s.mu.Unlock()
}

// Ping probes the underlying source when it supports it.
func (s *Snapshot) Ping(ctx context.Context) error {
	if p, ok := s.src.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
