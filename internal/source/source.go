// Package source provides the entity collection the catalog searches over.
// Each backend (memory, postgres, catalogapi, elasticsearch) implements
// Source; Snapshot caches whichever one is configured.
package source

import (
	"context"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
)

// Source fetches the full product collection.
type Source interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// Pinger is implemented by sources backed by a remote dependency that can
// be probed for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
