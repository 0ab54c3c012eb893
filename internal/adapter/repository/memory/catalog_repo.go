package memory

import (
	"context"
	"sync"

	"github.com/simaogato/sendflow/internal/domain"
)

// catalogRepository implements domain.CatalogRepository
type catalogRepository struct {
	mu      sync.RWMutex
	catalog domain.Catalog
}

// NewCatalogRepository creates a new catalog repository holding initial
func NewCatalogRepository(initial domain.Catalog) domain.CatalogRepository {
	return &catalogRepository{catalog: cloneCatalog(initial)}
}

// Get returns a copy of the catalog
func (r *catalogRepository) Get(ctx context.Context) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneCatalog(r.catalog), nil
}

// Replace validates and swaps in a new catalog. Running sessions keep the
// snapshot they were opened with.
func (r *catalogRepository) Replace(ctx context.Context, catalog domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = cloneCatalog(catalog)
	return nil
}

func cloneCatalog(c domain.Catalog) domain.Catalog {
	return domain.Catalog{
		Parties: append([]domain.Party(nil), c.Parties...),
		Methods: append([]domain.FundingMethod(nil), c.Methods...),
	}
}
