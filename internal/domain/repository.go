package domain

import (
	"context"

	"github.com/google/uuid"
)

// CatalogRepository defines access to the fixture catalog
type CatalogRepository interface {
	// Get returns a snapshot of the whole catalog
	Get(ctx context.Context) (Catalog, error)

	// Replace swaps the catalog for a validated one
	Replace(ctx context.Context, catalog Catalog) error
}

// SessionRepository defines the interface for hosting live flow sessions.
// T is the hosted machine type, kept generic so the domain layer does not
// depend on the flow use case.
type SessionRepository[T any] interface {
	// Create stores a new session under id
	Create(ctx context.Context, id uuid.UUID, session T) error

	// GetByID retrieves a session by its ID
	GetByID(ctx context.Context, id uuid.UUID) (T, error)

	// Delete removes a session and returns it so the caller can tear it down
	Delete(ctx context.Context, id uuid.UUID) (T, error)

	// DeleteAll removes every session and returns them
	DeleteAll(ctx context.Context) ([]T, error)

	// Count returns the number of live sessions
	Count(ctx context.Context) (int, error)
}
