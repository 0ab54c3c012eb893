package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/sendflow/internal/domain"
)

// sessionRepository implements domain.SessionRepository
type sessionRepository[T any] struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]T
}

// NewSessionRepository creates a new in-process session repository
func NewSessionRepository[T any]() domain.SessionRepository[T] {
	return &sessionRepository[T]{sessions: make(map[uuid.UUID]T)}
}

// Create stores a session; ids must be unique
func (r *sessionRepository[T]) Create(ctx context.Context, id uuid.UUID, session T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("session %s already exists", id)
	}
	r.sessions[id] = session
	return nil
}

// GetByID retrieves a session by its ID
func (r *sessionRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes a session and returns it
func (r *sessionRepository[T]) Delete(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return s, nil
}

// DeleteAll empties the repository and returns what it held
func (r *sessionRepository[T]) DeleteAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, s)
		delete(r.sessions, id)
	}
	return out, nil
}

// Count returns the number of live sessions
func (r *sessionRepository[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
