package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
	"github.com/simaogato/sendflow/pkg/logger"
)

// Session is a live flow as seen by a transport
type Session struct {
	ID   uuid.UUID `json:"id"`
	View flow.View `json:"view"`
}

// OpenRequest is the host config a transport asks a session to start from.
// Unset fields fall back to the service defaults; a nil amount is unset,
// an explicit zero is kept.
type OpenRequest struct {
	AmountMinorUnits *int64            `json:"amount_minor_units,omitempty"`
	SenderID         string            `json:"sender_id,omitempty"`
	ReceiverID       string            `json:"receiver_id,omitempty"`
	MethodID         string            `json:"method_id,omitempty"`
	Layout           domain.CardLayout `json:"layout,omitempty"`
	Surface          domain.Surface    `json:"surface,omitempty"`
}

// SessionService hosts flow machines keyed by session id
type SessionService struct {
	CatalogRepo domain.CatalogRepository
	SessionRepo domain.SessionRepository[*flow.Machine]
	Publisher   domain.EventPublisher
	Timing      flow.Timing
	Scheduler   flow.Scheduler
	Defaults    domain.HostConfig
}

// NewSessionService creates a new SessionService instance
func NewSessionService(
	catalogRepo domain.CatalogRepository,
	sessionRepo domain.SessionRepository[*flow.Machine],
	publisher domain.EventPublisher,
	timing flow.Timing,
	scheduler flow.Scheduler,
	defaults domain.HostConfig,
) *SessionService {
	return &SessionService{
		CatalogRepo: catalogRepo,
		SessionRepo: sessionRepo,
		Publisher:   publisher,
		Timing:      timing,
		Scheduler:   scheduler,
		Defaults:    defaults,
	}
}

// Open mounts a new flow.
// Logic:
//  1. Fill unset request fields from the service defaults
//  2. Validate the host and its draft against the current catalog
//  3. Build a machine over a catalog snapshot and store it
func (s *SessionService) Open(ctx context.Context, req OpenRequest) (Session, error) {
	host := s.withDefaults(req)

	cat, err := s.CatalogRepo.Get(ctx)
	if err != nil {
		return Session{}, err
	}
	if err := validateHost(cat, host); err != nil {
		return Session{}, err
	}

	opts := []flow.Option{flow.WithTiming(s.Timing)}
	if s.Scheduler != nil {
		opts = append(opts, flow.WithScheduler(s.Scheduler))
	}
	if s.Publisher != nil {
		opts = append(opts, flow.WithPublisher(s.Publisher))
	}

	id := uuid.New()
	m := flow.NewMachine(id, cat, host, opts...)
	if err := m.State().Draft.Validate(); err != nil {
		m.Close()
		return Session{}, fmt.Errorf("%w: %v", domain.ErrInvalidHost, err)
	}
	if err := s.SessionRepo.Create(ctx, id, m); err != nil {
		m.Close()
		return Session{}, err
	}

	logger.Log.Info("session opened",
		logger.String("session_id", id.String()),
		logger.Int64("amount_minor_units", host.AmountMinorUnits),
		logger.String("sender", host.SenderID),
		logger.String("receiver", host.ReceiverID),
		logger.String("surface", string(host.Surface)))

	return Session{ID: id, View: m.View()}, nil
}

// Dispatch applies a user action to a session
func (s *SessionService) Dispatch(ctx context.Context, id uuid.UUID, action flow.Action) (Session, error) {
	m, err := s.SessionRepo.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	before := m.State()
	v := m.Dispatch(action)
	if m.State() == before {
		logger.Log.Debug("action had no effect",
			logger.String("session_id", id.String()),
			logger.String("action", fmt.Sprintf("%T", action)),
			logger.String("flow", string(v.Flow)),
			logger.Uint64("epoch", v.Epoch),
			logger.Float("progress", v.Progress))
	}
	return Session{ID: id, View: v}, nil
}

// View returns the current view of a session
func (s *SessionService) View(ctx context.Context, id uuid.UUID) (Session, error) {
	m, err := s.SessionRepo.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id, View: m.View()}, nil
}

// Reset rebuilds a session from its host config, invalidating any pending
// timers. Layout changes made since opening are kept.
func (s *SessionService) Reset(ctx context.Context, id uuid.UUID) (Session, error) {
	m, err := s.SessionRepo.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	v := m.Dispatch(flow.Reset{Host: m.State().Host})
	return Session{ID: id, View: v}, nil
}

// Close unmounts a session
func (s *SessionService) Close(ctx context.Context, id uuid.UUID) error {
	m, err := s.SessionRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	m.Close()
	logger.Log.Info("session closed", logger.String("session_id", id.String()))
	return nil
}

// CloseAll unmounts every live session, stopping their timers, and returns
// how many were closed
func (s *SessionService) CloseAll(ctx context.Context) (int, error) {
	machines, err := s.SessionRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, m := range machines {
		m.Close()
	}
	if len(machines) > 0 {
		logger.Log.Info("sessions closed", logger.Int("count", len(machines)))
	}
	return len(machines), nil
}

// Subscribe streams every view change of a session to fn
func (s *SessionService) Subscribe(ctx context.Context, id uuid.UUID, fn func(flow.View)) (func(), error) {
	m, err := s.SessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Subscribe(fn), nil
}

// Recipients lists who the session's current sender can pay
func (s *SessionService) Recipients(ctx context.Context, id uuid.UUID, query string) ([]domain.Party, error) {
	m, err := s.SessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cat, err := s.CatalogRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return cat.SearchRecipients(m.State().Draft.SenderID, query), nil
}

// Catalog returns the current catalog
func (s *SessionService) Catalog(ctx context.Context) (domain.Catalog, error) {
	return s.CatalogRepo.Get(ctx)
}

func (s *SessionService) withDefaults(req OpenRequest) domain.HostConfig {
	host := s.Defaults
	if req.AmountMinorUnits != nil {
		host.AmountMinorUnits = *req.AmountMinorUnits
	}
	if req.SenderID != "" {
		host.SenderID = req.SenderID
	}
	if req.ReceiverID != "" {
		host.ReceiverID = req.ReceiverID
	}
	if req.MethodID != "" {
		host.MethodID = req.MethodID
	}
	if req.Layout != "" {
		host.Layout = req.Layout
	}
	if req.Surface != "" {
		host.Surface = req.Surface
	}
	return host
}

func validateHost(cat domain.Catalog, host domain.HostConfig) error {
	if host.AmountMinorUnits < 0 {
		return fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidHost)
	}
	if host.Layout != "" && !host.Layout.Valid() {
		return fmt.Errorf("%w: unknown layout %q", domain.ErrInvalidHost, host.Layout)
	}
	if host.Surface != "" && !host.Surface.Valid() {
		return fmt.Errorf("%w: unknown surface %q", domain.ErrInvalidHost, host.Surface)
	}
	if _, ok := cat.Party(host.SenderID); !ok {
		return fmt.Errorf("%w: sender %q", domain.ErrPartyNotFound, host.SenderID)
	}
	if _, ok := cat.Party(host.ReceiverID); !ok {
		return fmt.Errorf("%w: receiver %q", domain.ErrPartyNotFound, host.ReceiverID)
	}
	if _, ok := cat.Method(host.MethodID); !ok {
		return fmt.Errorf("%w: %q", domain.ErrMethodNotFound, host.MethodID)
	}
	return nil
}
