package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
	"github.com/simaogato/sendflow/internal/usecase/session"
	"github.com/simaogato/sendflow/pkg/logger"
)

type sessionService interface {
	Open(ctx context.Context, req session.OpenRequest) (session.Session, error)
	View(ctx context.Context, id uuid.UUID) (session.Session, error)
	Dispatch(ctx context.Context, id uuid.UUID, action flow.Action) (session.Session, error)
	Reset(ctx context.Context, id uuid.UUID) (session.Session, error)
	Close(ctx context.Context, id uuid.UUID) error
	Recipients(ctx context.Context, id uuid.UUID, query string) ([]domain.Party, error)
	Catalog(ctx context.Context) (domain.Catalog, error)
}

type SessionHandler struct {
	sessionService sessionService
}

func New(svc sessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: svc,
	}
}

// Router mounts the JSON API
func Router(h *SessionHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/api/catalog", h.Catalog)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.Open)
		r.Get("/{id}", h.View)
		r.Delete("/{id}", h.Close)
		r.Post("/{id}/actions", h.Dispatch)
		r.Post("/{id}/reset", h.Reset)
		r.Get("/{id}/recipients", h.Recipients)
	})

	return r
}

func (h SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var host session.OpenRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&host); err != nil {
			logger.Log.Warn("error while decoding host config", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
	}

	sess, err := h.sessionService.Open(r.Context(), host)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessionService.View(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h SessionHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var wire flow.WireAction
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		logger.Log.Warn("error while decoding an action", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	action, err := wire.Decode()
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.sessionService.Dispatch(r.Context(), id, action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessionService.Reset(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessionService.Close(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SessionHandler) Recipients(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	parties, err := h.sessionService.Recipients(r.Context(), id, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parties)
}

func (h SessionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.sessionService.Catalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Log.Warn("invalid session id", logger.String("session_id", raw))
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrPartyNotFound),
		errors.Is(err, domain.ErrMethodNotFound),
		errors.Is(err, domain.ErrUnknownAction),
		errors.Is(err, domain.ErrInvalidHost):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Log.Error("error while handling request", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("error while encoding response to JSON", logger.Error(err))
	}
}
