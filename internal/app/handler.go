package app

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/smallwat3r/passcheck/internal/checker"
	"github.com/smallwat3r/passcheck/internal/domain"
	"github.com/smallwat3r/passcheck/internal/utility"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	repo domain.SessionRepository
	ttl  time.Duration
}

func NewHandler(repo domain.SessionRepository, ttl time.Duration) *Handler {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	return &Handler{repo: repo, ttl: ttl}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionReq
	if err := utility.DecodeJSON(r, w, domain.MaxRequestBodySize, &req); err != nil {
		utility.HttpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, ok := checker.ForVariant(req.Variant); !ok {
		utility.HttpError(w, http.StatusBadRequest, "variant must be one of: 1, 2, 3")
		return
	}

	s := domain.Session{ID: uuid.NewString(), Variant: req.Variant}
	if err := h.repo.CreateSession(r.Context(), s, h.ttl); err != nil {
		log.Printf("failed to create session: %v", err)
		utility.HttpError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	utility.WriteJSON(w, http.StatusCreated, domain.CreateSessionRes{
		ID:          s.ID,
		Variant:     s.Variant.String(),
		MaxAttempts: domain.MaxAttempts,
		ExpiresAt:   time.Now().Add(h.ttl).UTC(),
	})
}

func (h *Handler) HandleAttempt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utility.HttpError(w, http.StatusBadRequest, "missing id")
		return
	}

	var req domain.AttemptReq
	if err := utility.DecodeJSON(r, w, domain.MaxRequestBodySize, &req); err != nil {
		utility.HttpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s, err := h.repo.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			utility.HttpError(w, http.StatusNotFound, "not found, expired or locked")
			return
		}
		log.Printf("failed to fetch session: %v", err)
		utility.HttpError(w, http.StatusInternalServerError, "failed to fetch session")
		return
	}

	m, ok := checker.ForVariant(s.Variant)
	if !ok {
		log.Printf("session %s has unknown variant %d", id, int(s.Variant))
		utility.HttpError(w, http.StatusInternalServerError, "corrupted session")
		return
	}

	if m.Match(req.Password) {
		// the session may have been locked since it was read
		attempts, err := h.repo.Succeed(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				utility.HttpError(w, http.StatusNotFound, "not found, expired or locked")
				return
			}
			log.Printf("failed to complete session: %v", err)
			utility.HttpError(w, http.StatusInternalServerError, "failed to complete session")
			return
		}
		s.Attempts = attempts
		utility.WriteJSON(w, http.StatusOK, domain.AttemptRes{OK: true, Remaining: s.Remaining()})
		return
	}

	attempts, err := h.repo.RecordFailure(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			utility.HttpError(w, http.StatusNotFound, "not found, expired or locked")
			return
		}
		log.Printf("failed to record attempt: %v", err)
		utility.HttpError(w, http.StatusInternalServerError, "failed to record attempt")
		return
	}

	s.Attempts = attempts
	utility.WriteJSON(w, http.StatusUnauthorized, domain.AttemptRes{
		OK:        false,
		Remaining: s.Remaining(),
		Locked:    s.Remaining() == 0,
	})
}
