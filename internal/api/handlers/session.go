package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/Harshitk-cp/reason/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	svc    *service.SessionService
	logger *zap.Logger
}

func NewSessionHandler(svc *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

type createSessionRequest struct {
	Name             string   `json:"name" validate:"required,max=200"`
	Verification     string   `json:"verification" validate:"omitempty,oneof=truths_only axiom_priority"`
	Learning         string   `json:"learning" validate:"omitempty,oneof=strict none"`
	CreativityChance *float64 `json:"creativity_chance" validate:"omitempty,gte=0,lte=1"`
	Seed             *int64   `json:"seed"`
	Axioms           []string `json:"axioms" validate:"max=500,dive,equation"`
}

type equationRequest struct {
	Equation string `json:"equation" validate:"required,max=4096,equation"`
}

type thinkRequest struct {
	Cycles           int      `json:"cycles" validate:"gte=0"`
	CreativityChance *float64 `json:"creativity_chance" validate:"omitempty,gte=0,lte=1"`
	Seed             *int64   `json:"seed"`
}

// writeServiceError maps core and service errors to HTTP statuses.
func (h *SessionHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNotSolvable):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, algebra.ErrParse),
		errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrInvalidThinkArgs),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrInvalidPolicy),
		errors.Is(err, service.ErrSessionNameEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.svc.Create(r.Context(), service.CreateSessionInput{
		Name:             req.Name,
		Verification:     domain.VerificationMode(req.Verification),
		Learning:         domain.LearningPolicy(req.Learning),
		CreativityChance: req.CreativityChance,
		Seed:             req.Seed,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to create session")
		return
	}
	id := view.ID
	for _, text := range req.Axioms {
		if view, err = h.svc.AcceptAxiom(r.Context(), id, text); err != nil {
			if derr := h.svc.Delete(r.Context(), id); derr != nil {
				h.logger.Warn("failed to discard session", zap.String("session_id", id.String()), zap.Error(derr))
			}
			h.writeServiceError(w, err, "failed to accept axiom")
			return
		}
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	sessions, err := h.svc.List(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) AcceptAxiom(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req equationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.svc.AcceptAxiom(r.Context(), id, req.Equation)
	if err != nil {
		h.writeServiceError(w, err, "failed to accept axiom")
		return
	}
	writeJSON(w, http.StatusCreated, view.Snapshot)
}

func (h *SessionHandler) AddTruth(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req equationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	learned, err := h.svc.AddTruth(r.Context(), id, req.Equation)
	if err != nil {
		h.writeServiceError(w, err, "failed to add truth")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"learned": learned})
}

func (h *SessionHandler) SimplifyTruth(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid truth index")
		return
	}
	before, after, err := h.svc.SimplifyTruth(r.Context(), id, index)
	if err != nil {
		h.writeServiceError(w, err, "failed to simplify truth")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"before": before, "after": after})
}

func (h *SessionHandler) SolveFor(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	symbol := chi.URLParam(r, "symbol")
	solution, err := h.svc.SolveFor(r.Context(), id, symbol)
	if err != nil {
		h.writeServiceError(w, err, "failed to solve")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"symbol": symbol, "solution": solution})
}

func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req equationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	verdict, err := h.svc.Verify(r.Context(), id, req.Equation)
	if err != nil {
		h.writeServiceError(w, err, "failed to verify hypothesis")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hypothesis": req.Equation, "verdict": verdict})
}

func (h *SessionHandler) Think(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req thinkRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Think(r.Context(), id, service.ThinkInput{
		Cycles:           req.Cycles,
		CreativityChance: req.CreativityChance,
		Seed:             req.Seed,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to think")
		return
	}
	if result.Events == nil {
		result.Events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, result)
}
