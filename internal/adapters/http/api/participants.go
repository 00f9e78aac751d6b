package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/logger"
)

// ParticipantsHandler serves the participant CRUD routes.
type ParticipantsHandler struct {
	deps   Participants
	logger logger.Logger
}

// NewParticipantsHandler creates a new participants handler.
func NewParticipantsHandler(deps Participants, l logger.Logger) *ParticipantsHandler {
	return &ParticipantsHandler{deps: deps, logger: l}
}

// HandleCreate handles POST /api/participants.
func (h *ParticipantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var f participant.Fields
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, msgRegisterFailed, err)
		return
	}

	p, err := h.deps.Create(r.Context(), f)
	if err != nil {
		h.logFailure(r, "create participant", err)
		writeStoreError(w, msgRegisterFailed, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: msgRegistered, Participant: &p})
}

// HandleList handles GET /api/participants.
func (h *ParticipantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.deps.List(r.Context())
	if err != nil {
		h.logFailure(r, "list participants", err)
		writeError(w, http.StatusInternalServerError, msgListFailed, err)
		return
	}
	if ps == nil {
		ps = []participant.Participant{}
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleGet handles GET /api/participants/{id}.
func (h *ParticipantsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(r, "get participant", err)
		writeStoreError(w, msgGetFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /api/participants/{id}. Absent fields are left unchanged.
func (h *ParticipantsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch participant.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, msgUpdateFailed, err)
		return
	}

	p, err := h.deps.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.logFailure(r, "update participant", err)
		writeStoreError(w, msgUpdateFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgUpdated, Participant: &p})
}

// HandleDelete handles DELETE /api/participants/{id}.
func (h *ParticipantsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logFailure(r, "delete participant", err)
		writeStoreError(w, msgDeleteFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
}

// logFailure logs server-side failures only; client errors are answered and forgotten.
func (h *ParticipantsHandler) logFailure(r *http.Request, op string, err error) {
	if statusFor(err) < http.StatusInternalServerError {
		return
	}
	h.logger.Error(r.Context(), op+" failed",
		logger.String("requestID", middleware.GetReqID(r.Context())),
		logger.Error(err),
	)
}
