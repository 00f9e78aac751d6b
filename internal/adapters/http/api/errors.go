package api

import (
	"errors"
	"net/http"

	"github.com/okian/eventreg/internal/adapters/repository"
	"github.com/okian/eventreg/internal/domain/participant"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("invalid request body")
)

// Response messages.
const (
	msgRegistered     = "Registration successful!"
	msgRegisterFailed = "Error registering participant"
	msgListFailed     = "Error fetching participants"
	msgGetFailed      = "Error fetching participant"
	msgNotFound       = "Participant not found"
	msgUpdated        = "Participant updated successfully!"
	msgUpdateFailed   = "Error updating participant"
	msgDeleted        = "Participant deleted successfully!"
	msgDeleteFailed   = "Error deleting participant"
)

// statusFor maps service errors to the response status: bad input is 400,
// a missing participant is 404, everything else is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, participant.ErrValidation), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeStoreError writes err with the failure message of the operation.
// Not-found replies carry only the message.
func writeStoreError(w http.ResponseWriter, failure string, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		writeJSON(w, status, errorResponse{Message: msgNotFound})
		return
	}
	writeError(w, status, failure, err)
}
