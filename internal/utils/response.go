package utils

import (
	"encoding/json"
	"net/http"

	"peerprep/interview/internal/models"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Error writes a structured error response, mapping the taxonomy kind
// to an HTTP status.
func Error(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case models.ErrNotFound:
		status = http.StatusNotFound
	case models.ErrInvalidInput:
		status = http.StatusBadRequest
	case models.ErrAlreadyCompleted:
		status = http.StatusConflict
	case models.ErrNoCreditsRemaining:
		status = http.StatusPaymentRequired
	case models.ErrUpstreamUnavailable:
		status = http.StatusBadGateway
	}

	msg := err.Error()
	if ie, ok := err.(*models.InterviewError); ok {
		msg = ie.Message
	}

	JSON(w, status, models.ErrorResponse{
		Code:    string(kind),
		Message: msg,
	})
}
