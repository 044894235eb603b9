package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/rental"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err), errors.Is(err, rental.ErrNilQuote):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsConfiguration(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, rental.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, rental.ErrBikesUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ValidationError{Field: "body", Msg: "malformed request body: " + err.Error()}
	}
	return nil
}
