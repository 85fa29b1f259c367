package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"order-management/internal/middleware"
	"order-management/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

// writeError writes the standard error payload, tagged with the request's
// correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, label, message string, logger zerolog.Logger) {
	correlationID := middleware.CorrelationID(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().
			Str("error", message).
			Int("status", status).
			Str("correlation_id", correlationID).
			Msg("handler error")
	} else {
		logger.Debug().
			Str("error", message).
			Int("status", status).
			Str("correlation_id", correlationID).
			Msg("request rejected")
	}
	writeJSON(w, status, model.ErrorResponse{
		Error:         label,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service-layer error to its fixed status code and
// payload. Validation failures return the bare field→message map.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var (
		notFound   *model.NotFoundError
		validation *model.ValidationError
		database   *model.DatabaseError
		service    *model.ServiceError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusNotFound, model.ErrLabelNotFound, notFound.Error(), logger)
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, validation.Fields)
	case errors.As(err, &database):
		writeError(w, r, http.StatusInternalServerError, model.ErrLabelDatabase, database.Error(), logger)
	case errors.As(err, &service):
		writeError(w, r, http.StatusInternalServerError, model.ErrLabelService, service.Error(), logger)
	default:
		writeError(w, r, http.StatusInternalServerError, model.ErrLabelInternalError, err.Error(), logger)
	}
}
