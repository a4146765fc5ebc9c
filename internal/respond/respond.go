// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/models"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Error writes err as an error body. Unclassified errors are logged and
// answered with a generic message.
func Error(w http.ResponseWriter, sugar *zap.SugaredLogger, err error) {
	status := Status(err)
	body := ErrorBody{
		Error:   http.StatusText(status),
		Message: err.Error(),
	}

	if status == http.StatusInternalServerError {
		sugar.Errorw("request failed", "error", err)
		body.Message = "internal server error"
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Message = "invalid request payload"
		body.Details = verr.Fields
	}

	JSON(w, status, body)
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: http.StatusText(status), Message: message})
}
