// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/robopass/robopass/internal/errors"
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// MakeJSONResponse writes a JSON response with the given status code and data
func MakeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse is the wire form of a command failure. Callers dispatch on the
// stable key; the error field is the human-readable message.
type ErrorResponse struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// commandStatus maps a command error to its stable key, message and HTTP status.
// Anything outside the closed set collapses to unexpected.
func commandStatus(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, vaultDomain.ErrInvalidKeeper):
		return http.StatusUnauthorized, ErrorResponse{
			Key:   "invalid_keeper",
			Error: "invalid keeper",
		}

	case apperrors.Is(err, vaultDomain.ErrInvalidReader):
		return http.StatusUnauthorized, ErrorResponse{
			Key:   "invalid_reader",
			Error: "invalid reader",
		}

	case apperrors.Is(err, vaultDomain.ErrInvalidParameter):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Key:   "invalid_parameter",
			Error: "invalid parameter",
		}

	case apperrors.Is(err, vaultDomain.ErrUsernameTaken):
		return http.StatusConflict, ErrorResponse{
			Key:   "username_taken",
			Error: "username already registered",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Key:   "unexpected",
			Error: "unexpected error occurred",
		}
	}
}

// HandleErrorGin maps a command error to its wire form and writes the response.
// The full error chain is logged; only the closed-set variant reaches the client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, response := commandStatus(err)

	if logger != nil {
		logger.Error("command failed",
			slog.Int("status_code", statusCode),
			slog.String("error_key", response.Key),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleValidationErrorGin reports an input-validation failure as the given
// command error. The validation detail is logged, never returned: empty or
// malformed arguments surface exactly like the documented command failure.
func HandleValidationErrorGin(c *gin.Context, validationErr, commandErr error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", validationErr))
	}
	HandleErrorGin(c, commandErr, logger)
}
