// Package response writes the JSON envelope for handlers that run outside huma:
// router fallbacks, panics and middleware rejections.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
)

// Envelope is the success body: {success, message, data}. Data is always present, possibly null.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the failure body. Stack is only filled outside production.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  any      `json:"errors,omitempty"`
	Stack   []string `json:"stack,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, message string, data any, logger *slog.Logger) {
	write(w, status, Envelope{Success: true, Message: message, Data: data}, logger)
}

// Error writes an error envelope with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	write(w, status, ErrorEnvelope{Success: false, Message: message}, logger)
}

// ErrorWithDetails writes an error envelope carrying field errors.
func ErrorWithDetails(w http.ResponseWriter, status int, message string, details any, logger *slog.Logger) {
	write(w, status, ErrorEnvelope{Success: false, Message: message, Errors: details}, logger)
}

// NotFound writes the 404 for unknown routes.
func NotFound(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.MsgRouteNotFound, logger)
}

// MethodNotAllowed writes a 405.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, domainerrors.MsgMethodNotAllowed, logger)
}

// TooManyRequests writes a 429.
func TooManyRequests(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, domainerrors.MsgTooManyRequests, logger)
}

// InternalError writes a 500 with the generic message. Details never reach the client.
func InternalError(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, domainerrors.MsgServerError, logger)
}

func write(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
