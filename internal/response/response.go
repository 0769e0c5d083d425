// Package response writes JSON bodies for the HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/Stewz00/chat-auth-service/internal/validation"
)

// Message is the body of every error and acknowledgement response
type Message struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// JSON writes v with the given status code
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"message": message}
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Message{Message: message})
}

// Validation writes a 400 listing every failed field
func Validation(w http.ResponseWriter, verr *validation.ValidationError) {
	JSON(w, http.StatusBadRequest, Message{Message: "Validation failed", Errors: verr.Fields})
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal server error")
}
