// Package response writes the JSON envelope used by middleware that runs
// outside a ctx.Context handler.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/kasir/pkg/apperr"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int         `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Write encodes body with the given status.
func Write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func Success(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends an error envelope whose code is derived from kind.
func Error(w http.ResponseWriter, kind apperr.Kind, message string) {
	status := kind.HTTPStatus()
	Write(w, status, Envelope{Status: status, Code: string(kind), Message: message})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, http.StatusUnprocessableEntity, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Code:    string(apperr.BadRequest),
		Message: "Validation failed",
		Errors:  errs,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, apperr.Unauthorized, message)
}

func Forbidden(w http.ResponseWriter) {
	Error(w, apperr.Forbidden, "Forbidden")
}

func TooManyRequests(w http.ResponseWriter) {
	Write(w, http.StatusTooManyRequests, Envelope{
		Status:  http.StatusTooManyRequests,
		Code:    "TOO_MANY_REQUESTS",
		Message: "Too many requests",
	})
}

func InternalError(w http.ResponseWriter) {
	Error(w, apperr.Internal, "Internal Server Error")
}
