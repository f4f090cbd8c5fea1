package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// MessageResponse is the single-message body used for auth, lookup and server failures
type MessageResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
}

// FieldError is one entry of a validation failure body
type FieldError struct {
	Msg   string `json:"msg"`
	Field string `json:"field,omitempty"`
}

// ErrorsResponse is the body returned for input that failed validation
type ErrorsResponse struct {
	Errors []FieldError `json:"errors"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondMessage sends {msg, code} with the given status code.
func RespondMessage(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, MessageResponse{Msg: message, Code: code}, statusCode)
}

// RespondErrors sends {errors: [...]} with the given status code.
func RespondErrors(w http.ResponseWriter, errs []FieldError, statusCode int) {
	RespondJSON(w, ErrorsResponse{Errors: errs}, statusCode)
}

// RespondError sends a single entry errors body, the shape used for
// duplicate account and invalid credential failures.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondErrors(w, []FieldError{{Msg: message}}, statusCode)
}
