package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/harshalself/authgate/pkg/slogx"
)

// ErrorBody is the machine-readable half of every rejection.
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"requestId,omitempty"`
	Timestamp  string `json:"timestamp"`
	RetryAfter int    `json:"retryAfter,omitempty"` // seconds
}

// ErrorEnvelope is the response shape for every failed request.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// Meta rides along with successful responses.
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// SuccessEnvelope is the response shape for every successful request.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Meta    Meta   `json:"meta"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteSuccess writes the standard success envelope.
func WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	WriteJSON(w, status, SuccessEnvelope{
		Success: true,
		Data:    data,
		Message: message,
		Meta: Meta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: slogx.RequestID(r.Context()),
		},
	})
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeError(w, r, status, code, message, 0)
}

// WriteErrorRetry is WriteError plus a retryAfter hint in seconds.
func WriteErrorRetry(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, message string,
	retryAfter int,
) {
	writeError(w, r, status, code, message, retryAfter)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, retryAfter int) {
	WriteJSON(w, status, ErrorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:       code,
			Message:    message,
			RequestID:  slogx.RequestID(r.Context()),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			RetryAfter: retryAfter,
		},
	})
}
