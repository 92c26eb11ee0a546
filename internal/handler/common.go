package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/middleware"
	"github.com/google/uuid"
)

type ErrorResponse struct { // TypeGen: ErrorResponse
	BaseResponse
	Error   string    `json:"error"`
	Details *[]string `json:"details,omitempty"`
	Code    *string   `json:"error_code,omitempty"`
}

type BaseResponse struct { // TypeGen: DefaultResponse
	Ok bool `json:"ok"`
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithDomainError maps an orchestrator error to its HTTP
// status via the error's code and writes the response.
func respondWithDomainError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)
	respondWithJSON(w, httpStatusOf(code), ErrorResponse{Error: err.Error(), Code: &code})
}

func httpStatusOf(code string) int {
	switch code {
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeAlreadyExists, domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeExpired:
		return http.StatusGone
	case domain.CodeInvalidScope, domain.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails, logs the error and sends a plain text response
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// actorFrom extracts the authenticated user's id from the request
// context. It returns uuid.Nil when the request is anonymous.
func actorFrom(r *http.Request) uuid.UUID {
	raw, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// emailFrom extracts the validated email claim from the request
// context. Empty when the token carried no email.
func emailFrom(r *http.Request) string {
	email, _ := r.Context().Value(middleware.UserEmailKey).(string)
	return email
}

// pathID parses one uuid path parameter, already extracted by the
// router.
func pathID(w http.ResponseWriter, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
