package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/arogyahq/care-platform/internal/core/domain"
)

// envelope is the uniform response body. Timestamp is RFC3339 UTC.
type envelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       any              `json:"data,omitempty"`
	Pagination *domain.PageMeta `json:"pagination,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

func respond(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondData(w http.ResponseWriter, status int, message string, data any) {
	respond(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, message string, data any, meta domain.PageMeta) {
	respond(w, http.StatusOK, envelope{Success: true, Message: message, Data: data, Pagination: &meta})
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch domain.ClassOf(err) {
	case domain.ClassValidation:
		status, message = http.StatusBadRequest, err.Error()
	case domain.ClassUnauthenticated:
		status, message = http.StatusUnauthorized, err.Error()
	case domain.ClassForbidden:
		status, message = http.StatusForbidden, err.Error()
	case domain.ClassNotFound:
		status, message = http.StatusNotFound, err.Error()
	case domain.ClassConflict:
		status, message = http.StatusConflict, err.Error()
	default:
		log.Printf("internal error: %v", err)
	}

	respond(w, status, envelope{Success: false, Message: message})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respond(w, http.StatusBadRequest, envelope{Success: false, Message: message})
}

func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
