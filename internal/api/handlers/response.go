package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/facturador/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type errorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type statusResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindAuthentication, domain.KindAuthorization:
		return http.StatusUnauthorized
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindPersistence:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func classify(err error) *domain.Error {
	if de, ok := domain.AsError(err); ok {
		return de
	}
	return domain.PersistenceFailure(err)
}

// writeDomainError renders only the caller-safe parts of err.
func writeDomainError(w http.ResponseWriter, err error) {
	de := classify(err)
	writeJSON(w, StatusFor(de.Kind), errorResponse{Error: de.Message, Code: de.Code, Fields: de.Fields})
}

func writeStatusError(w http.ResponseWriter, err error) {
	de := classify(err)
	writeJSON(w, StatusFor(de.Kind), statusResponse{Message: de.Message, Code: de.Code, Fields: de.Fields})
}
