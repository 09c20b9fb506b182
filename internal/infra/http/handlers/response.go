package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Message: msg})
}

// writeUseCaseError maps the error taxonomy onto HTTP statuses: domain
// errors are the client's problem, everything else is ours.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if usecase.IsDomainError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError,
		"Something went wrong on our end. Please try again, or email us directly and we'll take care of you.")
}
