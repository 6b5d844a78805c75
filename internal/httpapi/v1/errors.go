package v1

import "net/http"

// errorResponse is the single-error payload (lookup failures, storage
// faults).
type errorResponse struct {
	Error string `json:"error"`
}

// errorsResponse carries the ordered list of validation messages for a 422.
type errorsResponse struct {
	Errors []string `json:"errors"`
}

func badRequest(w http.ResponseWriter, msg string) {
	toJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func notFound(w http.ResponseWriter, msg string) {
	toJSON(w, http.StatusNotFound, errorResponse{Error: msg})
}

func unprocessable(w http.ResponseWriter, violations []string) {
	toJSON(w, http.StatusUnprocessableEntity, errorsResponse{Errors: violations})
}

// storageError reports an infrastructure fault. Rule violations are 422; a
// failed store operation is never folded into them.
func storageError(w http.ResponseWriter, msg string) {
	toJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
}
