package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"microblog/internal/service"
	"microblog/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Success bool `json:"success"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{Error: message}, statusCode)
}

func WriteJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
	{service.ErrUsernameTaken, http.StatusBadRequest, "Username already taken"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrForbidden, http.StatusForbidden, "You can only modify your own posts"},
	{service.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
}

// writeServiceError maps a service error to its response. Anything unknown is
// logged and answered with a generic 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		WriteError(w, verr.Message, http.StatusBadRequest)
		return
	}

	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			WriteError(w, e.message, e.status)
			return
		}
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": RequestIDFromContext(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}).WithError(err).Error("request failed")
	WriteError(w, "Internal server error", http.StatusInternalServerError)
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Not found", http.StatusNotFound)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
