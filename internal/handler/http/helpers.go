package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/vasiliy-maslov/users-api/internal/user"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError sends {"error": message}.
func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, r, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	render.Status(r, code)
	render.JSON(w, r, payload)
}

func mapErrorToStatusCode(err error) int {
	var validationErr *user.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is the text sent for err; fallback covers everything that
// maps to a 500 so internal details stay in the logs.
func clientMessage(err error, fallback string) string {
	var validationErr *user.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, user.ErrNotFound):
		return "User not found"
	case errors.Is(err, user.ErrEmailExists):
		return "Email already exists"
	default:
		return fallback
	}
}

// respondWithServiceError logs err at a level matching its class and writes
// the mapped status and message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := mapErrorToStatusCode(err)
	message := clientMessage(err, fallback)

	event := requestLogger(r).Warn()
	if code >= http.StatusInternalServerError {
		event = requestLogger(r).Error()
	}
	event.Err(err).Int("status", code).Msg(message)

	respondWithError(w, r, code, message)
}
