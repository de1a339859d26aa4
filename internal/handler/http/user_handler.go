package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/vasiliy-maslov/users-api/internal/user"
)

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Get("/users", h.handleListUsers)
	router.Post("/users", h.handleCreateUser)
	router.Get("/users/{id}", h.handleGetUserByID)
	router.Put("/users/{id}", h.handleUpdateUser)
	router.Delete("/users/{id}", h.handleDeleteUser)
}

func (h *UserHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch users")
		return
	}

	responsePayload := make([]UserResponse, 0, len(users))
	for i := range users {
		responsePayload = append(responsePayload, newUserResponse(&users[i]))
	}

	respondWithJSON(w, r, http.StatusOK, responsePayload)
}

func (h *UserHandler) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	foundUser, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch user")
		return
	}

	respondWithJSON(w, r, http.StatusOK, newUserResponse(foundUser))
}

func (h *UserHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var requestPayload user.CreateUserInput
	if err := render.DecodeJSON(r.Body, &requestPayload); err != nil {
		requestLogger(r).Warn().Err(err).Msg("Failed to decode create user payload")
		respondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	createdUser, err := h.service.CreateUser(r.Context(), requestPayload)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create user")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", userCollectionPath(r), createdUser.ID))
	respondWithJSON(w, r, http.StatusCreated, newUserResponse(createdUser))
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var requestPayload user.UpdateUserInput
	if err := render.DecodeJSON(r.Body, &requestPayload); err != nil && !errors.Is(err, io.EOF) {
		requestLogger(r).Warn().Err(err).Int64("user_id", userID).Msg("Failed to decode update user payload")
		respondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updatedUser, err := h.service.UpdateUser(r.Context(), userID, requestPayload)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update user")
		return
	}

	respondWithJSON(w, r, http.StatusOK, newUserResponse(updatedUser))
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete user")
		return
	}

	respondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// parseUserID answers 404 for ids that cannot name a stored user.
func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")

	userID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || userID <= 0 {
		requestLogger(r).Warn().Str("user_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, r, http.StatusNotFound, "User not found")
		return 0, false
	}

	return userID, true
}

// userCollectionPath is the request path of the users collection, including
// any prefix the router is mounted under.
func userCollectionPath(r *http.Request) string {
	return strings.TrimRight(r.URL.Path, "/")
}
