package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	service  service.UserService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUserHandler(service service.UserService, validate *validator.Validate, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validate,
		logger:   logger.With("component", "rest", "resource", "users"),
	}
}

// RegisterRoutes registers the user and role routes.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Get("/roles", h.FindRoles)
		r.Put("/{id}/change-role", h.ChangeRole)
	})
}

func (h *UserHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	users, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving user list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, users)
}

func (h *UserHandler) FindRoles(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	roles, err := h.service.FindRoles(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving role list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch roles")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, roles)
}

// ChangeRole assigns a new role to a user.
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var change service.RoleChangeDto
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &change) {
		return
	}

	updated, err := h.service.ChangeRole(r.Context(), id, change)
	if err != nil {
		switch {
		case errors.Is(err, inverrors.ErrInvalidRole):
			mLogger.WarnContext(r.Context(), "Invalid role", "ID", id, "RoleID", change.RoleID)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid role ID: %d", change.RoleID))
		case errors.Is(err, inverrors.ErrUserNotFound):
			mLogger.WarnContext(r.Context(), "User not found for role change", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("User with ID %d not found", id))
		default:
			mLogger.ErrorContext(r.Context(), "Error changing user role", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to change user role")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "User role changed", "ID", updated.ID, "RoleID", updated.RoleID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}
