package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-medpoint-api/internal/api"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SetRole(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// SetRole godoc
// @Summary      Set user role
// @Description  Overwrites the role of an account. Admin only.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID"
// @Param        body body types.SetRoleRequest true "New role"
// @Success      200 {object} types.Response "Role updated"
// @Failure      400 {object} types.Response "Invalid input or unknown user"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /users/set-role/{userId} [post]
func (h *HandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "SetRole"))

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		l.WarnContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req types.SetRoleRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.SetRole(ctx, userID, req.Role)
	if err != nil {
		l.ErrorContext(ctx, "Failed to set role", slog.Any("error", err))
		api.ServiceErrorResponse(w, r, err, "Failed to set role")
		return
	}
	if !updated {
		api.ErrorResponse(w, r, http.StatusBadRequest, "User not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Role updated successfully",
	})
}

// ListUsers godoc
// @Summary      List users
// @Description  Returns a page of accounts with the total count. Admin only.
// @Tags         User
// @Produce      json
// @Param        pageNumber query int false "Page number (default 1)"
// @Param        pageSize   query int false "Page size (default 10)"
// @Success      200 {object} types.UserListResponse
// @Failure      400 {object} types.Response "Invalid pagination"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /users [get]
func (h *HandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ListUsers"))

	pageNumber, pageSize, err := api.ParsePagination(r)
	if err != nil {
		api.ServiceErrorResponse(w, r, err, "Invalid pagination")
		return
	}

	users, total, err := h.userService.ListUsers(ctx, pageNumber, pageSize)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ServiceErrorResponse(w, r, err, "Failed to list users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.UserListResponse{
		Users:      users,
		TotalItems: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
}
