package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-medpoint-api/internal/api"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Authenticate(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Authenticate godoc
// @Summary      Authenticate
// @Description  Exchanges username and password for a bearer token valid for seven days.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body types.AuthenticateRequest true "Credentials"
// @Success      200 {object} types.AuthenticateResponse
// @Failure      400 {object} types.Response "Invalid credentials"
// @Failure      429 {object} types.Response "Too many attempts"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users/authenticate [post]
func (h *HandlerImpl) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Authenticate"))

	var req types.AuthenticateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, ok, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Authentication error", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to authenticate")
		return
	}
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Username or password is incorrect")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Register godoc
// @Summary      Register
// @Description  Creates a Reader account.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        account body types.RegisterRequest true "Account"
// @Success      200 {object} types.RegisterResponse
// @Failure      400 {object} types.Response "Invalid input or username taken"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username '"+req.Username+"' is already taken")
		case errors.Is(err, types.ErrValidation):
			api.ServiceErrorResponse(w, r, err, "Invalid registration")
		default:
			l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
