package auth

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-medpoint-api/app/observability/metrics"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// Directory is the subset of the identity directory the auth flow needs.
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (*types.UserAccount, bool, error)
	Register(ctx context.Context, candidate types.UserAccount, password string) (*types.UserAccount, error)
}

type AuthService interface {
	// Login returns ok == false when the credentials do not match an account.
	Login(ctx context.Context, username, password string) (*types.AuthenticateResponse, bool, error)
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserAccount, error)
}

type AuthServiceImpl struct {
	logger    *slog.Logger
	directory Directory
	tokens    *TokenManager
	metrics   *metrics.AppMetrics
}

func NewAuthService(directory Directory, tokens *TokenManager, appMetrics *metrics.AppMetrics, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:    logger,
		directory: directory,
		tokens:    tokens,
		metrics:   appMetrics,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*types.AuthenticateResponse, bool, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	user, ok, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		s.metrics.RecordAuthentication(ctx, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "authenticate failed")
		return nil, false, fmt.Errorf("error authenticating: %w", err)
	}
	if !ok {
		s.metrics.RecordAuthentication(ctx, "rejected")
		span.SetStatus(codes.Ok, "rejected")
		return nil, false, nil
	}

	token, expiresAt, err := s.tokens.Issue(*user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		s.metrics.RecordAuthentication(ctx, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue token failed")
		return nil, false, fmt.Errorf("error issuing token: %w", err)
	}

	s.metrics.RecordAuthentication(ctx, "success")
	l.InfoContext(ctx, "Token issued", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "")
	return &types.AuthenticateResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, true, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.UserAccount, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	user, err := s.directory.Register(ctx, types.UserAccount{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	}, req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return user, nil
}
