package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService is the identity and role directory.
type UserService interface {
	// Authenticate returns ok == false for an unknown username or a wrong password.
	// The error is reserved for storage faults.
	Authenticate(ctx context.Context, username, password string) (*types.UserAccount, bool, error)
	// Register creates a Reader account. Returns types.ErrConflict if the username is taken.
	Register(ctx context.Context, candidate types.UserAccount, password string) (*types.UserAccount, error)
	// SetRole reports false when no account matched userID.
	SetRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, bool, error)
	ListUsers(ctx context.Context, pageNumber, pageSize int) ([]types.UserAccount, int64, error)
}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger     *slog.Logger
	repo       UserRepo
	bcryptCost int
	// dummyHash is compared against when the username is unknown so both failure
	// paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, bcryptCost int, logger *slog.Logger) (*UserServiceImpl, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid bcrypt cost %d", bcryptCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &UserServiceImpl{
		logger:     logger,
		repo:       repo,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}, nil
}

func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (*types.UserAccount, bool, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "Authenticate", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Authenticate"), slog.String("username", username))
	l.DebugContext(ctx, "Authenticating user")

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, false, fmt.Errorf("error looking up user: %w", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		l.InfoContext(ctx, "Authentication failed")
		span.SetStatus(codes.Ok, "not authenticated")
		return nil, false, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.InfoContext(ctx, "Authentication failed")
		span.SetStatus(codes.Ok, "not authenticated")
		return nil, false, nil
	}

	l.InfoContext(ctx, "User authenticated", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "authenticated")
	return user, true, nil
}

func (s *UserServiceImpl) Register(ctx context.Context, candidate types.UserAccount, password string) (*types.UserAccount, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.username", candidate.Username),
	))
	defer span.End()

	candidate.Username = strings.TrimSpace(candidate.Username)
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", candidate.Username))
	l.DebugContext(ctx, "Registering user")

	verr := &types.ValidationError{}
	if candidate.Username == "" {
		verr.Add("username", "is required")
	}
	if password == "" {
		verr.Add("password", "is required")
	}
	if verr.HasErrors() {
		span.SetStatus(codes.Error, "invalid input")
		return nil, verr
	}

	existing, err := s.repo.GetUserByUsername(ctx, candidate.Username)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		l.ErrorContext(ctx, "Failed to check username", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if existing != nil {
		l.WarnContext(ctx, "Username already taken")
		span.SetStatus(codes.Error, "username taken")
		return nil, fmt.Errorf("username %q is already taken: %w", candidate.Username, types.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	candidate.ID = uuid.New()
	candidate.Role = types.RoleReader
	candidate.PasswordHash = string(hash)

	if err := s.repo.CreateUser(ctx, candidate); err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.WarnContext(ctx, "Username taken by concurrent registration")
		} else {
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", candidate.ID.String()))
	span.SetStatus(codes.Ok, "registered")
	return &candidate, nil
}

func (s *UserServiceImpl) SetRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "SetRole", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("user.role", role),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SetRole"), slog.String("userID", userID.String()))

	parsed, ok := types.ParseRole(role)
	if !ok {
		span.SetStatus(codes.Error, "unknown role")
		return false, types.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	updated, err := s.repo.UpdateRole(ctx, userID, parsed)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update role", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return false, fmt.Errorf("error updating role: %w", err)
	}
	if !updated {
		l.WarnContext(ctx, "No account to update")
		span.SetStatus(codes.Ok, "not found")
		return false, nil
	}

	l.InfoContext(ctx, "Role updated", slog.String("role", parsed.String()))
	span.SetStatus(codes.Ok, "updated")
	return true, nil
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, bool, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUserByID", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get user", slog.String("userID", userID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, false, fmt.Errorf("error fetching user: %w", err)
	}
	return user, true, nil
}

// ListUsers returns one page of accounts and the total number of accounts.
func (s *UserServiceImpl) ListUsers(ctx context.Context, pageNumber, pageSize int) ([]types.UserAccount, int64, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "ListUsers", trace.WithAttributes(
		attribute.Int("page.number", pageNumber),
		attribute.Int("page.size", pageSize),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ListUsers"))

	if pageNumber < 1 || pageSize < 1 {
		return nil, 0, types.NewValidationError("page", "pageNumber and pageSize must be positive")
	}
	// The offset must fit in an int; past that the page is unreachable anyway.
	if pageNumber-1 > math.MaxInt/pageSize {
		return nil, 0, types.NewValidationError("pageNumber", "is too large")
	}
	offset := (pageNumber - 1) * pageSize

	var (
		users []types.UserAccount
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.repo.ListUsers(gctx, pageSize, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}

	l.DebugContext(ctx, "Users listed", slog.Int("count", len(users)), slog.Int64("total", total))
	span.SetStatus(codes.Ok, "")
	return users, total, nil
}
