package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-medpoint-api/app/db"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user account persistence.
type UserRepo interface {
	// CreateUser inserts a new account. Returns types.ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user types.UserAccount) error
	// GetUserByUsername returns types.ErrNotFound if no account matches.
	GetUserByUsername(ctx context.Context, username string) (*types.UserAccount, error)
	// GetUserByID returns types.ErrNotFound if no account matches.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, error)
	// UpdateRole reports whether an account was updated.
	UpdateRole(ctx context.Context, userID uuid.UUID, role types.Role) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]types.UserAccount, error)
	CountUsers(ctx context.Context) (int64, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewPostgresUserRepo(pool database.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pool,
	}
}

const userColumns = `id, username, name, email, password_hash, role, created_at, updated_at`

func startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "users"),
	}, attrs...)
	return otel.Tracer("UserRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, user types.UserAccount) error {
	ctx, span := startSpan(ctx, "CreateUser", "INSERT", attribute.String("db.user.username", user.Username))
	defer span.End()

	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, username, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	_, err := database.QuerierFromCtx(ctx, r.pgpool).Exec(ctx, query,
		user.ID, user.Username, user.Name, user.Email, user.PasswordHash, string(user.Role), now)
	if err != nil {
		failSpan(span, err, "insert failed")
		return database.MapError(err, "insert user")
	}
	return nil
}

func (r *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAccount, error) {
	ctx, span := startSpan(ctx, "GetUserByUsername", "SELECT")
	defer span.End()

	row := database.QuerierFromCtx(ctx, r.pgpool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		failSpan(span, err, "select failed")
		return nil, database.MapError(err, "get user by username")
	}
	return user, nil
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, error) {
	ctx, span := startSpan(ctx, "GetUserByID", "SELECT", attribute.String("db.user.id", userID.String()))
	defer span.End()

	row := database.QuerierFromCtx(ctx, r.pgpool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	if err != nil {
		failSpan(span, err, "select failed")
		return nil, database.MapError(err, "get user by id")
	}
	return user, nil
}

func (r *PostgresUserRepo) UpdateRole(ctx context.Context, userID uuid.UUID, role types.Role) (bool, error) {
	ctx, span := startSpan(ctx, "UpdateRole", "UPDATE",
		attribute.String("db.user.id", userID.String()),
		attribute.String("db.user.role", role.String()))
	defer span.End()

	tag, err := database.QuerierFromCtx(ctx, r.pgpool).Exec(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		string(role), time.Now().UTC(), userID)
	if err != nil {
		failSpan(span, err, "update failed")
		return false, database.MapError(err, "update user role")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresUserRepo) ListUsers(ctx context.Context, limit, offset int) ([]types.UserAccount, error) {
	ctx, span := startSpan(ctx, "ListUsers", "SELECT", attribute.Int("limit", limit), attribute.Int("offset", offset))
	defer span.End()

	rows, err := database.QuerierFromCtx(ctx, r.pgpool).Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		failSpan(span, err, "query failed")
		return nil, database.MapError(err, "list users")
	}
	defer rows.Close()

	users := make([]types.UserAccount, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			failSpan(span, err, "scan failed")
			return nil, database.MapError(err, "scan user")
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		failSpan(span, err, "rows iteration failed")
		return nil, database.MapError(err, "iterate users")
	}
	return users, nil
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "CountUsers", "SELECT")
	defer span.End()

	var total int64
	if err := database.QuerierFromCtx(ctx, r.pgpool).QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		failSpan(span, err, "count failed")
		return 0, database.MapError(err, "count users")
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*types.UserAccount, error) {
	var u types.UserAccount
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = types.Role(role)
	return &u, nil
}
