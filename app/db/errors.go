package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// MapError translates driver errors into domain sentinels and wraps the rest with op.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", op, types.ErrNotFound)
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, types.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
