package audit

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-medpoint-api/app/db"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ AuditRepository = (*PostgresAuditRepository)(nil)

// AuditRepository persists audit records. Records are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, record types.AuditRecord) error
	// ListRecent returns records newest first, ties broken by id descending.
	ListRecent(ctx context.Context, limit, offset int) ([]types.AuditRecord, error)
}

type PostgresAuditRepository struct {
	logger *slog.Logger
	pool   database.Pool
}

func NewPostgresAuditRepository(pool database.Pool, logger *slog.Logger) *PostgresAuditRepository {
	return &PostgresAuditRepository{
		logger: logger,
		pool:   pool,
	}
}

// Append inserts the record. Inside database.TxManager.RunInTx it joins the caller's transaction.
func (r *PostgresAuditRepository) Append(ctx context.Context, record types.AuditRecord) error {
	ctx, span := otel.Tracer("AuditRepository").Start(ctx, "Append", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "audit_logs"),
		attribute.String("audit.action", record.Action.String()),
	))
	defer span.End()

	query := `
		INSERT INTO audit_logs (id, timestamp, action, user_id, entity, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := database.QuerierFromCtx(ctx, r.pool).Exec(ctx, query,
		record.ID,
		record.Timestamp,
		string(record.Action),
		record.UserID,
		record.Entity,
		record.EntityID,
		record.Details,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to append audit record", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return database.MapError(err, "append audit record")
	}
	return nil
}

func (r *PostgresAuditRepository) ListRecent(ctx context.Context, limit, offset int) ([]types.AuditRecord, error) {
	ctx, span := otel.Tracer("AuditRepository").Start(ctx, "ListRecent", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "audit_logs"),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	))
	defer span.End()

	query := `
		SELECT id, timestamp, action, user_id, entity, entity_id, details
		FROM audit_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := database.QuerierFromCtx(ctx, r.pool).Query(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, database.MapError(err, "list audit records")
	}
	defer rows.Close()

	records := make([]types.AuditRecord, 0, limit)
	for rows.Next() {
		var rec types.AuditRecord
		var action string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &action, &rec.UserID, &rec.Entity, &rec.EntityID, &rec.Details); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, database.MapError(err, "scan audit record")
		}
		rec.Action = types.AuditAction(action)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, database.MapError(err, "iterate audit records")
	}

	span.SetStatus(codes.Ok, "")
	return records, nil
}
