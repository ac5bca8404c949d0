package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-medpoint-api/app/observability/metrics"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ AuditService = (*AuditServiceImpl)(nil)

// AuditService records and lists catalog mutations.
type AuditService interface {
	// Record appends an entry, assigning ID and Timestamp when they are unset.
	Record(ctx context.Context, record types.AuditRecord) error
	ListRecent(ctx context.Context, limit, offset int) ([]types.AuditRecord, error)
}

type AuditServiceImpl struct {
	logger  *slog.Logger
	repo    AuditRepository
	metrics *metrics.AppMetrics
	now     func() time.Time
}

func NewAuditService(repo AuditRepository, appMetrics *metrics.AppMetrics, logger *slog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{
		logger:  logger,
		repo:    repo,
		metrics: appMetrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source.
func (s *AuditServiceImpl) WithClock(now func() time.Time) *AuditServiceImpl {
	s.now = now
	return s
}

func (s *AuditServiceImpl) Record(ctx context.Context, record types.AuditRecord) error {
	ctx, span := otel.Tracer("AuditService").Start(ctx, "Record", trace.WithAttributes(
		attribute.String("audit.action", record.Action.String()),
		attribute.String("audit.entity", record.Entity),
		attribute.String("audit.entity_id", record.EntityID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Record"),
		slog.String("action", record.Action.String()),
		slog.String("entityID", record.EntityID.String()))

	if !record.Action.IsValid() {
		span.SetStatus(codes.Error, "invalid action")
		return types.NewValidationError("action", fmt.Sprintf("unknown audit action %q", record.Action))
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}

	if err := s.repo.Append(ctx, record); err != nil {
		l.ErrorContext(ctx, "Failed to append audit record", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		s.metrics.RecordAuditWrite(ctx, "failure")
		return fmt.Errorf("error recording audit entry: %w", err)
	}

	l.DebugContext(ctx, "Audit record appended", slog.String("auditID", record.ID.String()))
	s.metrics.RecordAuditWrite(ctx, "success")
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *AuditServiceImpl) ListRecent(ctx context.Context, limit, offset int) ([]types.AuditRecord, error) {
	ctx, span := otel.Tracer("AuditService").Start(ctx, "ListRecent")
	defer span.End()

	l := s.logger.With(slog.String("method", "ListRecent"), slog.Int("limit", limit), slog.Int("offset", offset))

	if limit < 1 || offset < 0 {
		span.SetStatus(codes.Error, "invalid page")
		return nil, types.NewValidationError("page", "limit must be positive and offset non-negative")
	}

	records, err := s.repo.ListRecent(ctx, limit, offset)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list audit records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("error listing audit records: %w", err)
	}

	l.DebugContext(ctx, "Audit records listed", slog.Int("count", len(records)))
	span.SetStatus(codes.Ok, "")
	return records, nil
}
