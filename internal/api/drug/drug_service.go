package drug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-medpoint-api/app/observability/metrics"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/regulatory"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ DrugService = (*DrugServiceImpl)(nil)

// Directory resolves the acting user of a mutation.
type Directory interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAccount, bool, error)
}

// AuditRecorder appends an audit entry for each committed mutation.
type AuditRecorder interface {
	Record(ctx context.Context, record types.AuditRecord) error
}

// TxRunner runs fn in a single database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DrugService is the catalog mutation pipeline plus its read paths.
type DrugService interface {
	CreateDrug(ctx context.Context, drug types.Drug, actingUserID uuid.UUID) (*types.Drug, error)
	UpdateDrug(ctx context.Context, drug types.Drug, actingUserID uuid.UUID) (*types.Drug, error)
	DeleteDrug(ctx context.Context, id uuid.UUID, actingUserID uuid.UUID) error
	GetDrugByID(ctx context.Context, id uuid.UUID) (*types.Drug, bool, error)
	SearchDrugs(ctx context.Context, term string) ([]types.Drug, error)
	ListDrugs(ctx context.Context, limit, offset int) ([]types.Drug, error)
}

type DrugServiceImpl struct {
	logger         *slog.Logger
	repo           DrugRepository
	directory      Directory
	gateway        regulatory.Gateway
	audit          AuditRecorder
	tx             TxRunner
	metrics        *metrics.AppMetrics
	gatewayTimeout time.Duration
}

func NewDrugService(
	repo DrugRepository,
	directory Directory,
	gateway regulatory.Gateway,
	audit AuditRecorder,
	tx TxRunner,
	appMetrics *metrics.AppMetrics,
	gatewayTimeout time.Duration,
	logger *slog.Logger,
) *DrugServiceImpl {
	return &DrugServiceImpl{
		logger:         logger,
		repo:           repo,
		directory:      directory,
		gateway:        gateway,
		audit:          audit,
		tx:             tx,
		metrics:        appMetrics,
		gatewayTimeout: gatewayTimeout,
	}
}

// outcome classifies err for the mutation counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, types.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, types.ErrValidation):
		return "invalid"
	case errors.Is(err, types.ErrConflict):
		return "conflict"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *DrugServiceImpl) finish(ctx context.Context, span trace.Span, action types.AuditAction, err error) {
	s.metrics.RecordMutation(ctx, action.String(), outcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
		return
	}
	span.SetStatus(codes.Ok, "")
}

// authorize resolves the acting user and checks the catalog mutation right.
func (s *DrugServiceImpl) authorize(ctx context.Context, actingUserID uuid.UUID) error {
	user, ok, err := s.directory.GetUserByID(ctx, actingUserID)
	if err != nil {
		return fmt.Errorf("error resolving acting user: %w", err)
	}
	if !ok {
		return fmt.Errorf("user %s does not exist: %w", actingUserID, types.ErrUnauthorized)
	}
	if !user.Role.CanMutateCatalog() {
		return fmt.Errorf("role %q may not modify the catalog: %w", user.Role, types.ErrUnauthorized)
	}
	return nil
}

// checkDuplicate rejects a record whose (name, chemical name) pair belongs to another id.
func (s *DrugServiceImpl) checkDuplicate(ctx context.Context, drug types.Drug) error {
	existing, err := s.repo.FindDuplicates(ctx, drug.Name, drug.ChemicalName)
	if err != nil {
		return fmt.Errorf("error checking for duplicates: %w", err)
	}
	for _, e := range existing {
		if e.ID != drug.ID && e.SameIdentityPair(drug) {
			return fmt.Errorf("duplicate drug %q (%s): %w", drug.Name, drug.ChemicalName, types.ErrConflict)
		}
	}
	return nil
}

// checkRegulatory asks the gateway to approve drug within the configured timeout.
// Any failure, including a timeout, is a validation failure.
func (s *DrugServiceImpl) checkRegulatory(ctx context.Context, drug types.Drug) error {
	callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	start := time.Now()
	err := s.gateway.ValidateDrug(callCtx, drug)
	elapsed := time.Since(start)

	if err != nil {
		result := "rejected"
		if errors.Is(err, context.DeadlineExceeded) {
			result = "timeout"
		}
		s.metrics.RecordRegulatoryCheck(ctx, elapsed, result)
		s.logger.WarnContext(ctx, "Regulatory check failed",
			slog.String("name", drug.Name),
			slog.String("result", result),
			slog.Any("error", err))
		return types.NewValidationError("regulatory", fmt.Sprintf("drug could not be validated by the regulatory source: %v", err))
	}

	s.metrics.RecordRegulatoryCheck(ctx, elapsed, "approved")
	return nil
}

// precheck runs authorization, local validation, duplicate detection and the
// regulatory check, in that order.
func (s *DrugServiceImpl) precheck(ctx context.Context, drug types.Drug, actingUserID uuid.UUID) error {
	if err := s.authorize(ctx, actingUserID); err != nil {
		return err
	}
	// Cheap local rules before any query
	if err := drug.Validate(); err != nil {
		return err
	}
	if err := s.checkDuplicate(ctx, drug); err != nil {
		return err
	}
	// Remote call, always last
	return s.checkRegulatory(ctx, drug)
}

func normalize(drug types.Drug) types.Drug {
	drug.Name = strings.TrimSpace(drug.Name)
	drug.ChemicalName = strings.TrimSpace(drug.ChemicalName)
	return drug
}

func (s *DrugServiceImpl) CreateDrug(ctx context.Context, drug types.Drug, actingUserID uuid.UUID) (created *types.Drug, err error) {
	ctx, span := otel.Tracer("DrugService").Start(ctx, "CreateDrug", trace.WithAttributes(
		attribute.String("drug.name", drug.Name),
		attribute.String("user.id", actingUserID.String()),
	))
	defer span.End()
	defer func() { s.finish(ctx, span, types.AuditActionCreate, err) }()

	l := s.logger.With(slog.String("method", "CreateDrug"), slog.String("userID", actingUserID.String()))
	l.DebugContext(ctx, "Creating drug", slog.String("name", drug.Name))

	drug = normalize(drug)
	// Identity is always server-assigned
	drug.ID = uuid.New()

	if err = s.precheck(ctx, drug, actingUserID); err != nil {
		l.WarnContext(ctx, "Drug creation rejected", slog.Any("error", err))
		return nil, err
	}

	// Persist and audit commit together; the unique index turns a lost race into ErrConflict
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = s.repo.CreateDrug(ctx, drug)
		if txErr != nil {
			return txErr
		}
		// Audit uses the stored row, not the request
		return s.audit.Record(ctx, types.AuditRecord{
			Action:   types.AuditActionCreate,
			UserID:   actingUserID,
			Entity:   types.AuditEntityDrug,
			EntityID: created.ID,
			Details:  created.Name,
		})
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist drug", slog.Any("error", err))
		return nil, fmt.Errorf("error creating drug: %w", err)
	}

	l.InfoContext(ctx, "Drug created", slog.String("id", created.ID.String()))
	return created, nil
}

func (s *DrugServiceImpl) UpdateDrug(ctx context.Context, drug types.Drug, actingUserID uuid.UUID) (updated *types.Drug, err error) {
	ctx, span := otel.Tracer("DrugService").Start(ctx, "UpdateDrug", trace.WithAttributes(
		attribute.String("drug.id", drug.ID.String()),
		attribute.String("user.id", actingUserID.String()),
	))
	defer span.End()
	defer func() { s.finish(ctx, span, types.AuditActionUpdate, err) }()

	l := s.logger.With(slog.String("method", "UpdateDrug"),
		slog.String("id", drug.ID.String()),
		slog.String("userID", actingUserID.String()))
	l.DebugContext(ctx, "Updating drug")

	drug = normalize(drug)

	if err = s.precheck(ctx, drug, actingUserID); err != nil {
		l.WarnContext(ctx, "Drug update rejected", slog.Any("error", err))
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		replaced, ok, txErr := s.repo.ReplaceDrug(ctx, drug)
		if txErr != nil {
			return txErr
		}
		// No row matched the id
		if !ok {
			return fmt.Errorf("drug %s: %w", drug.ID, types.ErrNotFound)
		}
		updated = replaced
		return s.audit.Record(ctx, types.AuditRecord{
			Action:   types.AuditActionUpdate,
			UserID:   actingUserID,
			Entity:   types.AuditEntityDrug,
			EntityID: replaced.ID,
			Details:  replaced.Name,
		})
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Drug to update does not exist")
		} else {
			l.ErrorContext(ctx, "Failed to update drug", slog.Any("error", err))
		}
		return nil, fmt.Errorf("error updating drug: %w", err)
	}

	l.InfoContext(ctx, "Drug updated")
	return updated, nil
}

func (s *DrugServiceImpl) DeleteDrug(ctx context.Context, id uuid.UUID, actingUserID uuid.UUID) (err error) {
	ctx, span := otel.Tracer("DrugService").Start(ctx, "DeleteDrug", trace.WithAttributes(
		attribute.String("drug.id", id.String()),
		attribute.String("user.id", actingUserID.String()),
	))
	defer span.End()
	defer func() { s.finish(ctx, span, types.AuditActionDelete, err) }()

	l := s.logger.With(slog.String("method", "DeleteDrug"),
		slog.String("id", id.String()),
		slog.String("userID", actingUserID.String()))

	// Delete skips validation and the regulatory check
	if err = s.authorize(ctx, actingUserID); err != nil {
		l.WarnContext(ctx, "Drug deletion rejected", slog.Any("error", err))
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Fetch first: the audit detail is the name of the removed record
		existing, txErr := s.repo.GetDrugByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		deleted, txErr := s.repo.DeleteDrug(ctx, id)
		if txErr != nil {
			return txErr
		}
		if !deleted {
			return fmt.Errorf("drug %s: %w", id, types.ErrNotFound)
		}
		return s.audit.Record(ctx, types.AuditRecord{
			Action:   types.AuditActionDelete,
			UserID:   actingUserID,
			Entity:   types.AuditEntityDrug,
			EntityID: id,
			Details:  existing.Name,
		})
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Drug to delete does not exist")
		} else {
			l.ErrorContext(ctx, "Failed to delete drug", slog.Any("error", err))
		}
		return fmt.Errorf("error deleting drug: %w", err)
	}

	l.InfoContext(ctx, "Drug deleted")
	return nil
}

func (s *DrugServiceImpl) GetDrugByID(ctx context.Context, id uuid.UUID) (*types.Drug, bool, error) {
	ctx, span := otel.Tracer("DrugService").Start(ctx, "GetDrugByID", trace.WithAttributes(
		attribute.String("drug.id", id.String()),
	))
	defer span.End()

	drug, err := s.repo.GetDrugByID(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		span.SetStatus(codes.Ok, "not found")
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, false, fmt.Errorf("error fetching drug: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return drug, true, nil
}

func (s *DrugServiceImpl) SearchDrugs(ctx context.Context, term string) ([]types.Drug, error) {
	ctx, span := otel.Tracer("DrugService").Start(ctx, "SearchDrugs", trace.WithAttributes(
		attribute.String("search.term", term),
	))
	defer span.End()

	drugs, err := s.repo.SearchDrugs(ctx, term)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("error searching drugs: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return drugs, nil
}

func (s *DrugServiceImpl) ListDrugs(ctx context.Context, limit, offset int) ([]types.Drug, error) {
	ctx, span := otel.Tracer("DrugService").Start(ctx, "ListDrugs")
	defer span.End()

	if limit < 1 || offset < 0 {
		err := types.NewValidationError("pagination", "limit must be positive and offset non-negative")
		span.SetStatus(codes.Error, "invalid pagination")
		return nil, err
	}

	drugs, err := s.repo.ListDrugs(ctx, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("error listing drugs: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return drugs, nil
}
