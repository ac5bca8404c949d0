package drug

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-medpoint-api/app/db"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ DrugRepository = (*PostgresDrugRepository)(nil)

const drugsTable = "drugs"

var drugColumns = []string{
	"id", "name", "chemical_name", "manufacturer", "description",
	"dosage_and_administration", "created_at", "updated_at",
}

var searchableColumns = []string{
	"name", "chemical_name", "manufacturer", "description", "dosage_and_administration",
}

// DrugRepository is the catalog store.
type DrugRepository interface {
	GetDrugByID(ctx context.Context, id uuid.UUID) (*types.Drug, error)
	CreateDrug(ctx context.Context, drug types.Drug) (*types.Drug, error)
	// ReplaceDrug overwrites every mutable field; ok is false when no row has the id.
	ReplaceDrug(ctx context.Context, drug types.Drug) (*types.Drug, bool, error)
	DeleteDrug(ctx context.Context, id uuid.UUID) (bool, error)
	SearchDrugs(ctx context.Context, term string) ([]types.Drug, error)
	// FindDuplicates returns records whose name and chemical name match case-insensitively.
	FindDuplicates(ctx context.Context, name, chemicalName string) ([]types.Drug, error)
	ListDrugs(ctx context.Context, limit, offset int) ([]types.Drug, error)
}

type PostgresDrugRepository struct {
	logger *slog.Logger
	pool   database.Pool
	qb     sq.StatementBuilderType
}

func NewPostgresDrugRepository(pool database.Pool, logger *slog.Logger) *PostgresDrugRepository {
	return &PostgresDrugRepository{
		logger: logger,
		pool:   pool,
		qb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", drugsTable),
	)
	return otel.Tracer("DrugRepository").Start(ctx, name, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrug(row rowScanner) (types.Drug, error) {
	var d types.Drug
	err := row.Scan(&d.ID, &d.Name, &d.ChemicalName, &d.Manufacturer, &d.Description,
		&d.DosageAndAdministration, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func (r *PostgresDrugRepository) queryDrugs(ctx context.Context, span trace.Span, query sq.SelectBuilder, op string) ([]types.Drug, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		failSpan(span, err, "build query")
		return nil, database.MapError(err, op)
	}

	rows, err := database.QuerierFromCtx(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		failSpan(span, err, "query failed")
		return nil, database.MapError(err, op)
	}
	defer rows.Close()

	// Non-nil so an empty result encodes as []
	drugs := make([]types.Drug, 0)
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			failSpan(span, err, "scan failed")
			return nil, database.MapError(err, op)
		}
		drugs = append(drugs, d)
	}
	if err := rows.Err(); err != nil {
		failSpan(span, err, "rows iteration failed")
		return nil, database.MapError(err, op)
	}

	span.SetAttributes(attribute.Int("results.count", len(drugs)))
	span.SetStatus(codes.Ok, "")
	return drugs, nil
}

func (r *PostgresDrugRepository) GetDrugByID(ctx context.Context, id uuid.UUID) (*types.Drug, error) {
	ctx, span := startSpan(ctx, "GetDrugByID", "SELECT", attribute.String("drug.id", id.String()))
	defer span.End()

	sqlStr, args, err := r.qb.Select(drugColumns...).From(drugsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		failSpan(span, err, "build query")
		return nil, database.MapError(err, "get drug by id")
	}

	d, err := scanDrug(database.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.ErrorContext(ctx, "Failed to fetch drug", slog.Any("error", err), slog.String("id", id.String()))
		}
		failSpan(span, err, "select failed")
		return nil, database.MapError(err, "get drug by id")
	}

	span.SetStatus(codes.Ok, "")
	return &d, nil
}

func (r *PostgresDrugRepository) CreateDrug(ctx context.Context, drug types.Drug) (*types.Drug, error) {
	ctx, span := startSpan(ctx, "CreateDrug", "INSERT", attribute.String("drug.name", drug.Name))
	defer span.End()

	sqlStr, args, err := r.qb.Insert(drugsTable).
		Columns("id", "name", "chemical_name", "manufacturer", "description", "dosage_and_administration").
		Values(drug.ID, drug.Name, drug.ChemicalName, drug.Manufacturer, drug.Description, drug.DosageAndAdministration).
		Suffix("RETURNING " + strings.Join(drugColumns, ", ")).
		ToSql()
	if err != nil {
		failSpan(span, err, "build query")
		return nil, database.MapError(err, "create drug")
	}

	// Runs inside the caller's transaction when one is in ctx
	created, err := scanDrug(database.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		// 23505 on (lower(name), lower(chemical_name))
		if database.IsUniqueViolation(err) {
			r.logger.WarnContext(ctx, "Duplicate drug rejected by unique index", slog.String("name", drug.Name))
		} else {
			r.logger.ErrorContext(ctx, "Failed to insert drug", slog.Any("error", err))
		}
		failSpan(span, err, "insert failed")
		return nil, database.MapError(err, "create drug")
	}

	span.SetStatus(codes.Ok, "")
	return &created, nil
}

func (r *PostgresDrugRepository) ReplaceDrug(ctx context.Context, drug types.Drug) (*types.Drug, bool, error) {
	ctx, span := startSpan(ctx, "ReplaceDrug", "UPDATE", attribute.String("drug.id", drug.ID.String()))
	defer span.End()

	sqlStr, args, err := r.qb.Update(drugsTable).
		Set("name", drug.Name).
		Set("chemical_name", drug.ChemicalName).
		Set("manufacturer", drug.Manufacturer).
		Set("description", drug.Description).
		Set("dosage_and_administration", drug.DosageAndAdministration).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": drug.ID}).
		Suffix("RETURNING " + strings.Join(drugColumns, ", ")).
		ToSql()
	if err != nil {
		failSpan(span, err, "build query")
		return nil, false, database.MapError(err, "replace drug")
	}

	updated, err := scanDrug(database.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	// RETURNING yields no row when the id is unknown
	if errors.Is(err, pgx.ErrNoRows) {
		span.SetStatus(codes.Ok, "no row matched")
		return nil, false, nil
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to replace drug", slog.Any("error", err))
		failSpan(span, err, "update failed")
		return nil, false, database.MapError(err, "replace drug")
	}

	span.SetStatus(codes.Ok, "")
	return &updated, true, nil
}

func (r *PostgresDrugRepository) DeleteDrug(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := startSpan(ctx, "DeleteDrug", "DELETE", attribute.String("drug.id", id.String()))
	defer span.End()

	sqlStr, args, err := r.qb.Delete(drugsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		failSpan(span, err, "build query")
		return false, database.MapError(err, "delete drug")
	}

	tag, err := database.QuerierFromCtx(ctx, r.pool).Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete drug", slog.Any("error", err))
		failSpan(span, err, "delete failed")
		return false, database.MapError(err, "delete drug")
	}

	span.SetStatus(codes.Ok, "")
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresDrugRepository) SearchDrugs(ctx context.Context, term string) ([]types.Drug, error) {
	ctx, span := startSpan(ctx, "SearchDrugs", "SELECT", attribute.String("search.term", term))
	defer span.End()

	// Substring match on any of the text columns
	pattern := "%" + escapeLike(term) + "%"
	anyField := sq.Or{}
	for _, col := range searchableColumns {
		anyField = append(anyField, sq.ILike{col: pattern})
	}

	query := r.qb.Select(drugColumns...).From(drugsTable).Where(anyField).OrderBy("name", "id")
	return r.queryDrugs(ctx, span, query, "search drugs")
}

func (r *PostgresDrugRepository) FindDuplicates(ctx context.Context, name, chemicalName string) ([]types.Drug, error) {
	ctx, span := startSpan(ctx, "FindDuplicates", "SELECT", attribute.String("drug.name", name))
	defer span.End()

	query := r.qb.Select(drugColumns...).From(drugsTable).
		Where(sq.Expr("lower(name) = lower(?)", name)).
		Where(sq.Expr("lower(chemical_name) = lower(?)", chemicalName))
	return r.queryDrugs(ctx, span, query, "find duplicate drugs")
}

func (r *PostgresDrugRepository) ListDrugs(ctx context.Context, limit, offset int) ([]types.Drug, error) {
	ctx, span := startSpan(ctx, "ListDrugs", "SELECT",
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)
	defer span.End()

	// id breaks ties between rows inserted in the same transaction timestamp
	query := r.qb.Select(drugColumns...).From(drugsTable).
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.queryDrugs(ctx, span, query, "list drugs")
}
