package drug

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-medpoint-api/internal/api"
	"github.com/FACorreiaa/go-medpoint-api/internal/api/auth"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateDrug(w http.ResponseWriter, r *http.Request)
	UpdateDrug(w http.ResponseWriter, r *http.Request)
	DeleteDrug(w http.ResponseWriter, r *http.Request)
	GetDrug(w http.ResponseWriter, r *http.Request)
	ListDrugs(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	drugService DrugService
	logger      *slog.Logger
}

func NewHandlerImpl(drugService DrugService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		drugService: drugService,
		logger:      logger,
	}
}

func parseDrugID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid drug ID format")
		return uuid.Nil, false
	}
	return id, true
}

func actingUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// CreateDrug godoc
// @Summary      Create drug
// @Description  Adds a drug after authorization, validation, duplicate and regulatory checks. Any id in the body is ignored.
// @Tags         Drugs
// @Accept       json
// @Produce      json
// @Param        drug body types.DrugRequest true "Drug"
// @Success      201 {object} types.Drug
// @Failure      400 {object} types.Response "Validation or regulatory rejection"
// @Failure      401 {object} types.Response "Not authorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      409 {object} types.Response "Duplicate drug"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /drugs [post]
func (h *HandlerImpl) CreateDrug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateDrug"))

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req types.DrugRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.drugService.CreateDrug(ctx, req.ToDrug(uuid.Nil), userID)
	if err != nil {
		api.ServiceErrorResponse(w, r, err, "Failed to create drug")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// UpdateDrug godoc
// @Summary      Replace drug
// @Description  Replaces every field of an existing drug.
// @Tags         Drugs
// @Accept       json
// @Param        id   path string          true "Drug ID"
// @Param        drug body types.DrugRequest true "Drug"
// @Success      204
// @Failure      400 {object} types.Response "Validation or regulatory rejection"
// @Failure      401 {object} types.Response "Not authorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      404 {object} types.Response "Drug not found"
// @Failure      409 {object} types.Response "Duplicate drug"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /drugs/{id} [put]
func (h *HandlerImpl) UpdateDrug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "UpdateDrug"))

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := parseDrugID(w, r)
	if !ok {
		return
	}

	var req types.DrugRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.drugService.UpdateDrug(ctx, req.ToDrug(id), userID); err != nil {
		api.ServiceErrorResponse(w, r, err, "Failed to update drug")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteDrug godoc
// @Summary      Delete drug
// @Tags         Drugs
// @Param        id path string true "Drug ID"
// @Success      204
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Not authorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      404 {object} types.Response "Drug not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /drugs/{id} [delete]
func (h *HandlerImpl) DeleteDrug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := parseDrugID(w, r)
	if !ok {
		return
	}

	if err := h.drugService.DeleteDrug(ctx, id, userID); err != nil {
		api.ServiceErrorResponse(w, r, err, "Failed to delete drug")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDrug godoc
// @Summary      Get drug
// @Tags         Drugs
// @Produce      json
// @Param        id path string true "Drug ID"
// @Success      200 {object} types.Drug
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      404 {object} types.Response "Drug not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /drugs/{id} [get]
func (h *HandlerImpl) GetDrug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseDrugID(w, r)
	if !ok {
		return
	}

	drug, found, err := h.drugService.GetDrugByID(ctx, id)
	if err != nil {
		api.ServiceErrorResponse(w, r, err, "Failed to retrieve drug")
		return
	}
	if !found {
		api.ErrorResponse(w, r, http.StatusNotFound, "Drug not found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, drug)
}

// ListDrugs godoc
// @Summary      List or search drugs
// @Description  With a non-blank searchTerm, returns every drug whose name, chemical name, manufacturer, description or dosage text contains the term (case-insensitive). Otherwise returns one page of the catalog.
// @Tags         Drugs
// @Produce      json
// @Param        searchTerm query string false "Search term"
// @Param        pageNumber query int    false "Page number (default 1)"
// @Param        pageSize   query int    false "Page size (default 10)"
// @Success      200 {array}  types.Drug
// @Failure      400 {object} types.Response "Invalid pagination"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /drugs [get]
func (h *HandlerImpl) ListDrugs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ListDrugs"))

	if term := r.URL.Query().Get("searchTerm"); strings.TrimSpace(term) != "" {
		drugs, err := h.drugService.SearchDrugs(ctx, term)
		if err != nil {
			l.ErrorContext(ctx, "Failed to search drugs", slog.Any("error", err))
			api.ServiceErrorResponse(w, r, err, "Failed to search drugs")
			return
		}
		api.WriteJSONResponse(w, r, http.StatusOK, drugs)
		return
	}

	pageNumber, pageSize, err := api.ParsePagination(r)
	if err != nil {
		api.ServiceErrorResponse(w, r, err, "Invalid pagination")
		return
	}

	drugs, err := h.drugService.ListDrugs(ctx, pageSize, api.Offset(pageNumber, pageSize))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list drugs", slog.Any("error", err))
		api.ServiceErrorResponse(w, r, err, "Failed to list drugs")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, drugs)
}
