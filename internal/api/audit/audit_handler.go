package audit

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-medpoint-api/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ListLogs(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	auditService AuditService
	logger       *slog.Logger
}

func NewHandlerImpl(auditService AuditService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		auditService: auditService,
		logger:       logger,
	}
}

// ListLogs godoc
// @Summary      List audit log
// @Description  Returns audit records newest first. Admin only.
// @Tags         Audit
// @Produce      json
// @Param        pageNumber query int false "Page number (default 1)"
// @Param        pageSize   query int false "Page size (default 10)"
// @Success      200 {array}  types.AuditRecord
// @Failure      400 {object} types.Response "Invalid pagination"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /logs [get]
func (h *HandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ListLogs"))

	pageNumber, pageSize, err := api.ParsePagination(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid pagination", slog.Any("error", err))
		api.ServiceErrorResponse(w, r, err, "Invalid pagination")
		return
	}

	records, err := h.auditService.ListRecent(ctx, pageSize, api.Offset(pageNumber, pageSize))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list audit records", slog.Any("error", err))
		api.ServiceErrorResponse(w, r, err, "Failed to retrieve audit log")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, records)
}
