package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	importapp "github.com/fundledger/backend/internal/application/import"
	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportHistoryReader serves stored batch outcomes
type ImportHistoryReader interface {
	GetHistory(ctx context.Context, id uuid.UUID) (*importapp.HistoryDetail, error)
	ListHistory(ctx context.Context, filter shared.Filter) (*shared.Paginated[*bulk.ImportHistory], error)
	ErrorsCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

// ImportHistoryHandler handles import history related HTTP requests
type ImportHistoryHandler struct {
	BaseHandler
	historyService ImportHistoryReader
}

// NewImportHistoryHandler creates a new ImportHistoryHandler
func NewImportHistoryHandler(historyService ImportHistoryReader) *ImportHistoryHandler {
	return &ImportHistoryHandler{historyService: historyService}
}

// ListHistory godoc
//
//	@Summary		List import histories
//	@Description	Returns a paginated list of past uploads, newest first
//	@Tags			import
//	@ID				listImportHistory
//	@Produce		json
//	@Param			page		query		int		false	"Page number (default: 1)"
//	@Param			page_size	query		int		false	"Page size (default: 20, max: 100)"
//	@Param			order_by	query		string	false	"Sort field"	Enums(created_at, file_name, status, total_rows)
//	@Param			order_dir	query		string	false	"Sort direction"	Enums(asc, desc)
//	@Success		200			{object}	APIResponse[dto.ImportHistoryListResponse]
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Router			/imports [get]
func (h *ImportHistoryHandler) ListHistory(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid request parameters")
		return
	}

	page, err := h.historyService.ListHistory(c.Request.Context(), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewImportHistoryListResponse(page), page.Total, page.Page, page.PageSize)
}

// GetHistory godoc
//
//	@Summary		Get import history details
//	@Description	Returns one past upload with a time-limited link to the archived file when available
//	@Tags			import
//	@ID				getImportHistory
//	@Produce		json
//	@Param			id	path		string	true	"Import history ID"	format(uuid)
//	@Success		200	{object}	APIResponse[dto.ImportHistoryResponse]
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		500	{object}	dto.ErrorResponse
//	@Router			/imports/{id} [get]
func (h *ImportHistoryHandler) GetHistory(c *gin.Context) {
	id, ok := h.parseHistoryID(c)
	if !ok {
		return
	}

	detail, err := h.historyService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}
	h.Success(c, dto.NewImportHistoryDetailResponse(detail))
}

// GetErrors godoc
//
//	@Summary		Download import errors as CSV
//	@Description	Downloads the stored row failures of one upload as a CSV file
//	@Tags			import
//	@ID				getImportErrors
//	@Produce		text/csv
//	@Param			id	path		string	true	"Import history ID"	format(uuid)
//	@Success		200	{string}	string	"CSV content"
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		500	{object}	dto.ErrorResponse
//	@Router			/imports/{id}/errors [get]
func (h *ImportHistoryHandler) GetErrors(c *gin.Context) {
	id, ok := h.parseHistoryID(c)
	if !ok {
		return
	}

	content, fileName, err := h.historyService.ErrorsCSV(c.Request.Context(), id)
	if err != nil {
		h.handleLookupError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Header("Content-Length", strconv.Itoa(len(content)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}

func (h *ImportHistoryHandler) parseHistoryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid history ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ImportHistoryHandler) handleLookupError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		h.NotFound(c, "Import history not found")
		return
	}
	h.HandleError(c, err)
}
