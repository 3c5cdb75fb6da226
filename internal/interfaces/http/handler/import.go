package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	importapp "github.com/fundledger/backend/internal/application/import"
	"github.com/fundledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DefaultMaxImportFileSize caps uploads when no limit is configured (10MB)
const DefaultMaxImportFileSize = 10 << 20

// BatchImporter ingests one uploaded CSV batch
type BatchImporter interface {
	ImportFile(ctx context.Context, fileName string, data []byte) (*importapp.ImportResult, error)
}

// ImportHandler handles CSV uploads
type ImportHandler struct {
	BaseHandler
	importer    BatchImporter
	maxFileSize int64
}

// NewImportHandler creates a new ImportHandler. maxFileSize <= 0 uses the default.
func NewImportHandler(importer BatchImporter, maxFileSize int64) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxImportFileSize
	}
	return &ImportHandler{importer: importer, maxFileSize: maxFileSize}
}

// UploadCSV godoc
//
//	@ID				uploadInvestorCSV
//	@Summary		Upload an investor commitments CSV
//	@Description	Ingests every row of the file. Row failures are reported per row and never abort the batch.
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"CSV file"
//	@Success		200		{object}	APIResponse[dto.UploadResponse]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		413		{object}	dto.ErrorResponse
//	@Failure		429		{object}	dto.ErrorResponse
//	@Failure		500		{object}	dto.ErrorResponse
//	@Router			/upload-csv [post]
func (h *ImportHandler) UploadCSV(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.fileTooLarge(c)
			return
		}
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeUnsupportedFile, "Only CSV files are allowed")
		return
	}
	if header.Size > h.maxFileSize {
		h.fileTooLarge(c)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.fileTooLarge(c)
		return
	}

	result, err := h.importer.ImportFile(c.Request.Context(), header.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewUploadResponse(result))
}

func (h *ImportHandler) fileTooLarge(c *gin.Context) {
	h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
		fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxFileSize))
}
