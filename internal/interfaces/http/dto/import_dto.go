package dto

import (
	"time"

	importapp "github.com/fundledger/backend/internal/application/import"
	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UploadResponse is the outcome of one CSV upload
// @Description Per-batch counts plus one entry per failed row
type UploadResponse struct {
	ImportID          uuid.UUID              `json:"import_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status            string                 `json:"status" example:"completed"`
	SuccessfulImports int                    `json:"successful_imports" example:"5"`
	FailedImports     int                    `json:"failed_imports" example:"0"`
	IgnoredImports    int                    `json:"ignored_imports" example:"0"`
	Errors            []string               `json:"errors"`
	Failures          []importapp.RowFailure `json:"failures"`
}

// NewUploadResponse converts an import result
func NewUploadResponse(r *importapp.ImportResult) UploadResponse {
	return UploadResponse{
		ImportID:          r.ImportID,
		Status:            r.Status,
		SuccessfulImports: r.SuccessfulImports,
		FailedImports:     r.FailedImports,
		IgnoredImports:    r.IgnoredImports,
		Errors:            r.Errors(),
		Failures:          r.Failures,
	}
}

// ImportHistoryResponse is one past upload
// @Description Import history record
type ImportHistoryResponse struct {
	ID                  uuid.UUID                `json:"id"`
	FileName            string                   `json:"file_name" example:"investors.csv"`
	FileSize            int64                    `json:"file_size" example:"1024"`
	Status              string                   `json:"status" example:"completed"`
	TotalRows           int                      `json:"total_rows" example:"5"`
	SuccessRows         int                      `json:"success_rows" example:"5"`
	FailedRows          int                      `json:"failed_rows" example:"0"`
	IgnoredRows         int                      `json:"ignored_rows" example:"0"`
	ErrorDetails        []bulk.ImportErrorDetail `json:"error_details"`
	StartedAt           *time.Time               `json:"started_at,omitempty"`
	CompletedAt         *time.Time               `json:"completed_at,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	ArchiveURL          string                   `json:"archive_url,omitempty"`
	ArchiveURLExpiresAt *time.Time               `json:"archive_url_expires_at,omitempty"`
}

// NewImportHistoryResponse converts a history record
func NewImportHistoryResponse(h *bulk.ImportHistory) ImportHistoryResponse {
	details := h.ErrorDetails
	if details == nil {
		details = []bulk.ImportErrorDetail{}
	}
	return ImportHistoryResponse{
		ID:           h.ID,
		FileName:     h.FileName,
		FileSize:     h.FileSize,
		Status:       string(h.Status),
		TotalRows:    h.TotalRows,
		SuccessRows:  h.SuccessRows,
		FailedRows:   h.FailedRows,
		IgnoredRows:  h.IgnoredRows,
		ErrorDetails: details,
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
		CreatedAt:    h.CreatedAt,
	}
}

// NewImportHistoryDetailResponse converts a history record with its archive link
func NewImportHistoryDetailResponse(d *importapp.HistoryDetail) ImportHistoryResponse {
	resp := NewImportHistoryResponse(d.History)
	resp.ArchiveURL = d.ArchiveURL
	resp.ArchiveURLExpiresAt = d.ArchiveURLExpiresAt
	return resp
}

// ImportHistoryListResponse is one page of import histories
type ImportHistoryListResponse struct {
	Items []ImportHistoryResponse `json:"items"`
}

// NewImportHistoryListResponse converts a page of history records
func NewImportHistoryListResponse(page *shared.Paginated[*bulk.ImportHistory]) ImportHistoryListResponse {
	items := make([]ImportHistoryResponse, len(page.Items))
	for i, h := range page.Items {
		items[i] = NewImportHistoryResponse(h)
	}
	return ImportHistoryListResponse{Items: items}
}
