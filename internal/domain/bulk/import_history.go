package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fundledger/backend/internal/domain/shared"
)

// ImportStatus represents the status of an ingestion batch
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsValid checks if the status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusPending, ImportStatusProcessing, ImportStatusCompleted, ImportStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// ImportErrorDetail is the stored form of one failed row
type ImportErrorDetail struct {
	Row     int    `json:"row"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ImportHistory records the outcome of one uploaded batch
type ImportHistory struct {
	shared.BaseEntity
	FileName     string
	FileSize     int64
	ArchiveKey   string
	TotalRows    int
	SuccessRows  int
	FailedRows   int
	IgnoredRows  int
	Status       ImportStatus
	ErrorDetails []ImportErrorDetail
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// NewImportHistory creates a pending history record for an uploaded file
func NewImportHistory(fileName string, fileSize int64) (*ImportHistory, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	now := time.Now()
	return &ImportHistory{
		BaseEntity:   shared.NewBaseEntity(now, now),
		FileName:     fileName,
		FileSize:     fileSize,
		Status:       ImportStatusPending,
		ErrorDetails: make([]ImportErrorDetail, 0),
	}, nil
}

// StartProcessing marks the batch as started
func (h *ImportHistory) StartProcessing(totalRows int) error {
	if h.Status != ImportStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing from state: %s", h.Status))
	}
	if totalRows < 0 {
		return shared.NewDomainError("INVALID_TOTAL_ROWS", "Total rows cannot be negative")
	}

	now := time.Now()
	h.Status = ImportStatusProcessing
	h.TotalRows = totalRows
	h.StartedAt = &now
	h.UpdatedAt = now
	return nil
}

// Complete records the batch tallies. A batch where every row failed is
// marked failed; anything else is completed.
func (h *ImportHistory) Complete(successRows, failedRows, ignoredRows int, details []ImportErrorDetail) error {
	if h.Status != ImportStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", h.Status))
	}

	status := ImportStatusCompleted
	if failedRows > 0 && successRows == 0 && ignoredRows == 0 {
		status = ImportStatusFailed
	}

	now := time.Now()
	h.Status = status
	h.SuccessRows = successRows
	h.FailedRows = failedRows
	h.IgnoredRows = ignoredRows
	h.ErrorDetails = details
	h.CompletedAt = &now
	h.UpdatedAt = now
	return nil
}

// Fail marks the batch as rejected before any row was processed
func (h *ImportHistory) Fail(details []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}

	now := time.Now()
	h.Status = ImportStatusFailed
	h.ErrorDetails = details
	h.CompletedAt = &now
	h.UpdatedAt = now
	return nil
}

// ErrorDetailsJSON returns the error details as a JSON string
func (h *ImportHistory) ErrorDetailsJSON() (string, error) {
	if len(h.ErrorDetails) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(h.ErrorDetails)
	if err != nil {
		return "", fmt.Errorf("failed to marshal error details: %w", err)
	}
	return string(data), nil
}

// SetErrorDetailsFromJSON parses error details from a JSON string
func (h *ImportHistory) SetErrorDetailsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		h.ErrorDetails = make([]ImportErrorDetail, 0)
		return nil
	}
	var details []ImportErrorDetail
	if err := json.Unmarshal([]byte(jsonStr), &details); err != nil {
		return fmt.Errorf("failed to unmarshal error details: %w", err)
	}
	h.ErrorDetails = details
	return nil
}

// Duration returns how long processing took, or has taken so far
func (h *ImportHistory) Duration() time.Duration {
	if h.StartedAt == nil {
		return 0
	}
	if h.CompletedAt == nil {
		return time.Since(*h.StartedAt)
	}
	return h.CompletedAt.Sub(*h.StartedAt)
}
