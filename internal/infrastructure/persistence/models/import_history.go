package models

import (
	"time"

	"github.com/fundledger/backend/internal/domain/bulk"
)

// ImportHistoryModel is the persistence model for the ImportHistory domain entity.
type ImportHistoryModel struct {
	BaseModel
	FileName     string            `gorm:"type:varchar(255);not null"`
	FileSize     int64             `gorm:"not null;default:0"`
	ArchiveKey   string            `gorm:"type:varchar(512);not null;default:''"`
	TotalRows    int               `gorm:"not null;default:0"`
	SuccessRows  int               `gorm:"not null;default:0"`
	FailedRows   int               `gorm:"not null;default:0"`
	IgnoredRows  int               `gorm:"not null;default:0"`
	Status       bulk.ImportStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ErrorDetails string            `gorm:"type:jsonb;default:'[]'"`
	StartedAt    *time.Time        `gorm:"type:timestamptz"`
	CompletedAt  *time.Time        `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (ImportHistoryModel) TableName() string {
	return "import_histories"
}

// ToDomain converts the persistence model to a domain ImportHistory entity.
func (m *ImportHistoryModel) ToDomain() *bulk.ImportHistory {
	history := &bulk.ImportHistory{
		BaseEntity:  m.BaseModel.ToDomain(),
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		ArchiveKey:  m.ArchiveKey,
		TotalRows:   m.TotalRows,
		SuccessRows: m.SuccessRows,
		FailedRows:  m.FailedRows,
		IgnoredRows: m.IgnoredRows,
		Status:      m.Status,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}

	if err := history.SetErrorDetailsFromJSON(m.ErrorDetails); err != nil {
		history.ErrorDetails = []bulk.ImportErrorDetail{}
	}
	return history
}

// FromDomain populates the persistence model from a domain ImportHistory entity.
func (m *ImportHistoryModel) FromDomain(h *bulk.ImportHistory) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.FileName = h.FileName
	m.FileSize = h.FileSize
	m.ArchiveKey = h.ArchiveKey
	m.TotalRows = h.TotalRows
	m.SuccessRows = h.SuccessRows
	m.FailedRows = h.FailedRows
	m.IgnoredRows = h.IgnoredRows
	m.Status = h.Status
	m.StartedAt = h.StartedAt
	m.CompletedAt = h.CompletedAt

	if errorJSON, err := h.ErrorDetailsJSON(); err == nil {
		m.ErrorDetails = errorJSON
	} else {
		m.ErrorDetails = "[]"
	}
}

// ImportHistoryModelFromDomain creates a new persistence model from a domain ImportHistory entity.
func ImportHistoryModelFromDomain(h *bulk.ImportHistory) *ImportHistoryModel {
	m := &ImportHistoryModel{}
	m.FromDomain(h)
	return m
}
