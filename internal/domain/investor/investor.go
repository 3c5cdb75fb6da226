package investor

import (
	"strings"
	"time"

	"github.com/fundledger/backend/internal/domain/shared"
)

// Column names used in resolution keys
const (
	ColumnName         = "name"
	ColumnInvestorID   = "investor_id"
	ColumnAssetClass   = "asset_class"
	ColumnAmount       = "amount"
	ColumnCurrency     = "currency"
	maxInvestorNameLen = 255
)

// Investor is a capital provider identified by its unique name.
// InvestorType, Country and timestamps are informational; ingestion never
// updates them on an existing investor.
type Investor struct {
	shared.BaseEntity
	Name         string
	InvestorType string
	Country      string
}

// NewInvestor creates a new investor. Zero timestamps are assigned by storage.
func NewInvestor(name, investorType, country string, createdAt, updatedAt time.Time) (*Investor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Investor name cannot be empty")
	}
	if len(name) > maxInvestorNameLen {
		return nil, shared.NewDomainError("INVALID_INPUT", "Investor name cannot exceed 255 characters")
	}

	return &Investor{
		BaseEntity:   shared.NewBaseEntity(createdAt, updatedAt),
		Name:         name,
		InvestorType: strings.TrimSpace(investorType),
		Country:      strings.TrimSpace(country),
	}, nil
}

// NameKey is the identity key for investors: name only
func NameKey(name string) shared.Key {
	return shared.Key{{Column: ColumnName, Value: strings.TrimSpace(name)}}
}

// LockKey is the serialization key shared by every writer touching an
// investor or its commitments
func LockKey(name string) string {
	return "investor:" + strings.TrimSpace(name)
}
