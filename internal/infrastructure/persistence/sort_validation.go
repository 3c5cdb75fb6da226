package persistence

import (
	"fmt"
	"strings"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ImportHistorySortFields contains allowed sort fields for import histories
var ImportHistorySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"file_name":    true,
	"file_size":    true,
	"total_rows":   true,
	"success_rows": true,
	"failed_rows":  true,
	"status":       true,
	"started_at":   true,
	"completed_at": true,
}

// InvestorKeyColumns contains columns an investor lookup key may reference
var InvestorKeyColumns = map[string]bool{
	investor.ColumnName: true,
}

// CommitmentKeyColumns contains columns a commitment lookup key may reference
var CommitmentKeyColumns = map[string]bool{
	investor.ColumnInvestorID: true,
	investor.ColumnAssetClass: true,
	investor.ColumnAmount:     true,
	investor.ColumnCurrency:   true,
}

// applyKey adds one equality condition per key field. Column names are
// interpolated into SQL, so any column outside allowed is rejected.
func applyKey(query *gorm.DB, key shared.Key, allowed map[string]bool) (*gorm.DB, error) {
	if len(key) == 0 {
		return nil, shared.WrapDomainError(shared.ErrInvalidInput.Code, "lookup key is empty", shared.ErrInvalidInput)
	}
	for _, field := range key {
		if !allowed[field.Column] {
			return nil, shared.WrapDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("column %q is not a lookup column", field.Column), shared.ErrInvalidInput)
		}
		query = query.Where(field.Column+" = ?", field.Value)
	}
	return query, nil
}
