package persistence

import (
	"testing"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE investors;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"valid field returns field", "file_name", "file_name"},
		{"invalid field returns default", "password_hash", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE investors;--", "created_at"},
		{"case sensitive", "FILE_NAME", "created_at"},
		{"whitespace around valid field returns field", "  status  ", "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ImportHistorySortFields, "created_at"))
		})
	}
}

func TestApplyKey(t *testing.T) {
	db := newTestDB(t)

	t.Run("accepts every declared key column", func(t *testing.T) {
		_, err := applyKey(db, investor.NameKey("Ioo Gryffindor fund"), InvestorKeyColumns)
		require.NoError(t, err)

		key := investor.CommitmentKey(uuid.New(), "Hedge Funds", decimal.NewFromInt(1), "GBP")
		_, err = applyKey(db, key, CommitmentKeyColumns)
		require.NoError(t, err)
	})

	t.Run("rejects columns outside the allowlist", func(t *testing.T) {
		key := shared.Key{{Column: "name; DROP TABLE investors", Value: "x"}}
		_, err := applyKey(db, key, InvestorKeyColumns)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		_, err := applyKey(db, nil, InvestorKeyColumns)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
