package investor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvestor(t *testing.T) {
	t.Run("trims fields and keeps timestamps", func(t *testing.T) {
		added := time.Date(2000, 7, 6, 0, 0, 0, 0, time.UTC)
		updated := time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC)

		inv, err := NewInvestor("  Ioo Gryffindor fund ", "fund manager", " Singapore", added, updated)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.Equal(t, "Ioo Gryffindor fund", inv.Name)
		assert.Equal(t, "fund manager", inv.InvestorType)
		assert.Equal(t, "Singapore", inv.Country)
		assert.Equal(t, added, inv.CreatedAt)
		assert.Equal(t, updated, inv.UpdatedAt)
	})

	t.Run("defaults updated to created when only created is set", func(t *testing.T) {
		added := time.Date(2000, 7, 6, 0, 0, 0, 0, time.UTC)

		inv, err := NewInvestor("Fund", "bank", "China", added, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, added, inv.UpdatedAt)
	})

	t.Run("leaves timestamps zero when absent", func(t *testing.T) {
		inv, err := NewInvestor("Fund", "bank", "China", time.Time{}, time.Time{})

		require.NoError(t, err)
		assert.True(t, inv.CreatedAt.IsZero())
		assert.True(t, inv.UpdatedAt.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewInvestor("   ", "bank", "China", time.Time{}, time.Time{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewInvestor(strings.Repeat("x", 256), "bank", "China", time.Time{}, time.Time{})
		assert.Error(t, err)
	})
}

func TestNameKey(t *testing.T) {
	key := NameKey(" Mjd Jedi fund ")
	require.Len(t, key, 1)
	assert.Equal(t, ColumnName, key[0].Column)
	assert.Equal(t, "Mjd Jedi fund", key[0].Value)
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "investor:Mjd Jedi fund", LockKey(" Mjd Jedi fund"))
}

func TestNewCommitment(t *testing.T) {
	investorID := uuid.New()

	t.Run("creates commitment", func(t *testing.T) {
		c, err := NewCommitment(investorID, "Infrastructure", decimal.NewFromInt(15000000), "GBP")

		require.NoError(t, err)
		assert.Equal(t, investorID, c.InvestorID)
		assert.True(t, c.Amount.Equal(decimal.NewFromInt(15000000)))
		assert.Equal(t, "GBP", c.Currency)
	})

	t.Run("accepts zero amount", func(t *testing.T) {
		_, err := NewCommitment(investorID, "Hedge Funds", decimal.Zero, "USD")
		assert.NoError(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewCommitment(investorID, "Hedge Funds", decimal.NewFromInt(-1), "USD")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects amount finer than cents", func(t *testing.T) {
		_, err := NewCommitment(investorID, "Hedge Funds", decimal.RequireFromString("100.005"), "USD")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects missing investor", func(t *testing.T) {
		_, err := NewCommitment(uuid.Nil, "Hedge Funds", decimal.NewFromInt(1), "USD")
		assert.Error(t, err)
	})

	t.Run("rejects blank asset class and currency", func(t *testing.T) {
		_, err := NewCommitment(investorID, " ", decimal.NewFromInt(1), "USD")
		assert.Error(t, err)
		_, err = NewCommitment(investorID, "Hedge Funds", decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})

	t.Run("key covers investor, asset class, amount and currency", func(t *testing.T) {
		c, err := NewCommitment(investorID, "Private Equity", decimal.NewFromInt(72000000), "GBP")
		require.NoError(t, err)

		assert.Equal(t, []string{ColumnInvestorID, ColumnAssetClass, ColumnAmount, ColumnCurrency}, c.Key().Columns())
	})
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr string
	}{
		{"0", ""},
		{"15000000", ""},
		{"100.01", ""},
		{"100.50", ""},
		{"100.500", ""},
		{"100.005", "more than 2 decimal places"},
		{"0.001", "more than 2 decimal places"},
		{"-0.01", "cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, KindRowFormat, KindOf(err))
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"row format", NewRowFormatError("bad amount %q", "abc"), KindRowFormat},
		{"invalid input", shared.ErrInvalidInput, KindRowFormat},
		{"not found", ErrInvestorNotFound, KindNotFound},
		{"conflict", NewInvestorConflictError("Fund"), KindConflict},
		{"batch source", NewBatchSourceError("CSV parsing error", errors.New("bad quote")), KindBatchSource},
		{"resolution", shared.WrapDomainError(shared.ErrResolution.Code, "create failed", shared.ErrAlreadyExists), KindResolution},
		{"plain error", errors.New("boom"), KindResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNewInvestorConflictError(t *testing.T) {
	err := NewInvestorConflictError("Cza Weasley fund")
	assert.Equal(t, "Investor with name 'Cza Weasley fund' already exists", err.Error())
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
