package investor

import (
	"fmt"
	"strings"
	"time"

	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places an amount may carry. Storage
// keeps amounts as NUMERIC(20,2), so finer values would be rounded on write
// and no longer match their own dedup key.
const AmountScale = 2

// ValidateAmount rejects negative amounts and amounts finer than AmountScale
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Commitment amount cannot be negative")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Commitment amount %s has more than %d decimal places", amount.String(), AmountScale))
	}
	return nil
}

// Commitment is an amount of capital an investor has pledged to an asset class.
// A commitment belongs to exactly one investor and is never reassigned.
type Commitment struct {
	shared.BaseEntity
	InvestorID uuid.UUID
	AssetClass string
	Amount     decimal.Decimal
	Currency   string
}

// NewCommitment creates a commitment owned by investorID
func NewCommitment(investorID uuid.UUID, assetClass string, amount decimal.Decimal, currency string) (*Commitment, error) {
	if investorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Commitment requires an investor")
	}
	assetClass = strings.TrimSpace(assetClass)
	if assetClass == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset class cannot be empty")
	}
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Currency cannot be empty")
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	return &Commitment{
		BaseEntity: shared.NewBaseEntity(time.Time{}, time.Time{}),
		InvestorID: investorID,
		AssetClass: assetClass,
		Amount:     amount,
		Currency:   currency,
	}, nil
}

// CommitmentKey is the dedup key for commitments
func CommitmentKey(investorID uuid.UUID, assetClass string, amount decimal.Decimal, currency string) shared.Key {
	return shared.Key{
		{Column: ColumnInvestorID, Value: investorID},
		{Column: ColumnAssetClass, Value: strings.TrimSpace(assetClass)},
		{Column: ColumnAmount, Value: amount},
		{Column: ColumnCurrency, Value: strings.TrimSpace(currency)},
	}
}

// Key returns the commitment's own dedup key
func (c *Commitment) Key() shared.Key {
	return CommitmentKey(c.InvestorID, c.AssetClass, c.Amount, c.Currency)
}
