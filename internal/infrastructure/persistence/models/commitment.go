package models

import (
	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommitmentModel is the persistence model for the Commitment domain entity.
// The composite unique index mirrors the resolver key so concurrent creates
// of the same commitment collapse to one row.
type CommitmentModel struct {
	BaseModel
	InvestorID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_commitments_key,priority:1"`
	AssetClass string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_commitments_key,priority:2"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,2);not null;uniqueIndex:uq_commitments_key,priority:3"`
	Currency   string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_commitments_key,priority:4"`

	Investor *InvestorModel `gorm:"foreignKey:InvestorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CommitmentModel) TableName() string {
	return "investment_commitments"
}

// ToDomain converts the persistence model to a domain Commitment entity.
func (m *CommitmentModel) ToDomain() *investor.Commitment {
	return &investor.Commitment{
		BaseEntity: m.BaseModel.ToDomain(),
		InvestorID: m.InvestorID,
		AssetClass: m.AssetClass,
		Amount:     m.Amount,
		Currency:   m.Currency,
	}
}

// FromDomain populates the persistence model from a domain Commitment entity.
func (m *CommitmentModel) FromDomain(c *investor.Commitment) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.InvestorID = c.InvestorID
	m.AssetClass = c.AssetClass
	m.Amount = c.Amount
	m.Currency = c.Currency
}

// CommitmentModelFromDomain creates a new persistence model from a domain Commitment entity.
func CommitmentModelFromDomain(c *investor.Commitment) *CommitmentModel {
	m := &CommitmentModel{}
	m.FromDomain(c)
	return m
}
