package models

import (
	"github.com/fundledger/backend/internal/domain/investor"
)

// InvestorModel is the persistence model for the Investor domain entity.
type InvestorModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null;uniqueIndex:uq_investors_name"`
	InvestorType string `gorm:"type:varchar(100);not null;default:''"`
	Country      string `gorm:"type:varchar(100);not null;default:''"`
}

// TableName returns the table name for GORM
func (InvestorModel) TableName() string {
	return "investors"
}

// ToDomain converts the persistence model to a domain Investor entity.
func (m *InvestorModel) ToDomain() *investor.Investor {
	return &investor.Investor{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		InvestorType: m.InvestorType,
		Country:      m.Country,
	}
}

// FromDomain populates the persistence model from a domain Investor entity.
func (m *InvestorModel) FromDomain(inv *investor.Investor) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Name = inv.Name
	m.InvestorType = inv.InvestorType
	m.Country = inv.Country
}

// InvestorModelFromDomain creates a new persistence model from a domain Investor entity.
func InvestorModelFromDomain(inv *investor.Investor) *InvestorModel {
	m := &InvestorModel{}
	m.FromDomain(inv)
	return m
}
