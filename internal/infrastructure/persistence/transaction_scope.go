package persistence

import (
	"context"

	"github.com/fundledger/backend/internal/domain/investor"
	"gorm.io/gorm"
)

// GormTransactionScope implements UnitOfWork using GORM transactions.
// Repositories handed to the callback share one transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos investor.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(investor.Repositories{
			Investors:   NewGormInvestorRepository(tx),
			Commitments: NewGormCommitmentRepository(tx),
		})
	})
}

// Ensure GormTransactionScope implements UnitOfWork
var _ investor.UnitOfWork = (*GormTransactionScope)(nil)
