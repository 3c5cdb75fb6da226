package persistence

import (
	"context"
	"fmt"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommitmentRepository implements CommitmentRepository using GORM
type GormCommitmentRepository struct {
	db *gorm.DB
}

// NewGormCommitmentRepository creates a new GormCommitmentRepository
func NewGormCommitmentRepository(db *gorm.DB) *GormCommitmentRepository {
	return &GormCommitmentRepository{db: db}
}

// FindOne finds the commitment matching every field of key
func (r *GormCommitmentRepository) FindOne(ctx context.Context, key shared.Key) (*investor.Commitment, error) {
	query, err := applyKey(r.db.WithContext(ctx), key, CommitmentKeyColumns)
	if err != nil {
		return nil, err
	}

	var model models.CommitmentModel
	if err := query.Order("created_at, id").First(&model).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts c inside a nested transaction, see GormInvestorRepository.Create
func (r *GormCommitmentRepository) Create(ctx context.Context, c *investor.Commitment) error {
	model := models.CommitmentModelFromDomain(c)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Investor").Create(model).Error
	})
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("commitment %s already exists", c.Key()))
	}

	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByInvestor returns an investor's commitments in creation order
func (r *GormCommitmentRepository) FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]investor.Commitment, error) {
	var rows []models.CommitmentModel
	if err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	commitments := make([]investor.Commitment, len(rows))
	for i := range rows {
		commitments[i] = *rows[i].ToDomain()
	}
	return commitments, nil
}

// Compile-time interface compliance check
var _ investor.CommitmentRepository = (*GormCommitmentRepository)(nil)
