package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvestorRepository implements InvestorRepository using GORM
type GormInvestorRepository struct {
	db *gorm.DB
}

// NewGormInvestorRepository creates a new GormInvestorRepository
func NewGormInvestorRepository(db *gorm.DB) *GormInvestorRepository {
	return &GormInvestorRepository{db: db}
}

// FindOne finds the investor matching every field of key
func (r *GormInvestorRepository) FindOne(ctx context.Context, key shared.Key) (*investor.Investor, error) {
	query, err := applyKey(r.db.WithContext(ctx), key, InvestorKeyColumns)
	if err != nil {
		return nil, err
	}

	var model models.InvestorModel
	if err := query.Order("created_at, id").First(&model).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts inv and copies storage-assigned timestamps back onto it.
// The insert runs in a nested transaction, a savepoint when r.db is already
// transactional, so a unique violation leaves the outer transaction usable.
func (r *GormInvestorRepository) Create(ctx context.Context, inv *investor.Investor) error {
	model := models.InvestorModelFromDomain(inv)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("investor %q already exists", inv.Name))
	}

	inv.CreatedAt = model.CreatedAt
	inv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds an investor by its ID
func (r *GormInvestorRepository) FindByID(ctx context.Context, id uuid.UUID) (*investor.Investor, error) {
	var model models.InvestorModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

type investorTotalRow struct {
	ID           uuid.UUID
	Name         string
	InvestorType string
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Total        decimal.Decimal
}

// ListWithTotals returns every investor with the sum of its commitments.
// The outer join keeps investors without commitments at a zero total.
func (r *GormInvestorRepository) ListWithTotals(ctx context.Context) ([]investor.InvestorTotal, error) {
	var rows []investorTotalRow
	err := r.db.WithContext(ctx).
		Table("investors AS i").
		Select("i.id, i.name, i.investor_type, i.country, i.created_at, i.updated_at, COALESCE(SUM(c.amount), 0) AS total").
		Joins("LEFT JOIN investment_commitments AS c ON c.investor_id = i.id").
		Group("i.id, i.name, i.investor_type, i.country, i.created_at, i.updated_at").
		Order("i.created_at ASC, i.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]investor.InvestorTotal, len(rows))
	for i, row := range rows {
		totals[i] = investor.InvestorTotal{
			Investor: investor.Investor{
				BaseEntity: shared.BaseEntity{
					ID:        row.ID,
					CreatedAt: row.CreatedAt,
					UpdatedAt: row.UpdatedAt,
				},
				Name:         row.Name,
				InvestorType: row.InvestorType,
				Country:      row.Country,
			},
			Total: row.Total,
		}
	}
	return totals, nil
}

// Compile-time interface compliance check
var _ investor.InvestorRepository = (*GormInvestorRepository)(nil)
