package persistence

import (
	"context"
	"fmt"

	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormImportHistoryRepository implements ImportHistoryRepository using GORM
type GormImportHistoryRepository struct {
	db *gorm.DB
}

// NewGormImportHistoryRepository creates a new GormImportHistoryRepository
func NewGormImportHistoryRepository(db *gorm.DB) *GormImportHistoryRepository {
	return &GormImportHistoryRepository{db: db}
}

// FindByID finds an import history by ID
func (r *GormImportHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	var model models.ImportHistoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateReadError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns import histories page by page, newest first unless the
// filter names another allowed sort field
func (r *GormImportHistoryRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*bulk.ImportHistory], error) {
	var totalCount int64
	if err := r.db.WithContext(ctx).Model(&models.ImportHistoryModel{}).Count(&totalCount).Error; err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.ImportHistoryModel{})
	orderBy := ValidateSortField(filter.OrderBy, ImportHistorySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir)).Order("id " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var historyModels []models.ImportHistoryModel
	if err := query.Find(&historyModels).Error; err != nil {
		return nil, err
	}

	histories := make([]*bulk.ImportHistory, len(historyModels))
	for i := range historyModels {
		histories[i] = historyModels[i].ToDomain()
	}

	result := shared.NewPaginated(histories, totalCount, filter.Page, filter.PageSize)
	return &result, nil
}

// Save saves an import history (create or update)
func (r *GormImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	model := models.ImportHistoryModelFromDomain(history)
	return r.db.WithContext(ctx).Save(model).Error
}

// Compile-time interface compliance check
var _ bulk.ImportHistoryRepository = (*GormImportHistoryRepository)(nil)
