package bulk

import (
	"context"

	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportHistoryRepository defines the interface for import history persistence
type ImportHistoryRepository interface {
	// FindByID finds an import history by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ImportHistory, error)

	// FindAll returns import histories, newest first
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ImportHistory], error)

	// Save saves an import history (create or update)
	Save(ctx context.Context, history *ImportHistory) error
}
