package investor

import (
	"context"

	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestorTotal is an investor with the sum of its commitment amounts
type InvestorTotal struct {
	Investor Investor
	Total    decimal.Decimal
}

// InvestorRepository defines the interface for investor persistence
type InvestorRepository interface {
	shared.Store[Investor]

	// FindByID finds an investor by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Investor, error)

	// ListWithTotals returns every investor with its summed commitments,
	// zero for investors without any, in creation order
	ListWithTotals(ctx context.Context) ([]InvestorTotal, error)
}

// CommitmentRepository defines the interface for commitment persistence
type CommitmentRepository interface {
	shared.Store[Commitment]

	// FindByInvestor returns an investor's commitments in creation order
	FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]Commitment, error)
}

// Repositories groups the repositories bound to one unit of work
type Repositories struct {
	Investors   InvestorRepository
	Commitments CommitmentRepository
}

// UnitOfWork runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise; nothing fn wrote is visible after a
// rollback.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
