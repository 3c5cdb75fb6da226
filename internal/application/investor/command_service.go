package investor

import (
	"context"
	"errors"
	"time"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CommandService creates single investors and commitments outside a batch.
// Errors are request-scoped and returned to the caller.
type CommandService struct {
	uow       investor.UnitOfWork
	investors investor.InvestorRepository
	locker    shared.KeyLocker
	logger    *zap.Logger
}

// NewCommandService creates a new CommandService
func NewCommandService(
	uow investor.UnitOfWork,
	investors investor.InvestorRepository,
	locker shared.KeyLocker,
	logger *zap.Logger,
) *CommandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandService{
		uow:       uow,
		investors: investors,
		locker:    locker,
		logger:    logger,
	}
}

// CreateInvestor creates an investor. A name that already exists is a
// conflict, not a silent no-op.
func (s *CommandService) CreateInvestor(ctx context.Context, req CreateInvestorRequest) (*InvestorResponse, error) {
	unlock, err := s.locker.Lock(ctx, investor.LockKey(req.Name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var inv *investor.Investor
	err = s.uow.Execute(ctx, func(repos investor.Repositories) error {
		found, created, err := shared.FindOrCreate(ctx, repos.Investors, investor.NameKey(req.Name),
			func() (*investor.Investor, error) {
				return investor.NewInvestor(req.Name, req.InvestorType, req.Country, time.Time{}, time.Time{})
			})
		if err != nil {
			return err
		}
		if !created {
			return investor.NewInvestorConflictError(found.Name)
		}
		inv = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Investor created", zap.String("investor_id", inv.ID.String()), zap.String("name", inv.Name))
	response := ToInvestorResponse(inv)
	return &response, nil
}

// CreateCommitment records a commitment for an existing investor. An
// identical commitment is returned as is with Created false.
func (s *CommandService) CreateCommitment(ctx context.Context, req CreateCommitmentRequest) (*CreateCommitmentResponse, error) {
	if err := investor.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	owner, err := s.investors.FindByID(ctx, req.InvestorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, investor.ErrInvestorNotFound
		}
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, investor.LockKey(owner.Name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		commitment *investor.Commitment
		created    bool
	)
	err = s.uow.Execute(ctx, func(repos investor.Repositories) error {
		commitment, created, err = shared.FindOrCreate(ctx, repos.Commitments,
			investor.CommitmentKey(owner.ID, req.AssetClass, req.Amount, req.Currency),
			func() (*investor.Commitment, error) {
				return investor.NewCommitment(owner.ID, req.AssetClass, req.Amount, req.Currency)
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateCommitmentResponse{
		CommitmentResponse: ToCommitmentResponse(commitment),
		Created:            created,
	}, nil
}
