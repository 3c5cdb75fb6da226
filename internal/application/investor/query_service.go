package investor

import (
	"context"
	"errors"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QueryService serves the investor listing and detail views
type QueryService struct {
	investors   investor.InvestorRepository
	commitments investor.CommitmentRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(investors investor.InvestorRepository, commitments investor.CommitmentRepository) *QueryService {
	return &QueryService{investors: investors, commitments: commitments}
}

// ListInvestorTotals returns every investor with its summed commitments.
// Investors without commitments are listed with a total of 0.
func (s *QueryService) ListInvestorTotals(ctx context.Context) (*InvestorListResponse, error) {
	totals, err := s.investors.ListWithTotals(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]InvestorTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = ToInvestorTotalResponse(t)
	}
	return &InvestorListResponse{Investors: out}, nil
}

// GetInvestorDetail returns an investor with its commitments in creation order
func (s *QueryService) GetInvestorDetail(ctx context.Context, id uuid.UUID) (*InvestorDetailResponse, error) {
	inv, err := s.investors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, investor.ErrInvestorNotFound
		}
		return nil, err
	}

	commitments, err := s.commitments.FindByInvestor(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]CommitmentResponse, len(commitments))
	for i := range commitments {
		items[i] = ToCommitmentResponse(&commitments[i])
	}
	return &InvestorDetailResponse{
		ID:           inv.ID,
		Name:         inv.Name,
		InvestorType: inv.InvestorType,
		Country:      inv.Country,
		Commitments:  items,
	}, nil
}
