package investor

import (
	"time"

	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Requests
// =============================================================================

// CreateInvestorRequest represents a request to create a single investor
type CreateInvestorRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=255"`
	InvestorType string `json:"investor_type" binding:"required,max=100"`
	Country      string `json:"country" binding:"required,max=100"`
}

// CreateCommitmentRequest represents a request to record one commitment
type CreateCommitmentRequest struct {
	InvestorID uuid.UUID       `json:"investor_id" binding:"required"`
	AssetClass string          `json:"asset_class" binding:"required,max=100"`
	Amount     decimal.Decimal `json:"amount" binding:"nonneg_decimal" swaggertype:"number"`
	Currency   string          `json:"currency" binding:"required,max=10"`
}

// =============================================================================
// Responses
// =============================================================================

// InvestorResponse represents an investor in API responses
type InvestorResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	InvestorType string    `json:"investor_type"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CommitmentResponse represents a commitment in API responses
type CommitmentResponse struct {
	ID         uuid.UUID `json:"id"`
	InvestorID uuid.UUID `json:"investor_id"`
	AssetClass string    `json:"asset_class"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
}

// CreateCommitmentResponse is a commitment plus whether this call created it
type CreateCommitmentResponse struct {
	CommitmentResponse
	Created bool `json:"created"`
}

// InvestorTotalResponse is one row of the investor listing
type InvestorTotalResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	InvestorType     string    `json:"investor_type"`
	Country          string    `json:"country"`
	TotalCommitments float64   `json:"total_commitments"`
}

// InvestorListResponse is the investor listing
type InvestorListResponse struct {
	Investors []InvestorTotalResponse `json:"investors"`
}

// InvestorDetailResponse is an investor with its commitments
type InvestorDetailResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	InvestorType string               `json:"investor_type"`
	Country      string               `json:"country"`
	Commitments  []CommitmentResponse `json:"commitments"`
}

// ToInvestorResponse converts a domain investor to a response
func ToInvestorResponse(inv *investor.Investor) InvestorResponse {
	return InvestorResponse{
		ID:           inv.ID,
		Name:         inv.Name,
		InvestorType: inv.InvestorType,
		Country:      inv.Country,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

// ToCommitmentResponse converts a domain commitment to a response
func ToCommitmentResponse(c *investor.Commitment) CommitmentResponse {
	return CommitmentResponse{
		ID:         c.ID,
		InvestorID: c.InvestorID,
		AssetClass: c.AssetClass,
		Amount:     c.Amount.InexactFloat64(),
		Currency:   c.Currency,
	}
}

// ToInvestorTotalResponse converts an aggregated investor to a listing row
func ToInvestorTotalResponse(t investor.InvestorTotal) InvestorTotalResponse {
	return InvestorTotalResponse{
		ID:               t.Investor.ID,
		Name:             t.Investor.Name,
		InvestorType:     t.Investor.InvestorType,
		Country:          t.Investor.Country,
		TotalCommitments: t.Total.InexactFloat64(),
	}
}
