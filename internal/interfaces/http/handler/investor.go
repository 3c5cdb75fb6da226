package handler

import (
	"context"

	investorapp "github.com/fundledger/backend/internal/application/investor"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvestorCommands creates single investors and commitments
type InvestorCommands interface {
	CreateInvestor(ctx context.Context, req investorapp.CreateInvestorRequest) (*investorapp.InvestorResponse, error)
	CreateCommitment(ctx context.Context, req investorapp.CreateCommitmentRequest) (*investorapp.CreateCommitmentResponse, error)
}

// InvestorQueries reads investors and their totals
type InvestorQueries interface {
	ListInvestorTotals(ctx context.Context) (*investorapp.InvestorListResponse, error)
	GetInvestorDetail(ctx context.Context, id uuid.UUID) (*investorapp.InvestorDetailResponse, error)
}

// InvestorHandler handles investor and commitment endpoints
type InvestorHandler struct {
	BaseHandler
	commands InvestorCommands
	queries  InvestorQueries
}

// NewInvestorHandler creates a new InvestorHandler
func NewInvestorHandler(commands InvestorCommands, queries InvestorQueries) *InvestorHandler {
	return &InvestorHandler{commands: commands, queries: queries}
}

// CreateInvestor godoc
//
//	@ID				createInvestor
//	@Summary		Create an investor
//	@Description	Creates one investor. Investor names are unique.
//	@Tags			investors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		investorapp.CreateInvestorRequest	true	"Investor"
//	@Success		201		{object}	APIResponse[investorapp.InvestorResponse]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Failure		500		{object}	dto.ErrorResponse
//	@Router			/investors [post]
func (h *InvestorHandler) CreateInvestor(c *gin.Context) {
	var req investorapp.CreateInvestorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.commands.CreateInvestor(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListInvestors godoc
//
//	@ID				listInvestors
//	@Summary		List investors with commitment totals
//	@Description	Every investor with the sum of its commitments. Investors without commitments show 0.
//	@Tags			investors
//	@Produce		json
//	@Success		200	{object}	APIResponse[investorapp.InvestorListResponse]
//	@Failure		500	{object}	dto.ErrorResponse
//	@Router			/investors [get]
func (h *InvestorHandler) ListInvestors(c *gin.Context) {
	resp, err := h.queries.ListInvestorTotals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetInvestor godoc
//
//	@ID				getInvestor
//	@Summary		Get an investor
//	@Description	An investor with its commitments in creation order
//	@Tags			investors
//	@Produce		json
//	@Param			id	path		string	true	"Investor ID"	format(uuid)
//	@Success		200	{object}	APIResponse[investorapp.InvestorDetailResponse]
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		500	{object}	dto.ErrorResponse
//	@Router			/investors/{id} [get]
func (h *InvestorHandler) GetInvestor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investor ID")
		return
	}

	resp, err := h.queries.GetInvestorDetail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCommitment godoc
//
//	@ID				createInvestmentCommitment
//	@Summary		Record an investment commitment
//	@Description	Records a commitment for an existing investor. An identical commitment is returned with 200 and created=false.
//	@Tags			investors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		investorapp.CreateCommitmentRequest	true	"Commitment"
//	@Success		201		{object}	APIResponse[investorapp.CreateCommitmentResponse]
//	@Success		200		{object}	APIResponse[investorapp.CreateCommitmentResponse]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		500		{object}	dto.ErrorResponse
//	@Router			/investment-commitments [post]
func (h *InvestorHandler) CreateCommitment(c *gin.Context) {
	var req investorapp.CreateCommitmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.commands.CreateCommitment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.Created {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}
