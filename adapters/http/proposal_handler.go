package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	proposalUC "github.com/khoahotran/honors-hub/internal/application/usecase/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

type ProposalHandler struct {
	listProposalsUseCase  *proposalUC.ListProposalsUseCase
	getProposalUseCase    *proposalUC.GetProposalUseCase
	submitProposalUseCase *proposalUC.SubmitProposalUseCase
	setStatusUseCase      *proposalUC.SetStatusUseCase
}

func NewProposalHandler(
	listUC *proposalUC.ListProposalsUseCase,
	getUC *proposalUC.GetProposalUseCase,
	submitUC *proposalUC.SubmitProposalUseCase,
	setStatusUC *proposalUC.SetStatusUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		listProposalsUseCase:  listUC,
		getProposalUseCase:    getUC,
		submitProposalUseCase: submitUC,
		setStatusUseCase:      setStatusUC,
	}
}

func (h *ProposalHandler) ListProposals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	output, err := h.listProposalsUseCase.Execute(c.Request.Context(), proposalUC.ListProposalsInput{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": ToProposalDTOs(output.Proposals),
		"page":      output.Page,
		"limit":     output.Limit,
	})
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	output, err := h.getProposalUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProposalDTO(output.Proposal))
}

func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	claims, ok := GetClaimsFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("user information not found", nil))
		return
	}

	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for proposal", err))
		return
	}

	output, err := h.submitProposalUseCase.Execute(c.Request.Context(), proposalUC.SubmitProposalInput{
		SubmitterID:    claims.UserID,
		SubmitterName:  claims.Name,
		Title:          req.Title,
		EventType:      req.EventType,
		Description:    req.Description,
		Goals:          req.Goals,
		Resources:      req.Resources,
		TargetAudience: req.TargetAudience,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToProposalDTO(output.Proposal))
}

func (h *ProposalHandler) SetStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for status update", err))
		return
	}

	output, err := h.setStatusUseCase.Execute(c.Request.Context(), proposalUC.SetStatusInput{
		ProposalID: c.Param("id"),
		Status:     req.Status,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposal": ToProposalDTO(output.Proposal),
		"changed":  output.Changed,
	})
}
