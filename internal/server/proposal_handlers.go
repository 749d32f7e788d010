package server

import (
	"time"

	"stagedoor/internal/access"
	"stagedoor/internal/models"
	"stagedoor/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// proposalBody is the request payload for proposal writes.
type proposalBody struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	EventDate       *time.Time `json:"event_date"`
	Budget          int64      `json:"budget"`
	Status          string     `json:"status"`
	OriginalOwnerID uint       `json:"original_owner_id"`
}

func parseProposalStatus(raw string) (models.ProposalStatus, bool) {
	status := models.ProposalStatus(raw)
	switch status {
	case models.ProposalStatusDraft, models.ProposalStatusSent,
		models.ProposalStatusAccepted, models.ProposalStatusDeclined:
		return status, true
	}
	return "", false
}

// GetProposals handles GET /api/proposals
// @Summary Unified proposal listing
// @Description Proposals owned by the viewer interleaved with proposals reachable through grants, tagged is_linked.
// @Tags proposals
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{proposals=[]models.Proposal,total=int,owned=int,linked=int}
// @Router /proposals [get]
func (s *Server) GetProposals(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 20)

	ownerIDs, err := s.grantRepo.ListOwnerIDs(c.Context(), userID, models.DataTypeProposals)
	if err != nil {
		return respondAppError(c, err)
	}

	listing, err := s.proposalRepo.ListAccessible(c.Context(), userID, ownerIDs, p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"proposals": listing.Proposals,
		"total":     listing.Total,
		"owned":     listing.Owned,
		"linked":    listing.Linked,
	})
}

// CreateProposal handles POST /api/proposals
// @Summary Create a booking proposal
// @Description With original_owner_id set, the write requires a proposals grant and the proposal is created under the caller's own account.
// @Tags proposals
// @Accept json
// @Produce json
// @Param request body proposalBody true "Proposal"
// @Success 201 {object} models.Proposal
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /proposals [post]
func (s *Server) CreateProposal(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req proposalBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title is required"))
	}

	status := models.ProposalStatusDraft
	if req.Status != "" {
		parsed, ok := parseProposalStatus(req.Status)
		if !ok {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("status must be one of: draft, sent, accepted, declined"))
		}
		status = parsed
	}

	proposal := &models.Proposal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Budget:      req.Budget,
		Status:      status,
	}

	forked := false
	if req.OriginalOwnerID != 0 && req.OriginalOwnerID != userID {
		grant, err := s.grantRepo.Lookup(c.Context(), userID, models.DataTypeProposals, req.OriginalOwnerID)
		if err != nil {
			return respondAppError(c, err)
		}
		outcome, err := access.ResolveWriteTarget(userID, req.OriginalOwnerID, grant)
		if err != nil {
			observability.GrantDenials.WithLabelValues(string(models.DataTypeProposals), "create").Inc()
			return respondAppError(c, err)
		}
		forked = outcome == access.OutcomeFork
	}

	if err := s.proposalRepo.Create(c.Context(), proposal); err != nil {
		return respondAppError(c, err)
	}

	if forked {
		observability.CopyOnWriteForks.WithLabelValues(string(models.DataTypeProposals)).Inc()
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"proposal": proposal,
			"message":  "Proposal created under your own account; the original owner's records were not modified",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(proposal)
}

// UpdateProposal handles PUT /api/proposals/:id
// @Summary Update a proposal
// @Description Updates to own proposals apply in place. Updates to a linked owner's proposal fork a copy under the caller's account.
// @Tags proposals
// @Accept json
// @Produce json
// @Param id path int true "Proposal ID"
// @Param request body proposalBody true "Proposal"
// @Success 200 {object} models.Proposal
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /proposals/{id} [put]
func (s *Server) UpdateProposal(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req proposalBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Status != "" {
		if _, ok := parseProposalStatus(req.Status); !ok {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("status must be one of: draft, sent, accepted, declined"))
		}
	}

	proposal, err := s.proposalRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	var grant *models.PermissionGrant
	if proposal.UserID != userID {
		grant, err = s.grantRepo.Lookup(c.Context(), userID, models.DataTypeProposals, proposal.UserID)
		if err != nil {
			return respondAppError(c, err)
		}
	}

	outcome, err := access.ResolveWriteTarget(userID, proposal.UserID, grant)
	if err != nil {
		observability.GrantDenials.WithLabelValues(string(models.DataTypeProposals), "update").Inc()
		return respondAppError(c, err)
	}

	applyProposalBody(proposal, &req)

	if outcome == access.OutcomeMutate {
		if err := s.proposalRepo.Update(c.Context(), proposal); err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(proposal)
	}

	fork := &models.Proposal{
		UserID:      userID,
		Title:       proposal.Title,
		Description: proposal.Description,
		EventDate:   proposal.EventDate,
		Budget:      proposal.Budget,
		Status:      proposal.Status,
	}
	if err := s.proposalRepo.Create(c.Context(), fork); err != nil {
		return respondAppError(c, err)
	}

	observability.CopyOnWriteForks.WithLabelValues(string(models.DataTypeProposals)).Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"proposal": fork,
		"message":  "Proposal copied under your own account; the original was not modified",
	})
}

// DeleteProposal handles DELETE /api/proposals/:id
// @Summary Delete a proposal
// @Description Owners may always delete. Deleting a linked owner's proposal requires an admin-level proposals grant.
// @Tags proposals
// @Produce json
// @Param id path int true "Proposal ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /proposals/{id} [delete]
func (s *Server) DeleteProposal(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	proposal, err := s.proposalRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	var grant *models.PermissionGrant
	if proposal.UserID != userID {
		grant, err = s.grantRepo.Lookup(c.Context(), userID, models.DataTypeProposals, proposal.UserID)
		if err != nil {
			return respondAppError(c, err)
		}
	}

	if err := access.AuthorizeDelete(userID, proposal.UserID, grant); err != nil {
		observability.GrantDenials.WithLabelValues(string(models.DataTypeProposals), "delete").Inc()
		return respondAppError(c, err)
	}

	if err := s.proposalRepo.Delete(c.Context(), id); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Proposal deleted",
	})
}

// applyProposalBody copies present request fields onto the proposal.
func applyProposalBody(proposal *models.Proposal, req *proposalBody) {
	if req.Title != "" {
		proposal.Title = req.Title
	}
	if req.Description != "" {
		proposal.Description = req.Description
	}
	if req.EventDate != nil {
		proposal.EventDate = req.EventDate
	}
	if req.Budget != 0 {
		proposal.Budget = req.Budget
	}
	if req.Status != "" {
		if parsed, ok := parseProposalStatus(req.Status); ok {
			proposal.Status = parsed
		}
	}
}
