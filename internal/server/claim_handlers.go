package server

import (
	"stagedoor/internal/access"
	"stagedoor/internal/models"
	"stagedoor/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CreateClaim handles POST /api/claims
// @Summary Request a claim on a roster profile
// @Description Submit a request to be linked to an administrator-seeded dancer profile
// @Tags claims
// @Accept json
// @Produce json
// @Param request body object{claimed_user_id=int,reason=string} true "Claim request"
// @Success 201 {object} models.Claim
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /claims [post]
func (s *Server) CreateClaim(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ClaimedUserID uint   `json:"claimed_user_id"`
		Reason        string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ClaimedUserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("claimed_user_id is required"))
	}

	claimant, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	target, err := s.userRepo.GetByID(c.Context(), req.ClaimedUserID)
	if err != nil {
		return respondAppError(c, err)
	}

	hasPending, err := s.claimRepo.HasPendingForClaimant(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := access.ValidateClaimRequest(access.ClaimRequest{
		Claimant: claimant,
		Target:   target,
		Reason:   req.Reason,
	}, hasPending); err != nil {
		return respondAppError(c, err)
	}

	claim := &models.Claim{
		ClaimantID:   userID,
		TargetUserID: target.ID,
		Status:       models.ClaimStatusPending,
		Reason:       req.Reason,
	}
	if err := s.claimRepo.Create(c.Context(), claim); err != nil {
		return respondAppError(c, err)
	}

	observability.ClaimsSubmitted.Inc()

	return c.Status(fiber.StatusCreated).JSON(claim)
}

// GetMyClaims handles GET /api/claims/me
// @Summary List own claim history
// @Tags claims
// @Produce json
// @Success 200 {object} object{claims=[]models.Claim}
// @Router /claims/me [get]
func (s *Server) GetMyClaims(c *fiber.Ctx) error {
	userID := currentUserID(c)

	claims, err := s.claimRepo.ListByClaimant(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"claims": claims,
	})
}

// GetMyConnections handles GET /api/connections/me
// @Summary List own data connections
// @Tags connections
// @Produce json
// @Success 200 {object} object{connections=[]models.Connection}
// @Router /connections/me [get]
func (s *Server) GetMyConnections(c *fiber.Ctx) error {
	userID := currentUserID(c)

	conns, err := s.connectionRepo.ListForUser(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"connections": conns,
	})
}

// GetMyGrants handles GET /api/grants/me
// @Summary List own permission grants
// @Tags connections
// @Produce json
// @Success 200 {object} object{grants=[]models.PermissionGrant}
// @Router /grants/me [get]
func (s *Server) GetMyGrants(c *fiber.Ctx) error {
	userID := currentUserID(c)

	grants, err := s.grantRepo.ListForUser(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"grants": grants,
	})
}
