package server

import (
	"stagedoor/internal/cache"
	"stagedoor/internal/models"
	"stagedoor/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GetAdminClaims handles GET /api/admin/claims
// @Summary List claims by status
// @Description Review queue for the administrator. Defaults to pending claims.
// @Tags admin
// @Produce json
// @Param status query string false "Claim status (pending|completed|rejected)"
// @Success 200 {object} object{claims=[]models.Claim}
// @Failure 400 {object} object{error=string}
// @Router /admin/claims [get]
func (s *Server) GetAdminClaims(c *fiber.Ctx) error {
	status := models.ClaimStatus(c.Query("status", string(models.ClaimStatusPending)))
	switch status {
	case models.ClaimStatusPending, models.ClaimStatusCompleted, models.ClaimStatusRejected:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status must be one of: pending, completed, rejected"))
	}

	claims, err := s.claimRepo.ListByStatus(c.Context(), status)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"claims": claims,
	})
}

// ResolveClaim handles PATCH /api/admin/claims/:id
// @Summary Approve or reject a pending claim
// @Description Approval activates the data connection, removes the claimed profile from the roster, and fans out write grants.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Claim ID"
// @Param request body object{status=string,message=string} true "Decision (approved|rejected)"
// @Success 200 {object} object{message=string,status=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /admin/claims/{id} [patch]
func (s *Server) ResolveClaim(c *fiber.Ctx) error {
	claimID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	reviewerID := currentUserID(c)

	var req struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var claim *models.Claim
	switch req.Status {
	case "approved":
		claim, err = s.approvals.Approve(c.Context(), claimID, reviewerID, req.Message)
	case "rejected":
		claim, err = s.approvals.Reject(c.Context(), claimID, reviewerID, req.Message)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("status must be approved or rejected"))
	}
	if err != nil {
		return respondAppError(c, err)
	}

	// Approval removes the claimed profile from the public listing.
	if claim.Status == models.ClaimStatusCompleted {
		cache.InvalidateRoster(c.Context())
		cache.InvalidateUser(c.Context(), claim.TargetUserID)
	}

	return c.JSON(fiber.Map{
		"message": "Claim " + req.Status,
		"status":  claim.Status,
	})
}

// GetAdminConnections handles GET /api/admin/connections
// @Summary List all data connections
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{connections=[]models.Connection,total=int}
// @Router /admin/connections [get]
func (s *Server) GetAdminConnections(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	conns, total, err := s.connectionRepo.ListAll(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"connections": conns,
		"total":       total,
	})
}

// CreateVirtualDancer handles POST /api/admin/dancers
// @Summary Seed a virtual dancer profile
// @Description Create an administrator-owned roster profile with no usable login. The profile takes the next free roster position.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,display_name=string,bio=string,avatar=string} true "Profile fields"
// @Success 201 {object} models.User
// @Failure 400 {object} object{error=string}
// @Router /admin/dancers [post]
func (s *Server) CreateVirtualDancer(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		Avatar      string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and email are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Virtual profiles have no usable login; the password is a hash of a
	// throwaway random value.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	order, err := s.userRepo.NextDisplayOrder(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hashed),
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		Avatar:       req.Avatar,
		Role:         models.RoleDancer,
		IsVirtual:    true,
		DisplayOrder: &order,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateRoster(c.Context())

	return c.Status(fiber.StatusCreated).JSON(user)
}

// ProvisionGrant handles POST /api/admin/grants
// @Summary Provision an elevated permission grant
// @Description The standard approval flow only creates write-level grants. Admin-level grants, which allow destructive operations on linked data, are provisioned here.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{user_id=int,data_type=string,original_owner_id=int,access_level=string} true "Grant"
// @Success 201 {object} models.PermissionGrant
// @Failure 400 {object} object{error=string}
// @Router /admin/grants [post]
func (s *Server) ProvisionGrant(c *fiber.Ctx) error {
	var req struct {
		UserID          uint   `json:"user_id"`
		DataType        string `json:"data_type"`
		OriginalOwnerID uint   `json:"original_owner_id"`
		AccessLevel     string `json:"access_level"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.UserID == 0 || req.OriginalOwnerID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id and original_owner_id are required"))
	}

	dataType := models.DataType(req.DataType)
	if !dataType.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("data_type must be one of: career, profile, proposals, teams"))
	}

	level := models.AccessLevel(req.AccessLevel)
	if level != models.AccessLevelWrite && level != models.AccessLevelAdmin {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("access_level must be write or admin"))
	}

	// Both sides of the grant must exist.
	if _, err := s.userRepo.GetByID(c.Context(), req.UserID); err != nil {
		return respondAppError(c, err)
	}
	if _, err := s.userRepo.GetByID(c.Context(), req.OriginalOwnerID); err != nil {
		return respondAppError(c, err)
	}

	grant := &models.PermissionGrant{
		UserID:          req.UserID,
		DataType:        dataType,
		OriginalOwnerID: req.OriginalOwnerID,
		AccessLevel:     level,
	}
	if err := s.grantRepo.Upsert(c.Context(), grant); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(grant)
}
