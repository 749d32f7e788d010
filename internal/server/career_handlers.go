package server

import (
	"time"

	"stagedoor/internal/access"
	"stagedoor/internal/models"
	"stagedoor/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// careerEntryBody is the request payload for career entry writes.
type careerEntryBody struct {
	Title           string     `json:"title"`
	Venue           string     `json:"venue"`
	Role            string     `json:"role"`
	StartedOn       *time.Time `json:"started_on"`
	EndedOn         *time.Time `json:"ended_on"`
	Description     string     `json:"description"`
	OriginalOwnerID uint       `json:"original_owner_id"`
}

// GetCareers handles GET /api/careers
// @Summary Unified career history
// @Description Entries owned by the viewer interleaved with entries reachable through career grants, tagged is_linked. ?userId= narrows to one owner.
// @Tags careers
// @Produce json
// @Param userId query int false "Narrow to one owner"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{careers=[]models.CareerEntry,total=int,owned=int,linked=int}
// @Failure 403 {object} object{error=string}
// @Router /careers [get]
func (s *Server) GetCareers(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 20)

	if ownerQuery := c.QueryInt("userId", 0); ownerQuery > 0 {
		return s.getCareersForOwner(c, userID, uint(ownerQuery))
	}

	ownerIDs, err := s.grantRepo.ListOwnerIDs(c.Context(), userID, models.DataTypeCareer)
	if err != nil {
		return respondAppError(c, err)
	}

	listing, err := s.careerRepo.ListAccessible(c.Context(), userID, ownerIDs, p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"careers": listing.Entries,
		"total":   listing.Total,
		"owned":   listing.Owned,
		"linked":  listing.Linked,
	})
}

// getCareersForOwner serves the ?userId= narrowing: only the owner or a
// career grant holder may read one owner's history.
func (s *Server) getCareersForOwner(c *fiber.Ctx, viewerID, ownerID uint) error {
	linked := false
	if ownerID != viewerID {
		grant, err := s.grantRepo.Lookup(c.Context(), viewerID, models.DataTypeCareer, ownerID)
		if err != nil {
			return respondAppError(c, err)
		}
		if grant == nil {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("no grant covers this data"))
		}
		linked = true
	}

	entries, err := s.careerRepo.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return respondAppError(c, err)
	}
	for i := range entries {
		entries[i].IsLinked = linked
	}

	owned := int64(len(entries))
	var linkedCount int64
	if linked {
		linkedCount = owned
		owned = 0
	}
	return c.JSON(fiber.Map{
		"careers": entries,
		"total":   int64(len(entries)),
		"owned":   owned,
		"linked":  linkedCount,
	})
}

// CreateCareer handles POST /api/careers
// @Summary Create a career entry
// @Description With original_owner_id set, the write goes through the mutation gateway: a career grant is required and the entry is created under the caller's own account, never the owner's.
// @Tags careers
// @Accept json
// @Produce json
// @Param request body careerEntryBody true "Career entry"
// @Success 201 {object} models.CareerEntry
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /careers [post]
func (s *Server) CreateCareer(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req careerEntryBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title is required"))
	}

	entry := &models.CareerEntry{
		UserID:      userID,
		Title:       req.Title,
		Venue:       req.Venue,
		Role:        req.Role,
		Description: req.Description,
		EndedOn:     req.EndedOn,
	}
	if req.StartedOn != nil {
		entry.StartedOn = *req.StartedOn
	}

	forked := false
	if req.OriginalOwnerID != 0 && req.OriginalOwnerID != userID {
		grant, err := s.grantRepo.Lookup(c.Context(), userID, models.DataTypeCareer, req.OriginalOwnerID)
		if err != nil {
			return respondAppError(c, err)
		}
		outcome, err := access.ResolveWriteTarget(userID, req.OriginalOwnerID, grant)
		if err != nil {
			observability.GrantDenials.WithLabelValues(string(models.DataTypeCareer), "create").Inc()
			return respondAppError(c, err)
		}
		forked = outcome == access.OutcomeFork
	}

	if err := s.careerRepo.Create(c.Context(), entry); err != nil {
		return respondAppError(c, err)
	}

	if forked {
		observability.CopyOnWriteForks.WithLabelValues(string(models.DataTypeCareer)).Inc()
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"career":  entry,
			"message": "Entry created under your own account; the original owner's records were not modified",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateCareer handles PUT /api/careers/:id
// @Summary Update a career entry
// @Description Updates to own entries apply in place. Updates to a linked owner's entry fork a copy under the caller's account; the original entry is never modified.
// @Tags careers
// @Accept json
// @Produce json
// @Param id path int true "Career entry ID"
// @Param request body careerEntryBody true "Career entry"
// @Success 200 {object} models.CareerEntry
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /careers/{id} [put]
func (s *Server) UpdateCareer(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req careerEntryBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.careerRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	var grant *models.PermissionGrant
	if entry.UserID != userID {
		grant, err = s.grantRepo.Lookup(c.Context(), userID, models.DataTypeCareer, entry.UserID)
		if err != nil {
			return respondAppError(c, err)
		}
	}

	outcome, err := access.ResolveWriteTarget(userID, entry.UserID, grant)
	if err != nil {
		observability.GrantDenials.WithLabelValues(string(models.DataTypeCareer), "update").Inc()
		return respondAppError(c, err)
	}

	applyCareerBody(entry, &req)

	if outcome == access.OutcomeMutate {
		if err := s.careerRepo.Update(c.Context(), entry); err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(entry)
	}

	// Copy-on-write: the updated state lands in a new entry owned by the
	// caller. The original row is untouched.
	fork := &models.CareerEntry{
		UserID:      userID,
		Title:       entry.Title,
		Venue:       entry.Venue,
		Role:        entry.Role,
		StartedOn:   entry.StartedOn,
		EndedOn:     entry.EndedOn,
		Description: entry.Description,
	}
	if err := s.careerRepo.Create(c.Context(), fork); err != nil {
		return respondAppError(c, err)
	}

	observability.CopyOnWriteForks.WithLabelValues(string(models.DataTypeCareer)).Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"career":  fork,
		"message": "Entry copied under your own account; the original was not modified",
	})
}

// DeleteCareer handles DELETE /api/careers/:id
// @Summary Delete a career entry
// @Description Owners may always delete. Deleting a linked owner's entry requires an admin-level career grant; write-level grants are refused.
// @Tags careers
// @Produce json
// @Param id path int true "Career entry ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /careers/{id} [delete]
func (s *Server) DeleteCareer(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	entry, err := s.careerRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	var grant *models.PermissionGrant
	if entry.UserID != userID {
		grant, err = s.grantRepo.Lookup(c.Context(), userID, models.DataTypeCareer, entry.UserID)
		if err != nil {
			return respondAppError(c, err)
		}
	}

	if err := access.AuthorizeDelete(userID, entry.UserID, grant); err != nil {
		observability.GrantDenials.WithLabelValues(string(models.DataTypeCareer), "delete").Inc()
		return respondAppError(c, err)
	}

	if err := s.careerRepo.Delete(c.Context(), id); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Career entry deleted",
	})
}

// applyCareerBody copies present request fields onto the entry.
func applyCareerBody(entry *models.CareerEntry, req *careerEntryBody) {
	if req.Title != "" {
		entry.Title = req.Title
	}
	if req.Venue != "" {
		entry.Venue = req.Venue
	}
	if req.Role != "" {
		entry.Role = req.Role
	}
	if req.StartedOn != nil {
		entry.StartedOn = *req.StartedOn
	}
	if req.EndedOn != nil {
		entry.EndedOn = req.EndedOn
	}
	if req.Description != "" {
		entry.Description = req.Description
	}
}
