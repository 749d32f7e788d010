package server

import (
	"stagedoor/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTeams handles GET /api/teams
// @Summary List own teams and linked memberships
// @Description Teams the viewer belongs to, plus memberships of accounts that granted the viewer team visibility.
// @Tags teams
// @Produce json
// @Success 200 {object} object{teams=[]models.Team,linked_memberships=[]models.TeamMember}
// @Router /teams [get]
func (s *Server) GetTeams(c *fiber.Ctx) error {
	userID := currentUserID(c)

	teams, err := s.teamRepo.ListForUser(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	ownerIDs, err := s.grantRepo.ListOwnerIDs(c.Context(), userID, models.DataTypeTeams)
	if err != nil {
		return respondAppError(c, err)
	}
	linked, err := s.teamRepo.ListForOwners(c.Context(), ownerIDs)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"teams":              teams,
		"linked_memberships": linked,
	})
}

// CreateTeam handles POST /api/teams
// @Summary Create a team
// @Description The creator becomes the team leader.
// @Tags teams
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string} true "Team"
// @Success 201 {object} models.Team
// @Failure 400 {object} object{error=string}
// @Router /teams [post]
func (s *Server) CreateTeam(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}

	team := &models.Team{
		Name:            req.Name,
		Description:     req.Description,
		CreatedByUserID: userID,
	}
	if err := s.teamRepo.Create(c.Context(), team); err != nil {
		return respondAppError(c, err)
	}

	member := &models.TeamMember{
		TeamID: team.ID,
		UserID: userID,
		Role:   models.TeamMemberRoleLeader,
	}
	if err := s.teamRepo.UpsertMember(c.Context(), member); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

// GetTeam handles GET /api/teams/:id
// @Summary Get a team with its members
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} object{team=models.Team,members=[]models.TeamMember}
// @Failure 404 {object} object{error=string}
// @Router /teams/{id} [get]
func (s *Server) GetTeam(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	team, err := s.teamRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	members, err := s.teamRepo.ListMembers(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"team":    team,
		"members": members,
	})
}

// AddTeamMember handles POST /api/teams/:id/members
// @Summary Add a team member
// @Description Only the team leader or creator may add members.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body object{user_id=int,role=string} true "Member"
// @Success 201 {object} models.TeamMember
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /teams/{id}/members [post]
func (s *Server) AddTeamMember(c *fiber.Ctx) error {
	userID := currentUserID(c)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	role := models.TeamMemberRoleMember
	if req.Role != "" {
		parsed := models.TeamMemberRole(req.Role)
		if parsed != models.TeamMemberRoleLeader && parsed != models.TeamMemberRoleMember {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("role must be leader or member"))
		}
		role = parsed
	}

	if err := s.requireTeamLeadership(c, teamID, userID); err != nil {
		return nil
	}

	if _, err := s.userRepo.GetByID(c.Context(), req.UserID); err != nil {
		return respondAppError(c, err)
	}

	member := &models.TeamMember{
		TeamID: teamID,
		UserID: req.UserID,
		Role:   role,
	}
	if err := s.teamRepo.UpsertMember(c.Context(), member); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// RemoveTeamMember handles DELETE /api/teams/:id/members/:userId
// @Summary Remove a team member
// @Description Leaders and the team creator may remove anyone; members may remove themselves.
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Param userId path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /teams/{id}/members/{userId} [delete]
func (s *Server) RemoveTeamMember(c *fiber.Ctx) error {
	userID := currentUserID(c)
	teamID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	memberID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	// Self-removal is always allowed; removing others takes leadership.
	if memberID != userID {
		if err := s.requireTeamLeadership(c, teamID, userID); err != nil {
			return nil
		}
	}

	if err := s.teamRepo.RemoveMember(c.Context(), teamID, memberID); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Member removed",
	})
}

// requireTeamLeadership writes a 403/404 response and returns
// errResponseWritten unless the user leads or created the team.
func (s *Server) requireTeamLeadership(c *fiber.Ctx, teamID, userID uint) error {
	team, err := s.teamRepo.GetByID(c.Context(), teamID)
	if err != nil {
		_ = respondAppError(c, err)
		return errResponseWritten
	}
	if team.CreatedByUserID == userID {
		return nil
	}

	member, err := s.teamRepo.GetMember(c.Context(), teamID, userID)
	if err != nil {
		_ = respondAppError(c, err)
		return errResponseWritten
	}
	if member == nil || member.Role != models.TeamMemberRoleLeader {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("team leadership required"))
		return errResponseWritten
	}
	return nil
}
