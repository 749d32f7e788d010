package server

import (
	"stagedoor/internal/cache"
	"stagedoor/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultRosterPageSize = 20

// rosterPage is the cached shape of the default roster listing.
type rosterPage struct {
	Dancers []models.User `json:"dancers"`
	Total   int64         `json:"total"`
}

// GetDancers handles GET /api/dancers
// @Summary Public dancer roster
// @Description List dancer profiles that hold a roster position, ordered by display position
// @Tags users
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{dancers=[]models.User,total=int}
// @Router /dancers [get]
func (s *Server) GetDancers(c *fiber.Ctx) error {
	p := parsePagination(c, defaultRosterPageSize)

	// The first page is the landing view; cache it. Deeper pages go to
	// the database directly.
	if p.Offset == 0 && p.Limit == defaultRosterPageSize {
		var page rosterPage
		err := cache.Aside(c.Context(), cache.RosterKey, &page, cache.RosterTTL, func() error {
			dancers, total, loadErr := s.userRepo.ListRoster(c.Context(), p.Limit, p.Offset)
			if loadErr != nil {
				return loadErr
			}
			page = rosterPage{Dancers: dancers, Total: total}
			return nil
		})
		if err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(page)
	}

	dancers, total, err := s.userRepo.ListRoster(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(rosterPage{Dancers: dancers, Total: total})
}

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} object{error=string}
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Update display name, bio, and avatar. Absent fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{display_name=string,bio=string,avatar=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		Avatar      *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondAppError(c, err)
	}

	// Listed dancers appear in the cached roster page.
	if user.DisplayOrder != nil {
		cache.InvalidateRoster(c.Context())
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}
