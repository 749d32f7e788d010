package repository

import (
	"context"
	"errors"
	"time"

	"stagedoor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository defines persistence operations for teams and memberships.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uint) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uint) error
	ListForUser(ctx context.Context, userID uint) ([]models.Team, error)
	ListForOwners(ctx context.Context, ownerIDs []uint) ([]models.TeamMember, error)
	UpsertMember(ctx context.Context, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	ListMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error)
	GetMember(ctx context.Context, teamID, userID uint) (*models.TeamMember, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository returns a new TeamRepository implementation.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).
		Preload("CreatedByUser").
		First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Team", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Save(team).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Team{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *teamRepository) ListForUser(ctx context.Context, userID uint) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at ASC").
		Find(&teams).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return teams, nil
}

// ListForOwners returns team memberships held by any of the given accounts,
// with team detail preloaded. Used for grant-backed team visibility.
func (r *teamRepository) ListForOwners(ctx context.Context, ownerIDs []uint) ([]models.TeamMember, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var members []models.TeamMember
	if err := r.db.WithContext(ctx).
		Preload("Team").
		Where("user_id IN ?", ownerIDs).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return members, nil
}

func (r *teamRepository) UpsertMember(ctx context.Context, member *models.TeamMember) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"role":       member.Role,
			"updated_at": time.Now(),
		}),
	}).Create(member).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return members, nil
}

func (r *teamRepository) GetMember(ctx context.Context, teamID, userID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &member, nil
}
