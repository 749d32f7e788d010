package repository

import (
	"context"
	"errors"
	"time"

	"stagedoor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantRepository defines persistence operations for permission grants.
type GrantRepository interface {
	Upsert(ctx context.Context, grant *models.PermissionGrant) error
	Lookup(ctx context.Context, userID uint, dataType models.DataType, ownerID uint) (*models.PermissionGrant, error)
	ListForUser(ctx context.Context, userID uint) ([]models.PermissionGrant, error)
	ListOwnerIDs(ctx context.Context, userID uint, dataType models.DataType) ([]uint, error)
}

type grantRepository struct {
	db *gorm.DB
}

// NewGrantRepository returns a new GrantRepository implementation.
func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

// Upsert writes the grant keyed by (user_id, data_type, original_owner_id).
// Repeated approvals refresh the access level instead of duplicating rows.
func (r *grantRepository) Upsert(ctx context.Context, grant *models.PermissionGrant) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "data_type"}, {Name: "original_owner_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"access_level": grant.AccessLevel,
			"updated_at":   time.Now(),
		}),
	}).Create(grant).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Lookup returns the grant for the exact (user, data type, owner) triple, or
// nil when the user holds no grant there.
func (r *grantRepository) Lookup(ctx context.Context, userID uint, dataType models.DataType, ownerID uint) (*models.PermissionGrant, error) {
	var grant models.PermissionGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_type = ? AND original_owner_id = ?", userID, dataType, ownerID).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &grant, nil
}

func (r *grantRepository) ListForUser(ctx context.Context, userID uint) ([]models.PermissionGrant, error) {
	var grants []models.PermissionGrant
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&grants).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return grants, nil
}

// ListOwnerIDs returns the IDs of every account whose data the user may see
// in the given category.
func (r *grantRepository) ListOwnerIDs(ctx context.Context, userID uint, dataType models.DataType) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.PermissionGrant{}).
		Where("user_id = ? AND data_type = ?", userID, dataType).
		Pluck("original_owner_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
