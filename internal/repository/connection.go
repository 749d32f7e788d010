package repository

import (
	"context"
	"time"

	"stagedoor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository defines persistence operations for data connections.
type ConnectionRepository interface {
	Upsert(ctx context.Context, conn *models.Connection) error
	ListForUser(ctx context.Context, userID uint) ([]models.Connection, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Connection, int64, error)
	GetBetween(ctx context.Context, requesterID, targetUserID uint) (*models.Connection, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository returns a new ConnectionRepository implementation.
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Upsert writes the connection keyed by (requester_id, target_user_id).
// Re-resolving a claim for the same pair overwrites the previous outcome.
func (r *connectionRepository) Upsert(ctx context.Context, conn *models.Connection) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "requester_id"}, {Name: "target_user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":              conn.Status,
			"connection_type":     conn.ConnectionType,
			"reason":              conn.Reason,
			"approved_by_user_id": conn.ApprovedByUserID,
			"approved_at":         conn.ApprovedAt,
			"updated_at":          time.Now(),
		}),
	}).Create(conn).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) ListForUser(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("TargetUser").
		Where("requester_id = ? OR target_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// ListAll returns every connection, newest first, for administrator review.
func (r *connectionRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Connection, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Connection{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("TargetUser").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conns).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return conns, total, nil
}

func (r *connectionRepository) GetBetween(ctx context.Context, requesterID, targetUserID uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND target_user_id = ?", requesterID, targetUserID).
		First(&conn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}
