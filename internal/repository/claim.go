package repository

import (
	"context"
	"errors"

	"stagedoor/internal/models"

	"gorm.io/gorm"
)

// ClaimRepository defines persistence operations for account claims.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id uint) (*models.Claim, error)
	ListByClaimant(ctx context.Context, claimantID uint) ([]models.Claim, error)
	ListByStatus(ctx context.Context, status models.ClaimStatus) ([]models.Claim, error)
	HasPendingForClaimant(ctx context.Context, claimantID uint) (bool, error)
}

type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository returns a new ClaimRepository implementation.
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *claimRepository) GetByID(ctx context.Context, id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := r.db.WithContext(ctx).
		Preload("Claimant").
		Preload("TargetUser").
		First(&claim, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Claim", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &claim, nil
}

func (r *claimRepository) ListByClaimant(ctx context.Context, claimantID uint) ([]models.Claim, error) {
	var claims []models.Claim
	if err := r.db.WithContext(ctx).
		Preload("TargetUser").
		Preload("ReviewedByUser").
		Where("claimant_id = ?", claimantID).
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return claims, nil
}

func (r *claimRepository) ListByStatus(ctx context.Context, status models.ClaimStatus) ([]models.Claim, error) {
	var claims []models.Claim
	if err := r.db.WithContext(ctx).
		Preload("Claimant").
		Preload("TargetUser").
		Preload("ReviewedByUser").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&claims).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return claims, nil
}

// HasPendingForClaimant reports whether the claimant already has an
// unresolved claim. At most one pending claim per account is allowed.
func (r *claimRepository) HasPendingForClaimant(ctx context.Context, claimantID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Claim{}).
		Where("claimant_id = ? AND status = ?", claimantID, models.ClaimStatusPending).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
