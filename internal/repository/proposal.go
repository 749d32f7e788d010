package repository

import (
	"context"
	"errors"

	"stagedoor/internal/models"

	"gorm.io/gorm"
)

// ProposalListing is the result of a unified proposal query.
type ProposalListing struct {
	Proposals []models.Proposal
	Total     int64
	Owned     int64
	Linked    int64
}

// ProposalRepository defines persistence operations for booking proposals.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uint) (*models.Proposal, error)
	Update(ctx context.Context, proposal *models.Proposal) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Proposal, error)
	ListAccessible(ctx context.Context, userID uint, grantedOwnerIDs []uint, limit, offset int) (*ProposalListing, error)
}

type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository returns a new ProposalRepository implementation.
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *proposalRepository) GetByID(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.WithContext(ctx).First(&proposal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Proposal", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &proposal, nil
}

func (r *proposalRepository) Update(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Save(proposal).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *proposalRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Proposal{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *proposalRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return proposals, nil
}

// ListAccessible returns the union of the user's own proposals and proposals
// visible through grants, with granted rows tagged IsLinked.
func (r *proposalRepository) ListAccessible(ctx context.Context, userID uint, grantedOwnerIDs []uint, limit, offset int) (*ProposalListing, error) {
	ownerIDs := make([]uint, 0, len(grantedOwnerIDs)+1)
	ownerIDs = append(ownerIDs, userID)
	for _, id := range grantedOwnerIDs {
		if id != userID {
			ownerIDs = append(ownerIDs, id)
		}
	}

	listing := &ProposalListing{}

	if err := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("user_id IN ?", ownerIDs).
		Count(&listing.Total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("user_id = ?", userID).
		Count(&listing.Owned).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	listing.Linked = listing.Total - listing.Owned

	var proposals []models.Proposal
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&proposals).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	for i := range proposals {
		proposals[i].IsLinked = proposals[i].UserID != userID
	}
	listing.Proposals = proposals
	return listing, nil
}
