package repository

import (
	"context"
	"errors"

	"stagedoor/internal/cache"
	"stagedoor/internal/models"

	"gorm.io/gorm"
)

// CareerListing is the result of a unified career history query: owned and
// granted entries together, plus the counts of each.
type CareerListing struct {
	Entries []models.CareerEntry
	Total   int64
	Owned   int64
	Linked  int64
}

// CareerRepository defines persistence operations for career entries.
type CareerRepository interface {
	Create(ctx context.Context, entry *models.CareerEntry) error
	GetByID(ctx context.Context, id uint) (*models.CareerEntry, error)
	Update(ctx context.Context, entry *models.CareerEntry) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.CareerEntry, error)
	ListAccessible(ctx context.Context, userID uint, grantedOwnerIDs []uint, limit, offset int) (*CareerListing, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

type careerRepository struct {
	db *gorm.DB
}

// NewCareerRepository returns a new CareerRepository implementation.
func NewCareerRepository(db *gorm.DB) CareerRepository {
	return &careerRepository{db: db}
}

func (r *careerRepository) Create(ctx context.Context, entry *models.CareerEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCareers(ctx, entry.UserID)
	return nil
}

func (r *careerRepository) GetByID(ctx context.Context, id uint) (*models.CareerEntry, error) {
	var entry models.CareerEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Career entry", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *careerRepository) Update(ctx context.Context, entry *models.CareerEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCareers(ctx, entry.UserID)
	return nil
}

func (r *careerRepository) Delete(ctx context.Context, id uint) error {
	entry, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.CareerEntry{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCareers(ctx, entry.UserID)
	return nil
}

// ListByOwner reads through the per-owner careers cache. Cached entries are
// viewer-neutral; callers tag IsLinked themselves.
func (r *careerRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.CareerEntry, error) {
	var entries []models.CareerEntry
	err := cache.Aside(ctx, cache.CareersKey(ownerID), &entries, cache.CareersTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("user_id = ?", ownerID).
			Order("created_at DESC").
			Find(&entries).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAccessible returns the union of the user's own entries and entries
// owned by accounts that granted the user career access. Granted entries are
// tagged IsLinked.
func (r *careerRepository) ListAccessible(ctx context.Context, userID uint, grantedOwnerIDs []uint, limit, offset int) (*CareerListing, error) {
	ownerIDs := make([]uint, 0, len(grantedOwnerIDs)+1)
	ownerIDs = append(ownerIDs, userID)
	for _, id := range grantedOwnerIDs {
		if id != userID {
			ownerIDs = append(ownerIDs, id)
		}
	}

	listing := &CareerListing{}

	base := r.db.WithContext(ctx).Model(&models.CareerEntry{}).
		Where("user_id IN ?", ownerIDs)
	if err := base.Count(&listing.Total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.CareerEntry{}).
		Where("user_id = ?", userID).
		Count(&listing.Owned).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	listing.Linked = listing.Total - listing.Owned

	var entries []models.CareerEntry
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	for i := range entries {
		entries[i].IsLinked = entries[i].UserID != userID
	}
	listing.Entries = entries
	return listing, nil
}

func (r *careerRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CareerEntry{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
