package repository

import (
	"context"
	"testing"
	"time"

	"stagedoor/internal/cache"
	"stagedoor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCareerRepository_ListAccessible(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareerRepository(db)
	ctx := context.Background()

	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "x", Role: models.RoleDancer}
	linked := &models.User{Username: "linked", Email: "linked@example.com", Password: "x", Role: models.RoleDancer, IsVirtual: true}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(linked).Error)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &models.CareerEntry{
			UserID: owner.ID, Title: "Own production", StartedOn: time.Now(),
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.CareerEntry{
			UserID: linked.ID, Title: "Linked production", StartedOn: time.Now(),
		}))
	}

	t.Run("union with grant", func(t *testing.T) {
		listing, err := repo.ListAccessible(ctx, owner.ID, []uint{linked.ID}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), listing.Total)
		assert.Equal(t, int64(2), listing.Owned)
		assert.Equal(t, int64(3), listing.Linked)

		linkedCount := 0
		for _, entry := range listing.Entries {
			if entry.IsLinked {
				linkedCount++
				assert.Equal(t, linked.ID, entry.UserID)
			} else {
				assert.Equal(t, owner.ID, entry.UserID)
			}
		}
		assert.Equal(t, 3, linkedCount)
	})

	t.Run("no grants yields own entries only", func(t *testing.T) {
		listing, err := repo.ListAccessible(ctx, owner.ID, nil, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), listing.Total)
		assert.Equal(t, int64(0), listing.Linked)
		for _, entry := range listing.Entries {
			assert.False(t, entry.IsLinked)
		}
	})

	t.Run("pagination respects limit", func(t *testing.T) {
		listing, err := repo.ListAccessible(ctx, owner.ID, []uint{linked.ID}, 2, 0)
		require.NoError(t, err)
		assert.Len(t, listing.Entries, 2)
		// Counts reflect the whole result set, not the page.
		assert.Equal(t, int64(5), listing.Total)
	})
}

func TestCareerRepository_ListByOwner_CacheInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	t.Cleanup(cache.Close)

	db := setupTestDB(t)
	repo := NewCareerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.CareerEntry{
		UserID: 7, Title: "Opening Night", StartedOn: time.Now(),
	}))

	// First read populates the per-owner listing key.
	entries, err := repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, mr.Exists(cache.CareersKey(7)))

	// A row inserted behind the repository's back stays invisible while
	// the cached listing is fresh.
	require.NoError(t, db.Create(&models.CareerEntry{
		UserID: 7, Title: "Untracked", StartedOn: time.Now(),
	}).Error)
	entries, err = repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// A repository write drops the key; the next read sees everything.
	require.NoError(t, repo.Create(ctx, &models.CareerEntry{
		UserID: 7, Title: "Encore", StartedOn: time.Now(),
	}))
	assert.False(t, mr.Exists(cache.CareersKey(7)))

	entries, err = repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Another owner's listing is cached under its own key.
	entries, err = repo.ListByOwner(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.True(t, mr.Exists(cache.CareersKey(8)))
}

func TestCareerRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCareerRepository(db)
	ctx := context.Background()

	entry := &models.CareerEntry{UserID: 1, Title: "Tour", Venue: "City Hall", StartedOn: time.Now()}
	require.NoError(t, repo.Create(ctx, entry))

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tour", got.Title)

	got.Venue = "Opera House"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Opera House", got.Venue)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	_, err = repo.GetByID(ctx, entry.ID)
	assert.Error(t, err)
}
