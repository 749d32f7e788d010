package repository

import (
	"context"
	"testing"
	"time"

	"stagedoor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepository_UpsertOverwritesOutcome(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	first := &models.Connection{
		RequesterID:      1,
		TargetUserID:     2,
		Status:           models.ConnectionStatusRejected,
		ConnectionType:   models.ConnectionTypeAll,
		Reason:           "insufficient evidence",
		ApprovedByUserID: 9,
		ApprovedAt:       time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	// A later approval for the same pair replaces the rejection.
	second := &models.Connection{
		RequesterID:      1,
		TargetUserID:     2,
		Status:           models.ConnectionStatusActive,
		ConnectionType:   models.ConnectionTypeAll,
		Reason:           "verified",
		ApprovedByUserID: 9,
		ApprovedAt:       time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	var count int64
	db.Model(&models.Connection{}).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetBetween(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ConnectionStatusActive, got.Status)
	assert.Equal(t, "verified", got.Reason)
}

func TestConnectionRepository_GetBetweenMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)

	got, err := repo.GetBetween(context.Background(), 7, 8)
	require.NoError(t, err)
	assert.Nil(t, got)
}
