package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"stagedoor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCareerEntries(t *testing.T, db *gorm.DB, ownerID uint, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		entry := &models.CareerEntry{
			UserID:    ownerID,
			Title:     fmt.Sprintf("Production %d", i+1),
			Venue:     "City Theatre",
			Role:      "Soloist",
			StartedOn: time.Date(2018+i, time.March, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(entry).Error)
	}
}

type careerListResponse struct {
	Careers []models.CareerEntry `json:"careers"`
	Total   int64                `json:"total"`
	Owned   int64                `json:"owned"`
	Linked  int64                `json:"linked"`
}

// TestClaimedProfileCareerFlow walks the whole linkage lifecycle over HTTP:
// a dancer claims a seeded roster profile with five career entries, the
// admin approves, and the dancer's subsequent reads and writes go through
// the grant and copy-on-write machinery.
func TestClaimedProfileCareerFlow(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	target := seedVirtualDancer(t, db, "legacy_profile", 1)
	admin := seedUser(t, db, "boss", models.RoleAdmin)
	seedCareerEntries(t, db, target.ID, 5)

	dancerApp := newAuthedApp(dancer.ID)
	dancerApp.Post("/api/claims", s.CreateClaim)
	dancerApp.Get("/api/careers", s.GetCareers)
	dancerApp.Post("/api/careers", s.CreateCareer)
	dancerApp.Delete("/api/careers/:id", s.DeleteCareer)

	adminApp := newAuthedApp(admin.ID)
	adminApp.Patch("/api/admin/claims/:id", s.ResolveClaim)
	adminApp.Post("/api/admin/grants", s.ProvisionGrant)

	// Before the claim resolves, the target's history is invisible.
	resp := doJSON(t, dancerApp, http.MethodGet, "/api/careers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing careerListResponse
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(0), listing.Total)

	// Claim and approve.
	resp = doJSON(t, dancerApp, http.MethodPost, "/api/claims", map[string]any{
		"claimed_user_id": target.ID,
		"reason":          "that is my stage history",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var claim models.Claim
	decodeBody(t, resp, &claim)

	resp = doJSON(t, adminApp, http.MethodPatch,
		fmt.Sprintf("/api/admin/claims/%d", claim.ID),
		map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// The five inherited entries are now listed, all tagged linked.
	resp = doJSON(t, dancerApp, http.MethodGet, "/api/careers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(5), listing.Total)
	assert.Equal(t, int64(0), listing.Owned)
	assert.Equal(t, int64(5), listing.Linked)
	for _, entry := range listing.Careers {
		assert.True(t, entry.IsLinked)
		assert.Equal(t, target.ID, entry.UserID)
	}

	// A write against the linked owner forks a sixth entry under the
	// dancer's own account; the owner keeps exactly five.
	resp = doJSON(t, dancerApp, http.MethodPost, "/api/careers", map[string]any{
		"title":             "New Tour",
		"venue":             "National Opera",
		"original_owner_id": target.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var forkBody struct {
		Career  models.CareerEntry `json:"career"`
		Message string             `json:"message"`
	}
	decodeBody(t, resp, &forkBody)
	assert.Equal(t, dancer.ID, forkBody.Career.UserID)
	assert.NotEmpty(t, forkBody.Message)

	var targetCount int64
	db.Model(&models.CareerEntry{}).Where("user_id = ?", target.ID).Count(&targetCount)
	assert.Equal(t, int64(5), targetCount)

	resp = doJSON(t, dancerApp, http.MethodGet, "/api/careers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(6), listing.Total)
	assert.Equal(t, int64(1), listing.Owned)
	assert.Equal(t, int64(5), listing.Linked)

	// Write-level grants never authorize deleting the owner's records.
	var inherited models.CareerEntry
	require.NoError(t, db.Where("user_id = ?", target.ID).First(&inherited).Error)

	resp = doJSON(t, dancerApp, http.MethodDelete,
		fmt.Sprintf("/api/careers/%d", inherited.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
	db.Model(&models.CareerEntry{}).Where("user_id = ?", target.ID).Count(&targetCount)
	assert.Equal(t, int64(5), targetCount)

	// An elevated grant unlocks the delete.
	resp = doJSON(t, adminApp, http.MethodPost, "/api/admin/grants", map[string]any{
		"user_id":           dancer.ID,
		"data_type":         "career",
		"original_owner_id": target.ID,
		"access_level":      "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, dancerApp, http.MethodDelete,
		fmt.Sprintf("/api/careers/%d", inherited.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	db.Model(&models.CareerEntry{}).Where("user_id = ?", target.ID).Count(&targetCount)
	assert.Equal(t, int64(4), targetCount)
}

func TestUpdateCareer_OwnMutatesInPlace(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	seedCareerEntries(t, db, dancer.ID, 1)

	app := newAuthedApp(dancer.ID)
	app.Put("/api/careers/:id", s.UpdateCareer)

	resp := doJSON(t, app, http.MethodPut, "/api/careers/1", map[string]any{
		"title": "Retitled Production",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry models.CareerEntry
	decodeBody(t, resp, &entry)
	assert.Equal(t, "Retitled Production", entry.Title)
	assert.Equal(t, "City Theatre", entry.Venue)

	var count int64
	db.Model(&models.CareerEntry{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateCareer_LinkedForks(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	owner := seedVirtualDancer(t, db, "profile", 1)
	seedCareerEntries(t, db, owner.ID, 1)

	require.NoError(t, db.Create(&models.PermissionGrant{
		UserID:          dancer.ID,
		DataType:        models.DataTypeCareer,
		OriginalOwnerID: owner.ID,
		AccessLevel:     models.AccessLevelWrite,
	}).Error)

	app := newAuthedApp(dancer.ID)
	app.Put("/api/careers/:id", s.UpdateCareer)

	resp := doJSON(t, app, http.MethodPut, "/api/careers/1", map[string]any{
		"title": "Corrected Title",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Career models.CareerEntry `json:"career"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, dancer.ID, body.Career.UserID)
	assert.Equal(t, "Corrected Title", body.Career.Title)

	// The original row is untouched.
	var original models.CareerEntry
	require.NoError(t, db.First(&original, 1).Error)
	assert.Equal(t, owner.ID, original.UserID)
	assert.Equal(t, "Production 1", original.Title)
}

func TestCareerMutations_NoGrantForbidden(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	owner := seedVirtualDancer(t, db, "profile", 1)
	seedCareerEntries(t, db, owner.ID, 1)

	app := newAuthedApp(dancer.ID)
	app.Post("/api/careers", s.CreateCareer)
	app.Put("/api/careers/:id", s.UpdateCareer)
	app.Delete("/api/careers/:id", s.DeleteCareer)

	resp := doJSON(t, app, http.MethodPost, "/api/careers", map[string]any{
		"title":             "Sneaky",
		"original_owner_id": owner.ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, "/api/careers/1", map[string]any{
		"title": "Sneaky",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/careers/1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	var count int64
	db.Model(&models.CareerEntry{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetCareers_OwnerNarrowing(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	owner := seedVirtualDancer(t, db, "profile", 1)
	seedCareerEntries(t, db, owner.ID, 2)
	seedCareerEntries(t, db, dancer.ID, 1)

	app := newAuthedApp(dancer.ID)
	app.Get("/api/careers", s.GetCareers)

	// Without a grant the narrowed view is refused.
	resp := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/careers?userId=%d", owner.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, db.Create(&models.PermissionGrant{
		UserID:          dancer.ID,
		DataType:        models.DataTypeCareer,
		OriginalOwnerID: owner.ID,
		AccessLevel:     models.AccessLevelWrite,
	}).Error)

	resp = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/careers?userId=%d", owner.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing careerListResponse
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(2), listing.Total)
	assert.Equal(t, int64(0), listing.Owned)
	assert.Equal(t, int64(2), listing.Linked)

	// Narrowing to oneself needs no grant.
	resp = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/careers?userId=%d", dancer.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &listing)
	assert.Equal(t, int64(1), listing.Total)
	assert.Equal(t, int64(1), listing.Owned)
	assert.Equal(t, int64(0), listing.Linked)
}
