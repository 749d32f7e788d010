package server

import (
	"net/http"
	"testing"

	"stagedoor/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPendingClaim(t *testing.T, db *gorm.DB, claimantID, targetID uint) *models.Claim {
	t.Helper()
	claim := &models.Claim{
		ClaimantID:   claimantID,
		TargetUserID: targetID,
		Status:       models.ClaimStatusPending,
		Reason:       "this is my profile",
	}
	require.NoError(t, db.Create(claim).Error)
	return claim
}

func TestResolveClaim_Approve(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	target := seedVirtualDancer(t, db, "profile", 3)
	admin := seedUser(t, db, "boss", models.RoleAdmin)
	claim := seedPendingClaim(t, db, dancer.ID, target.ID)

	app := newAuthedApp(admin.ID)
	app.Patch("/api/admin/claims/:id", s.ResolveClaim)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/claims/1", map[string]any{
		"status":  "approved",
		"message": "identity verified",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status models.ClaimStatus `json:"status"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, models.ClaimStatusCompleted, body.Status)

	var resolved models.Claim
	require.NoError(t, db.First(&resolved, claim.ID).Error)
	assert.Equal(t, models.ClaimStatusCompleted, resolved.Status)
	require.NotNil(t, resolved.ReviewedByUserID)
	assert.Equal(t, admin.ID, *resolved.ReviewedByUserID)

	// Exactly one write grant per category.
	var grants []models.PermissionGrant
	require.NoError(t, db.Where("user_id = ?", dancer.ID).Find(&grants).Error)
	assert.Len(t, grants, len(models.AllDataTypes))

	// The claimed profile left the roster.
	var updatedTarget models.User
	require.NoError(t, db.First(&updatedTarget, target.ID).Error)
	assert.True(t, updatedTarget.IsVirtual)
	assert.Nil(t, updatedTarget.DisplayOrder)

	// A second resolution of the same claim loses.
	resp = doJSON(t, app, http.MethodPatch, "/api/admin/claims/1", map[string]any{
		"status": "rejected",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestResolveClaim_Reject(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	target := seedVirtualDancer(t, db, "profile", 3)
	admin := seedUser(t, db, "boss", models.RoleAdmin)
	seedPendingClaim(t, db, dancer.ID, target.ID)

	app := newAuthedApp(admin.ID)
	app.Patch("/api/admin/claims/:id", s.ResolveClaim)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/claims/1", map[string]any{
		"status":  "rejected",
		"message": "could not verify",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// No grants, roster position untouched.
	var count int64
	db.Model(&models.PermissionGrant{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var updatedTarget models.User
	require.NoError(t, db.First(&updatedTarget, target.ID).Error)
	require.NotNil(t, updatedTarget.DisplayOrder)
	assert.Equal(t, 3, *updatedTarget.DisplayOrder)
}

func TestResolveClaim_BadRequest(t *testing.T) {
	db, s := setupServerTest(t)
	admin := seedUser(t, db, "boss", models.RoleAdmin)

	app := newAuthedApp(admin.ID)
	app.Patch("/api/admin/claims/:id", s.ResolveClaim)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/claims/1", map[string]any{
		"status": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/admin/claims/999", map[string]any{
		"status": "approved",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetAdminClaims(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	other := seedUser(t, db, "toni", models.RoleGeneral)
	target := seedVirtualDancer(t, db, "profile", 1)
	admin := seedUser(t, db, "boss", models.RoleAdmin)

	seedPendingClaim(t, db, dancer.ID, target.ID)
	rejected := seedPendingClaim(t, db, other.ID, target.ID)
	_, err := s.approvals.Reject(t.Context(), rejected.ID, admin.ID, "no")
	require.NoError(t, err)

	app := newAuthedApp(admin.ID)
	app.Get("/api/admin/claims", s.GetAdminClaims)

	// Default is the pending queue.
	resp := doJSON(t, app, http.MethodGet, "/api/admin/claims", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Claims []models.Claim `json:"claims"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Claims, 1)
	assert.Equal(t, dancer.ID, body.Claims[0].ClaimantID)

	resp = doJSON(t, app, http.MethodGet, "/api/admin/claims?status=rejected", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	require.Len(t, body.Claims, 1)
	assert.Equal(t, other.ID, body.Claims[0].ClaimantID)

	resp = doJSON(t, app, http.MethodGet, "/api/admin/claims?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCreateVirtualDancer(t *testing.T) {
	db, s := setupServerTest(t)
	admin := seedUser(t, db, "boss", models.RoleAdmin)
	seedVirtualDancer(t, db, "first", 4)

	app := newAuthedApp(admin.ID)
	app.Post("/api/admin/dancers", s.CreateVirtualDancer)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/dancers", map[string]any{
		"username":     "new_dancer",
		"email":        "new_dancer@example.com",
		"display_name": "New Dancer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.User
	decodeBody(t, resp, &created)
	assert.Equal(t, models.RoleDancer, created.Role)
	assert.True(t, created.IsVirtual)
	require.NotNil(t, created.DisplayOrder)
	assert.Equal(t, 5, *created.DisplayOrder)

	resp = doJSON(t, app, http.MethodPost, "/api/admin/dancers", map[string]any{
		"username": "no_email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestProvisionGrant(t *testing.T) {
	db, s := setupServerTest(t)
	admin := seedUser(t, db, "boss", models.RoleAdmin)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	target := seedVirtualDancer(t, db, "profile", 1)

	app := newAuthedApp(admin.ID)
	app.Post("/api/admin/grants", s.ProvisionGrant)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/grants", map[string]any{
		"user_id":           dancer.ID,
		"data_type":         "career",
		"original_owner_id": target.ID,
		"access_level":      "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var grant models.PermissionGrant
	decodeBody(t, resp, &grant)
	assert.Equal(t, models.AccessLevelAdmin, grant.AccessLevel)

	// Upsert key: re-provisioning changes the level without duplicating.
	resp = doJSON(t, app, http.MethodPost, "/api/admin/grants", map[string]any{
		"user_id":           dancer.ID,
		"data_type":         "career",
		"original_owner_id": target.ID,
		"access_level":      "write",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var count int64
	db.Model(&models.PermissionGrant{}).Count(&count)
	assert.Equal(t, int64(1), count)
	var stored models.PermissionGrant
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, models.AccessLevelWrite, stored.AccessLevel)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown data type", map[string]any{"user_id": dancer.ID, "data_type": "secrets", "original_owner_id": target.ID, "access_level": "write"}},
		{"bad access level", map[string]any{"user_id": dancer.ID, "data_type": "career", "original_owner_id": target.ID, "access_level": "root"}},
		{"missing user", map[string]any{"data_type": "career", "original_owner_id": target.ID, "access_level": "write"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/admin/grants", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}
}

func TestGetAdminConnections(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	target := seedVirtualDancer(t, db, "profile", 1)
	admin := seedUser(t, db, "boss", models.RoleAdmin)

	claim := seedPendingClaim(t, db, dancer.ID, target.ID)
	_, err := s.approvals.Approve(t.Context(), claim.ID, admin.ID, "")
	require.NoError(t, err)

	app := newAuthedApp(admin.ID)
	app.Get("/api/admin/connections", s.GetAdminConnections)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/connections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Connections []models.Connection `json:"connections"`
		Total       int64               `json:"total"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Connections, 1)
	require.NotNil(t, body.Connections[0].Requester)
	assert.Equal(t, "dana", body.Connections[0].Requester.Username)
}

func TestAdminRequired(t *testing.T) {
	db, s := setupServerTest(t)
	admin := seedUser(t, db, "boss", models.RoleAdmin)
	dancer := seedUser(t, db, "dana", models.RoleDancer)

	handler := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }

	adminApp := newAuthedApp(admin.ID)
	adminApp.Get("/api/admin/ping", s.AdminRequired(), handler)
	resp := doJSON(t, adminApp, http.MethodGet, "/api/admin/ping", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	dancerApp := newAuthedApp(dancer.ID)
	dancerApp.Get("/api/admin/ping", s.AdminRequired(), handler)
	resp = doJSON(t, dancerApp, http.MethodGet, "/api/admin/ping", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}
