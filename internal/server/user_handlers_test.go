package server

import (
	"net/http"
	"testing"

	"stagedoor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDancers_RosterOrderAndVisibility(t *testing.T) {
	db, s := setupServerTest(t)
	second := seedVirtualDancer(t, db, "second", 2)
	first := seedVirtualDancer(t, db, "first", 1)
	// A dancer without a roster position never appears.
	seedUser(t, db, "unlisted", models.RoleDancer)
	admin := seedUser(t, db, "boss", models.RoleAdmin)

	app := newAuthedApp(0)
	app.Get("/api/dancers", s.GetDancers)

	resp := doJSON(t, app, http.MethodGet, "/api/dancers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page rosterPage
	decodeBody(t, resp, &page)
	require.Len(t, page.Dancers, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, first.ID, page.Dancers[0].ID)
	assert.Equal(t, second.ID, page.Dancers[1].ID)

	// An approved claim removes the claimed profile from the listing.
	claimant := seedUser(t, db, "dana", models.RoleDancer)
	claim := &models.Claim{
		ClaimantID:   claimant.ID,
		TargetUserID: first.ID,
		Status:       models.ClaimStatusPending,
		Reason:       "mine",
	}
	require.NoError(t, db.Create(claim).Error)
	_, err := s.approvals.Approve(t.Context(), claim.ID, admin.ID, "")
	require.NoError(t, err)

	resp = doJSON(t, app, http.MethodGet, "/api/dancers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &page)
	require.Len(t, page.Dancers, 1)
	assert.Equal(t, second.ID, page.Dancers[0].ID)
}

func TestUpdateMyProfile(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)

	app := newAuthedApp(dancer.ID)
	app.Get("/api/users/me", s.GetMyProfile)
	app.Put("/api/users/me", s.UpdateMyProfile)

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", map[string]any{
		"display_name": "Dana D.",
		"bio":          "Contemporary and ballet",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Dana D.", updated.DisplayName)

	// Absent fields stay untouched.
	resp = doJSON(t, app, http.MethodPut, "/api/users/me", map[string]any{
		"avatar": "https://cdn.example.com/dana.jpg",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Dana D.", updated.DisplayName)
	assert.Equal(t, "Contemporary and ballet", updated.Bio)
	assert.Equal(t, "https://cdn.example.com/dana.jpg", updated.Avatar)
}

func TestGetUserProfile(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	viewer := seedUser(t, db, "viewer", models.RoleGeneral)

	app := newAuthedApp(viewer.ID)
	app.Get("/api/users/:id", s.GetUserProfile)

	resp := doJSON(t, app, http.MethodGet, "/api/users/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	decodeBody(t, resp, &user)
	assert.Equal(t, dancer.ID, user.ID)

	resp = doJSON(t, app, http.MethodGet, "/api/users/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}
