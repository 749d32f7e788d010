package server

import (
	"net/http"
	"testing"

	"stagedoor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam_CreatorLeads(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)

	app := newAuthedApp(dancer.ID)
	app.Post("/api/teams", s.CreateTeam)
	app.Get("/api/teams/:id", s.GetTeam)

	resp := doJSON(t, app, http.MethodPost, "/api/teams", map[string]any{
		"name":        "Night Crew",
		"description": "Contemporary company",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var team models.Team
	decodeBody(t, resp, &team)
	assert.Equal(t, dancer.ID, team.CreatedByUserID)

	resp = doJSON(t, app, http.MethodGet, "/api/teams/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Team    models.Team         `json:"team"`
		Members []models.TeamMember `json:"members"`
	}
	decodeBody(t, resp, &detail)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, models.TeamMemberRoleLeader, detail.Members[0].Role)
}

func TestTeamMembership(t *testing.T) {
	db, s := setupServerTest(t)
	leader := seedUser(t, db, "lead", models.RoleDancer)
	member := seedUser(t, db, "member", models.RoleDancer)
	outsider := seedUser(t, db, "outsider", models.RoleDancer)

	team := &models.Team{Name: "Night Crew", CreatedByUserID: leader.ID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID: team.ID, UserID: leader.ID, Role: models.TeamMemberRoleLeader,
	}).Error)

	leaderApp := newAuthedApp(leader.ID)
	leaderApp.Post("/api/teams/:id/members", s.AddTeamMember)
	leaderApp.Delete("/api/teams/:id/members/:userId", s.RemoveTeamMember)

	outsiderApp := newAuthedApp(outsider.ID)
	outsiderApp.Post("/api/teams/:id/members", s.AddTeamMember)
	outsiderApp.Delete("/api/teams/:id/members/:userId", s.RemoveTeamMember)

	// Only leadership may add members.
	resp := doJSON(t, outsiderApp, http.MethodPost, "/api/teams/1/members", map[string]any{
		"user_id": outsider.ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, leaderApp, http.MethodPost, "/api/teams/1/members", map[string]any{
		"user_id": member.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added models.TeamMember
	decodeBody(t, resp, &added)
	assert.Equal(t, models.TeamMemberRoleMember, added.Role)

	// Members may remove themselves but nobody else.
	memberApp := newAuthedApp(member.ID)
	memberApp.Delete("/api/teams/:id/members/:userId", s.RemoveTeamMember)

	resp = doJSON(t, memberApp, http.MethodDelete, "/api/teams/1/members/1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, memberApp, http.MethodDelete, "/api/teams/1/members/2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var count int64
	db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetTeams_IncludesLinkedMemberships(t *testing.T) {
	db, s := setupServerTest(t)
	dancer := seedUser(t, db, "dana", models.RoleDancer)
	owner := seedVirtualDancer(t, db, "profile", 1)

	team := &models.Team{Name: "Legacy Company", CreatedByUserID: owner.ID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID: team.ID, UserID: owner.ID, Role: models.TeamMemberRoleMember,
	}).Error)
	require.NoError(t, db.Create(&models.PermissionGrant{
		UserID:          dancer.ID,
		DataType:        models.DataTypeTeams,
		OriginalOwnerID: owner.ID,
		AccessLevel:     models.AccessLevelWrite,
	}).Error)

	app := newAuthedApp(dancer.ID)
	app.Get("/api/teams", s.GetTeams)

	resp := doJSON(t, app, http.MethodGet, "/api/teams", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Teams             []models.Team       `json:"teams"`
		LinkedMemberships []models.TeamMember `json:"linked_memberships"`
	}
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Teams)
	require.Len(t, body.LinkedMemberships, 1)
	require.NotNil(t, body.LinkedMemberships[0].Team)
	assert.Equal(t, "Legacy Company", body.LinkedMemberships[0].Team.Name)
}
