package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"stagedoor/internal/access"
	"stagedoor/internal/config"
	"stagedoor/internal/database"
	"stagedoor/internal/models"
	"stagedoor/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServerTest builds a Server against an in-memory database. Redis and
// the Prometheus middleware stay nil; handlers tolerate both.
func setupServerTest(t *testing.T) (*gorm.DB, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret: "unit-test-secret-key-for-signing",
		Port:      "0",
		Env:       "test",
	}

	s := &Server{
		config:         cfg,
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		claimRepo:      repository.NewClaimRepository(db),
		connectionRepo: repository.NewConnectionRepository(db),
		grantRepo:      repository.NewGrantRepository(db),
		careerRepo:     repository.NewCareerRepository(db),
		proposalRepo:   repository.NewProposalRepository(db),
		teamRepo:       repository.NewTeamRepository(db),
	}
	s.approvals = access.NewApprovalEngine(db, s.grantRepo, nil)
	return db, s
}

// newAuthedApp returns a Fiber app that injects the given user ID the way
// AuthRequired would. Routes are registered by the caller.
func newAuthedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedVirtualDancer(t *testing.T, db *gorm.DB, username string, order int) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "pw",
		Role:         models.RoleDancer,
		IsVirtual:    true,
		DisplayOrder: &order,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// doJSON performs a request against the app with an optional JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals the response body into dest and closes it.
func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest), "body: %s", raw)
}
