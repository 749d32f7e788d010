//go:build integration

package seed

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"stagedoor/internal/config"
	"stagedoor/internal/database"
	"stagedoor/internal/models"
)

func parseDatabaseURLToConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	cfg := &config.Config{
		DBHost:     u.Hostname(),
		DBPort:     port,
		DBUser:     u.User.Username(),
		DBPassword: password,
		DBName:     strings.TrimPrefix(u.Path, "/"),
		DBSSLMode:  "disable",
		Env:        "test",
	}
	return cfg, nil
}

func TestIntegration_SeedAgency(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	if err != nil {
		t.Fatalf("failed parse dsn: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}

	seeder := NewSeeder(db, Options{SkipBcrypt: true, BatchSize: 50, MaxYears: 3})
	if err := seeder.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if err := Roster(db); err != nil {
		t.Fatalf("Roster failed: %v", err)
	}

	dancers, err := seeder.SeedRoster(10, 4)
	if err != nil {
		t.Fatalf("SeedRoster failed: %v", err)
	}
	if _, err := seeder.SeedBookings(3, 2); err != nil {
		t.Fatalf("SeedBookings failed: %v", err)
	}
	if _, err := seeder.SeedTeams(dancers, 4); err != nil {
		t.Fatalf("SeedTeams failed: %v", err)
	}

	var entryCount int64
	if err := db.Model(&models.CareerEntry{}).Count(&entryCount).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if entryCount == 0 {
		t.Fatalf("expected seeded career entries, got 0")
	}

	var rosterCount int64
	if err := db.Model(&models.User{}).
		Where("display_order IS NOT NULL").
		Count(&rosterCount).Error; err != nil {
		t.Fatalf("roster count failed: %v", err)
	}
	if rosterCount != int64(len(BuiltInRoster)+len(dancers)) {
		t.Fatalf("expected %d roster profiles, got %d", len(BuiltInRoster)+len(dancers), rosterCount)
	}
}
