package seed

import (
	"testing"

	"stagedoor/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedRoster_PositionsAndHistories(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if migrateErr := db.AutoMigrate(&models.User{}, &models.CareerEntry{}); migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}

	// Built-in profiles occupy the leading roster slots.
	if seedErr := Roster(db); seedErr != nil {
		t.Fatalf("seed built-in roster: %v", seedErr)
	}

	seeder := NewSeeder(db, Options{SkipBcrypt: true, MaxYears: 3})
	dancers, err := seeder.SeedRoster(4, 5)
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}
	if len(dancers) != 4 {
		t.Fatalf("expected 4 dancers, got %d", len(dancers))
	}

	// Generated profiles slot in after the built-ins without collisions.
	seen := map[int]bool{}
	for _, item := range BuiltInRoster {
		seen[item.DisplayOrder] = true
	}
	for _, dancer := range dancers {
		if dancer.DisplayOrder == nil {
			t.Fatalf("dancer %s has no roster position", dancer.Username)
		}
		if seen[*dancer.DisplayOrder] {
			t.Fatalf("duplicate roster position %d", *dancer.DisplayOrder)
		}
		seen[*dancer.DisplayOrder] = true

		var entryCount int64
		if countErr := db.Model(&models.CareerEntry{}).
			Where("user_id = ?", dancer.ID).
			Count(&entryCount).Error; countErr != nil {
			t.Fatalf("count entries: %v", countErr)
		}
		if entryCount != 5 {
			t.Fatalf("expected 5 career entries for %s, got %d", dancer.Username, entryCount)
		}
	}
}

func TestSeedTeams_GroupsWithLeaders(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if migrateErr := db.AutoMigrate(
		&models.User{},
		&models.CareerEntry{},
		&models.Team{},
		&models.TeamMember{},
	); migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}

	seeder := NewSeeder(db, Options{SkipBcrypt: true})
	dancers, err := seeder.SeedRoster(5, 0)
	if err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	teams, err := seeder.SeedTeams(dancers, 3)
	if err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams for 5 dancers of size 3, got %d", len(teams))
	}

	var leaderCount int64
	if countErr := db.Model(&models.TeamMember{}).
		Where("role = ?", models.TeamMemberRoleLeader).
		Count(&leaderCount).Error; countErr != nil {
		t.Fatalf("count leaders: %v", countErr)
	}
	if leaderCount != int64(len(teams)) {
		t.Fatalf("expected one leader per team, got %d leaders for %d teams", leaderCount, len(teams))
	}

	var memberCount int64
	if countErr := db.Model(&models.TeamMember{}).Count(&memberCount).Error; countErr != nil {
		t.Fatalf("count members: %v", countErr)
	}
	if memberCount != int64(len(dancers)) {
		t.Fatalf("expected every dancer enrolled once, got %d memberships", memberCount)
	}
}
