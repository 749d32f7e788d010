package database

import "stagedoor/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Claim{},
		&models.Connection{},
		&models.PermissionGrant{},
		&models.CareerEntry{},
		&models.Proposal{},
		&models.Team{},
		&models.TeamMember{},
	}
}
