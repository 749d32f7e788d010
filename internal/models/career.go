package models

import (
	"time"

	"gorm.io/gorm"
)

// CareerEntry is one line of a performer's work history: a production,
// tour, company engagement, or teaching credit. Entries are owned by
// exactly one account; linked viewers see them through permission grants.
type CareerEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Venue       string     `gorm:"size:200" json:"venue"`
	Role        string     `gorm:"size:120" json:"role"`
	StartedOn   time.Time  `json:"started_on"`
	EndedOn     *time.Time `json:"ended_on"`
	Description string     `gorm:"type:text" json:"description"`
	// IsLinked is not persisted; set at query time when the entry is
	// visible through a permission grant rather than direct ownership.
	IsLinked  bool           `gorm:"-" json:"is_linked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (CareerEntry) TableName() string {
	return "career_entries"
}
