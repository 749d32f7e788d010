package models

import "time"

// ConnectionStatus defines the resolution state of a data connection.
type ConnectionStatus string

const (
	// ConnectionStatusActive indicates an approved, usable connection.
	ConnectionStatusActive ConnectionStatus = "active"
	// ConnectionStatusRejected indicates the connection request was declined.
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// ConnectionTypeAll grants the requester access across every data category.
const ConnectionTypeAll = "all"

// Connection is the durable record of a resolved claim: who asked, whose
// data, and how the administrator decided. One row per (requester, target)
// pair; re-resolution upserts the existing row.
type Connection struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	RequesterID      uint             `gorm:"not null;uniqueIndex:idx_requester_target" json:"requester_id"`
	Requester        *User            `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	TargetUserID     uint             `gorm:"not null;uniqueIndex:idx_requester_target" json:"target_user_id"`
	TargetUser       *User            `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
	Status           ConnectionStatus `gorm:"type:varchar(20);not null" json:"status"`
	ConnectionType   string           `gorm:"type:varchar(20);not null;default:'all'" json:"connection_type"`
	Reason           string           `gorm:"type:text" json:"reason"`
	ApprovedByUserID uint             `gorm:"not null" json:"approved_by_user_id"`
	ApprovedAt       time.Time        `json:"approved_at"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Connection) TableName() string {
	return "connections"
}
