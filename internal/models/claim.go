package models

import "time"

// ClaimStatus defines lifecycle states for roster profile claims.
type ClaimStatus string

const (
	// ClaimStatusPending indicates the claim is awaiting administrator review.
	ClaimStatusPending ClaimStatus = "pending"
	// ClaimStatusCompleted indicates the claim was approved and the data
	// connection was established.
	ClaimStatusCompleted ClaimStatus = "completed"
	// ClaimStatusRejected indicates the claim was declined.
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Claim is a user-submitted request to be linked to an existing roster
// profile. Claims are append-only: resolving one records the reviewer and
// final status instead of deleting the row, so the request history
// survives. At most one pending claim may exist per claimant.
type Claim struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	ClaimantID       uint        `gorm:"not null;index" json:"claimant_id"`
	Claimant         *User       `gorm:"foreignKey:ClaimantID" json:"claimant,omitempty"`
	TargetUserID     uint        `gorm:"not null;index" json:"target_user_id"`
	TargetUser       *User       `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`
	Status           ClaimStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason           string      `gorm:"type:text" json:"reason"`
	ReviewedByUserID *uint       `json:"reviewed_by_user_id"`
	ReviewedByUser   *User       `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by_user,omitempty"`
	ReviewNotes      string      `gorm:"type:text" json:"review_notes"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Claim) TableName() string {
	return "claims"
}
