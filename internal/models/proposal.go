package models

import (
	"time"

	"gorm.io/gorm"
)

// ProposalStatus defines the negotiation state of a booking proposal.
type ProposalStatus string

const (
	// ProposalStatusDraft indicates the proposal has not been sent.
	ProposalStatusDraft ProposalStatus = "draft"
	// ProposalStatusSent indicates the proposal was delivered to the client.
	ProposalStatusSent ProposalStatus = "sent"
	// ProposalStatusAccepted indicates the client accepted the proposal.
	ProposalStatusAccepted ProposalStatus = "accepted"
	// ProposalStatusDeclined indicates the client declined the proposal.
	ProposalStatusDeclined ProposalStatus = "declined"
)

// Proposal is a booking proposal owned by one account. Like career
// entries, proposals sit behind the mutation gateway: writes by a linked
// account fork a copy instead of editing the original.
type Proposal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	EventDate   *time.Time     `json:"event_date"`
	Budget      int64          `json:"budget"`
	Status      ProposalStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	// IsLinked is not persisted; computed at query time.
	IsLinked  bool           `gorm:"-" json:"is_linked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Proposal) TableName() string {
	return "proposals"
}
