package models

import "time"

// TeamMemberRole defines a member's role within a team.
type TeamMemberRole string

const (
	// TeamMemberRoleLeader is the team leader role.
	TeamMemberRoleLeader TeamMemberRole = "leader"
	// TeamMemberRoleMember is the default member role.
	TeamMemberRoleMember TeamMemberRole = "member"
)

// Team is a performance unit (crew, company, project group).
type Team struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:120;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedByUserID uint      `gorm:"not null" json:"created_by_user_id"`
	CreatedByUser   *User     `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// TeamMember maps users to teams and tracks role.
type TeamMember struct {
	TeamID    uint           `gorm:"primaryKey;autoIncrement:false" json:"team_id"`
	Team      *Team          `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	UserID    uint           `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      TeamMemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (TeamMember) TableName() string {
	return "team_members"
}
