package models

import "time"

// DataType is the closed set of data categories a permission grant can
// cover. Adding a category means adding a constant here and to
// AllDataTypes; the approval engine fans out over AllDataTypes, so the
// change is compile-time visible in one place.
type DataType string

const (
	// DataTypeCareer covers career history entries.
	DataTypeCareer DataType = "career"
	// DataTypeProfile covers profile fields.
	DataTypeProfile DataType = "profile"
	// DataTypeProposals covers booking proposals.
	DataTypeProposals DataType = "proposals"
	// DataTypeTeams covers team memberships.
	DataTypeTeams DataType = "teams"
)

// AllDataTypes is the fan-out order used when an approval creates grants.
var AllDataTypes = []DataType{DataTypeCareer, DataTypeProfile, DataTypeProposals, DataTypeTeams}

// Valid reports whether the data type is a known category.
func (d DataType) Valid() bool {
	for _, t := range AllDataTypes {
		if d == t {
			return true
		}
	}
	return false
}

// AccessLevel defines how much a grant allows on the linked data.
type AccessLevel string

const (
	// AccessLevelWrite allows extending linked data; writes fork a copy
	// under the actor's own account instead of mutating the original.
	AccessLevelWrite AccessLevel = "write"
	// AccessLevelAdmin additionally allows destructive operations on the
	// original records. Never assigned by the standard approval flow.
	AccessLevelAdmin AccessLevel = "admin"
)

// AllowsWrite reports whether the level permits the copy-on-write path.
func (l AccessLevel) AllowsWrite() bool {
	return l == AccessLevelWrite || l == AccessLevelAdmin
}

// PermissionGrant records that one account may act on another account's
// data in a single category. Grants gate category mutation endpoints
// only; they never authorize changes to the grant table itself.
type PermissionGrant struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;uniqueIndex:idx_user_type_owner" json:"user_id"`
	DataType        DataType    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_type_owner" json:"data_type"`
	OriginalOwnerID uint        `gorm:"not null;uniqueIndex:idx_user_type_owner" json:"original_owner_id"`
	AccessLevel     AccessLevel `gorm:"type:varchar(20);not null;default:'write'" json:"access_level"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (PermissionGrant) TableName() string {
	return "permission_grants"
}
