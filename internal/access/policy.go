// Package access implements the permission model that governs claims,
// grants, and mutations of linked data.
package access

import (
	"fmt"

	"stagedoor/internal/models"
)

// WriteOutcome is the decision of the mutation gateway for a write.
type WriteOutcome int

const (
	// OutcomeMutate applies the write to the resource in place.
	OutcomeMutate WriteOutcome = iota
	// OutcomeFork redirects the write to a new copy owned by the actor.
	// The original resource is never touched.
	OutcomeFork
)

// ResolveWriteTarget decides how a write against a resource owned by
// ownerID must be applied on behalf of actorID. Writes to the actor's own
// resources mutate in place. Writes to another owner's resources require a
// grant in the resource's category and always fork, regardless of access
// level. Admin level loosens deletes, not writes.
func ResolveWriteTarget(actorID, ownerID uint, grant *models.PermissionGrant) (WriteOutcome, error) {
	if actorID == ownerID {
		return OutcomeMutate, nil
	}
	if grant == nil {
		return 0, models.NewForbiddenError("no grant covers this data")
	}
	if grant.UserID != actorID || grant.OriginalOwnerID != ownerID {
		return 0, models.NewForbiddenError("grant does not match actor and owner")
	}
	if !grant.AccessLevel.AllowsWrite() {
		return 0, models.NewForbiddenError(fmt.Sprintf("access level %q does not permit writes", grant.AccessLevel))
	}
	return OutcomeFork, nil
}

// AuthorizeDelete decides whether actorID may delete a resource owned by
// ownerID. Owners always may. Linked actors need an admin-level grant;
// write-level grants never authorize destructive operations.
func AuthorizeDelete(actorID, ownerID uint, grant *models.PermissionGrant) error {
	if actorID == ownerID {
		return nil
	}
	if grant == nil {
		return models.NewForbiddenError("no grant covers this data")
	}
	if grant.UserID != actorID || grant.OriginalOwnerID != ownerID {
		return models.NewForbiddenError("grant does not match actor and owner")
	}
	if grant.AccessLevel != models.AccessLevelAdmin {
		return models.NewForbiddenError("deleting linked data requires admin access")
	}
	return nil
}
