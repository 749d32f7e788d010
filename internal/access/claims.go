package access

import (
	"stagedoor/internal/models"
)

// ClaimRequest carries the validated inputs for a new claim.
// Reason is free-form context for the reviewing administrator and may be
// empty.
type ClaimRequest struct {
	Claimant *models.User
	Target   *models.User
	Reason   string
}

// ValidateClaimRequest enforces the submission rules for claims:
// only general and dancer accounts may claim, the target must be a dancer
// roster profile, self-claims are invalid, and an account may hold at most
// one pending claim at a time.
func ValidateClaimRequest(req ClaimRequest, hasPending bool) error {
	if req.Claimant == nil {
		return models.NewUnauthorizedError("Authorization required")
	}
	if !req.Claimant.Role.CanRequestClaim() {
		return models.NewForbiddenError("only general and dancer accounts may request a claim")
	}
	if req.Target == nil {
		return models.NewValidationError("target profile not found")
	}
	if req.Target.ID == req.Claimant.ID {
		return models.NewValidationError("cannot claim your own account")
	}
	if req.Target.Role != models.RoleDancer {
		return models.NewValidationError("target must be a dancer profile")
	}
	if hasPending {
		return models.NewConflictError("a pending claim already exists for this account")
	}
	return nil
}
