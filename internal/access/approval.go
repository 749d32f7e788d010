package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"stagedoor/internal/models"
	"stagedoor/internal/observability"
	"stagedoor/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimDecisionEvent is published to the claimant after a claim resolves.
type ClaimDecisionEvent struct {
	ClaimID      uint               `json:"claim_id"`
	TargetUserID uint               `json:"target_user_id"`
	Status       models.ClaimStatus `json:"status"`
	ReviewNotes  string             `json:"review_notes,omitempty"`
	DecidedAt    time.Time          `json:"decided_at"`
}

// DecisionNotifier delivers claim decisions to the claimant. Delivery is
// best effort; the resolution itself never depends on it.
type DecisionNotifier interface {
	PublishClaimDecision(ctx context.Context, userID uint, event ClaimDecisionEvent) error
}

// ApprovalEngine resolves pending claims. The resolution is a saga: the
// primary step (claim row, connection, roster visibility) commits in one
// locked transaction and alone decides the response; grant fan-out and
// notification run after commit and tolerate partial failure.
type ApprovalEngine struct {
	db       *gorm.DB
	grants   repository.GrantRepository
	notifier DecisionNotifier
}

// NewApprovalEngine returns a new ApprovalEngine.
func NewApprovalEngine(db *gorm.DB, grants repository.GrantRepository, notifier DecisionNotifier) *ApprovalEngine {
	return &ApprovalEngine{db: db, grants: grants, notifier: notifier}
}

// Approve resolves a pending claim as completed: the connection becomes
// active, the claimed roster profile leaves the public listing, and the
// claimant receives write grants across every data category.
func (e *ApprovalEngine) Approve(ctx context.Context, claimID, reviewerID uint, reviewNotes string) (*models.Claim, error) {
	var claim models.Claim

	txErr := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock plus pending check: concurrent resolutions serialize
		// here, and the loser sees a non-pending claim.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&claim, claimID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Claim", claimID)
			}
			return err
		}
		if claim.Status != models.ClaimStatusPending {
			return models.NewConflictError("claim has already been resolved")
		}

		var target models.User
		if err := tx.First(&target, claim.TargetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", claim.TargetUserID)
			}
			return err
		}

		now := time.Now()
		conn := models.Connection{
			RequesterID:      claim.ClaimantID,
			TargetUserID:     claim.TargetUserID,
			Status:           models.ConnectionStatusActive,
			ConnectionType:   models.ConnectionTypeAll,
			Reason:           claim.Reason,
			ApprovedByUserID: reviewerID,
			ApprovedAt:       now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "requester_id"}, {Name: "target_user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":              conn.Status,
				"connection_type":     conn.ConnectionType,
				"reason":              conn.Reason,
				"approved_by_user_id": conn.ApprovedByUserID,
				"approved_at":         conn.ApprovedAt,
				"updated_at":          now,
			}),
		}).Create(&conn).Error; err != nil {
			return err
		}

		// The claimed profile leaves the public roster. Its data stays;
		// the claimant now reaches it through grants.
		if err := tx.Model(&target).Updates(map[string]any{
			"is_virtual":    true,
			"display_order": nil,
		}).Error; err != nil {
			return err
		}

		claim.Status = models.ClaimStatusCompleted
		claim.ReviewedByUserID = &reviewerID
		claim.ReviewNotes = strings.TrimSpace(reviewNotes)
		return tx.Save(&claim).Error
	})
	if txErr != nil {
		var appErr *models.AppError
		if errors.As(txErr, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(txErr)
	}

	observability.ClaimsResolved.WithLabelValues("completed").Inc()

	// Post-commit fan-out. Each category is attempted independently so a
	// single failure never blocks the others; failures are retried by the
	// next approval for the same pair via the upsert key.
	e.fanOutGrants(ctx, claim.ClaimantID, claim.TargetUserID)
	e.notifyDecision(ctx, &claim)

	return &claim, nil
}

// Reject resolves a pending claim as rejected. No grants are created and
// the target profile keeps its roster position.
func (e *ApprovalEngine) Reject(ctx context.Context, claimID, reviewerID uint, reviewNotes string) (*models.Claim, error) {
	var claim models.Claim

	txErr := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&claim, claimID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Claim", claimID)
			}
			return err
		}
		if claim.Status != models.ClaimStatusPending {
			return models.NewConflictError("claim has already been resolved")
		}

		// The rejection reason comes from the reviewer, not the claimant.
		reason := strings.TrimSpace(reviewNotes)
		if reason == "" {
			reason = "Claim rejected after review"
		}

		now := time.Now()
		conn := models.Connection{
			RequesterID:      claim.ClaimantID,
			TargetUserID:     claim.TargetUserID,
			Status:           models.ConnectionStatusRejected,
			ConnectionType:   models.ConnectionTypeAll,
			Reason:           reason,
			ApprovedByUserID: reviewerID,
			ApprovedAt:       now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "requester_id"}, {Name: "target_user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":              conn.Status,
				"connection_type":     conn.ConnectionType,
				"reason":              conn.Reason,
				"approved_by_user_id": conn.ApprovedByUserID,
				"approved_at":         conn.ApprovedAt,
				"updated_at":          now,
			}),
		}).Create(&conn).Error; err != nil {
			return err
		}

		claim.Status = models.ClaimStatusRejected
		claim.ReviewedByUserID = &reviewerID
		claim.ReviewNotes = strings.TrimSpace(reviewNotes)
		return tx.Save(&claim).Error
	})
	if txErr != nil {
		var appErr *models.AppError
		if errors.As(txErr, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(txErr)
	}

	observability.ClaimsResolved.WithLabelValues("rejected").Inc()
	e.notifyDecision(ctx, &claim)

	return &claim, nil
}

// fanOutGrants provisions write-level grants for the claimant over every
// data category of the claimed profile.
func (e *ApprovalEngine) fanOutGrants(ctx context.Context, claimantID, ownerID uint) {
	observability.LogAsyncOperationStart(ctx, "grant_fanout", map[string]interface{}{
		"claimant_id": claimantID,
		"owner_id":    ownerID,
	})

	failed := 0
	for _, dataType := range models.AllDataTypes {
		grant := &models.PermissionGrant{
			UserID:          claimantID,
			DataType:        dataType,
			OriginalOwnerID: ownerID,
			AccessLevel:     models.AccessLevelWrite,
		}
		if err := e.grants.Upsert(ctx, grant); err != nil {
			failed++
			observability.GrantFanoutFailures.WithLabelValues(string(dataType)).Inc()
			observability.LogAsyncOperationError(ctx, "grant_fanout", err, map[string]interface{}{
				"claimant_id": claimantID,
				"owner_id":    ownerID,
				"data_type":   string(dataType),
			})
		}
	}

	observability.LogAsyncOperationEnd(ctx, "grant_fanout", map[string]interface{}{
		"claimant_id": claimantID,
		"owner_id":    ownerID,
		"failed":      failed,
	})
}

func (e *ApprovalEngine) notifyDecision(ctx context.Context, claim *models.Claim) {
	if e.notifier == nil {
		return
	}
	event := ClaimDecisionEvent{
		ClaimID:      claim.ID,
		TargetUserID: claim.TargetUserID,
		Status:       claim.Status,
		ReviewNotes:  claim.ReviewNotes,
		DecidedAt:    claim.UpdatedAt,
	}
	if err := e.notifier.PublishClaimDecision(ctx, claim.ClaimantID, event); err != nil {
		observability.LogAsyncOperationError(ctx, "claim_decision_notify", err, map[string]interface{}{
			"claim_id": claim.ID,
			"user_id":  claim.ClaimantID,
		})
	}
}
