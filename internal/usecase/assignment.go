package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssetAssignment links an asset to a holder for an open-ended
// interval. At most one assignment per asset may be open (returned_at
// IS NULL) at any time; rows are closed, never deleted.
type AssetAssignment struct {
	ID         uuid.UUID
	AssetID    uuid.UUID
	UserID     uuid.UUID
	AssignedAt time.Time
	ReturnedAt *time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time

	Asset *Asset
	User  *User
}

// ReturnCondition reports the state of an asset at hand-back and
// drives the resulting asset status.
type ReturnCondition string

const (
	ConditionGood    ReturnCondition = "GOOD"
	ConditionDamaged ReturnCondition = "DAMAGED"
	ConditionLost    ReturnCondition = "LOST"
)

func (c ReturnCondition) AssetStatus() AssetStatus {
	switch c {
	case ConditionDamaged:
		return AssetStatusMaintenance
	case ConditionLost:
		return AssetStatusLost
	default:
		return AssetStatusAvailable
	}
}

type ListAssignmentsOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	AssetID  uuid.UUID
	UserID   uuid.UUID
	IsActive bool
}

// CloseAssignmentOption is the atomic close of an open assignment:
// stamp returned_at, append notes, move the asset to NewStatus and
// write the history entry, all in one transaction.
type CloseAssignmentOption struct {
	AssignmentID uuid.UUID
	ReturnedAt   time.Time
	Notes        string
	NewStatus    AssetStatus
	History      AssetHistory
}

func (u Usecase) ListAssignments(ctx context.Context, opt ListAssignmentsOption) ([]AssetAssignment, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, err
	}
	// Non-managers see only their own assignment history.
	if !actor.Can(CapViewAllRequests) {
		opt.UserID = actor.ID
	}
	return u.repo.ListAssignments(ctx, opt)
}

// ListUserAssets returns the assets currently held by a user.
func (u Usecase) ListUserAssets(ctx context.Context, userID uuid.UUID) ([]AssetAssignment, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if actor.ID != userID && !actor.Can(CapViewAllUsers) {
		return nil, 0, ErrForbidden{}
	}
	return u.repo.ListAssignments(ctx, ListAssignmentsOption{
		UserID:   userID,
		IsActive: true,
	})
}

// AssignAsset hands an AVAILABLE asset to a user.
//
// The status check and the open-assignment check must never disagree;
// if they do, the open-assignment check wins and the caller sees the
// conflict rather than a silent reconciliation. Concurrent assigns on
// the same asset are resolved by the partial unique index: exactly one
// commit succeeds, the loser surfaces as AlreadyAssigned.
func (u Usecase) AssignAsset(ctx context.Context, assetID, targetUserID uuid.UUID, notes string) (AssetAssignment, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetAssignment{}, err
	}
	if !actor.Can(CapManageAssets) {
		return AssetAssignment{}, ErrForbidden{}
	}

	asset, err := u.repo.GetAssetByID(ctx, assetID)
	if err != nil {
		return AssetAssignment{}, err
	}
	if asset.Status != AssetStatusAvailable {
		return AssetAssignment{}, ErrConflict{Message: "Asset is not available for assignment"}
	}
	if asset.Assignment != nil {
		return AssetAssignment{}, ErrConflict{Message: "Asset is already assigned to another user"}
	}

	target, err := u.repo.GetUserByID(ctx, targetUserID)
	if err != nil {
		var nf ErrNotFound
		if errors.As(err, &nf) {
			return AssetAssignment{}, ErrNotFound{Message: "Target user not found"}
		}
		return AssetAssignment{}, err
	}
	assigner, err := u.repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return AssetAssignment{}, err
	}

	assignment, err := u.repo.AssignAsset(ctx, AssetAssignment{
		AssetID:    assetID,
		UserID:     targetUserID,
		AssignedAt: time.Now(),
		Notes:      notes,
	}, AssetHistory{
		UserID:  actor.ID,
		Action:  "assigned",
		Details: fmt.Sprintf("Asset assigned to %s by %s", displayName(target), displayName(assigner)),
	})
	if err != nil {
		return AssetAssignment{}, err
	}

	go func() {
		if err := u.CreateNotification(context.Background(), Notification{
			UserID: target.ID,
			Title:  "Asset Assigned",
			Message: fmt.Sprintf("%s has been assigned to you. Please report any issues to your manager.",
				asset.Name),
			ReferenceType: "ASSIGNMENT",
			ReferenceID:   &assignment.ID,
		}); err != nil {
			fmt.Printf("assignment: failed to create notification: %v\n", err)
		}
	}()

	return assignment, nil
}

// ReturnAsset closes the open assignment. The current holder may
// return their own asset; anyone else needs the manage-assets
// capability. The asset's next status follows the reported condition.
func (u Usecase) ReturnAsset(ctx context.Context, assetID uuid.UUID, condition ReturnCondition, notes string) (AssetAssignment, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetAssignment{}, err
	}

	asset, err := u.repo.GetAssetByID(ctx, assetID)
	if err != nil {
		return AssetAssignment{}, err
	}
	if asset.Assignment == nil {
		return AssetAssignment{}, ErrConflict{Message: "Asset is not currently assigned"}
	}

	current := asset.Assignment
	if current.UserID != actor.ID && !actor.Can(CapManageAssets) {
		return AssetAssignment{}, ErrForbidden{}
	}

	var holder string
	if current.User != nil {
		holder = displayName(*current.User)
	} else {
		holder = current.UserID.String()
	}

	returnNotes := fmt.Sprintf("Returned (condition: %s)", condition)
	if notes != "" {
		returnNotes = fmt.Sprintf("Return notes: %s (condition: %s)", notes, condition)
	}

	return u.repo.CloseAssignment(ctx, CloseAssignmentOption{
		AssignmentID: current.ID,
		ReturnedAt:   time.Now(),
		Notes:        returnNotes,
		NewStatus:    condition.AssetStatus(),
		History: AssetHistory{
			UserID:  actor.ID,
			Action:  "returned",
			Details: fmt.Sprintf("Asset returned by %s in %s condition", holder, condition),
		},
	})
}

// RevokeAsset is the administrative forced return: the asset comes
// back AVAILABLE regardless of who holds it.
func (u Usecase) RevokeAsset(ctx context.Context, assetID uuid.UUID, reason string) (AssetAssignment, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return AssetAssignment{}, err
	}
	if !actor.Can(CapManageAssets) {
		return AssetAssignment{}, ErrForbidden{}
	}

	asset, err := u.repo.GetAssetByID(ctx, assetID)
	if err != nil {
		return AssetAssignment{}, err
	}
	if asset.Assignment == nil {
		return AssetAssignment{}, ErrConflict{Message: "Asset is not currently assigned"}
	}

	current := asset.Assignment
	var holder string
	if current.User != nil {
		holder = displayName(*current.User)
	} else {
		holder = current.UserID.String()
	}

	notes := current.Notes
	if reason != "" {
		if notes != "" {
			notes += " | "
		}
		notes += "Revoked: " + reason
	}

	details := fmt.Sprintf("Asset revoked from %s.", holder)
	if reason != "" {
		details += " Reason: " + reason
	}

	return u.repo.CloseAssignment(ctx, CloseAssignmentOption{
		AssignmentID: current.ID,
		ReturnedAt:   time.Now(),
		Notes:        notes,
		NewStatus:    AssetStatusAvailable,
		History: AssetHistory{
			UserID:  actor.ID,
			Action:  "revoked",
			Details: details,
		},
	})
}
