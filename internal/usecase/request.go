package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RequestType string

const (
	RequestTypeNewAsset    RequestType = "NEW_ASSET"
	RequestTypeReplacement RequestType = "REPLACEMENT"
	RequestTypeComplaint   RequestType = "COMPLAINT"
	RequestTypeMaintenance RequestType = "MAINTENANCE"
)

func ParseRequestType(s string) (RequestType, bool) {
	switch RequestType(s) {
	case RequestTypeNewAsset, RequestTypeReplacement, RequestTypeComplaint, RequestTypeMaintenance:
		return RequestType(s), true
	}
	return "", false
}

// RequestStatus is a one-directional workflow:
// PENDING -> {APPROVED, REJECTED, CANCELLED}; APPROVED -> IN_PROGRESS
// -> COMPLETED. No transition moves backward.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusApproved   RequestStatus = "APPROVED"
	RequestStatusRejected   RequestStatus = "REJECTED"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

type Request struct {
	ID          uuid.UUID
	RequestedBy uuid.UUID
	Type        RequestType
	Title       string
	Description string
	Priority    string
	DeviceType  string
	Preferences json.RawMessage
	AssetID     *uuid.UUID
	Status      RequestStatus
	ApprovedBy  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time

	Requester *User
	Asset     *Asset
	Approver  *User
}

type SubmitRequestOption struct {
	Type        string
	Description string
	Urgency     string
	DeviceType  string
	Preferences json.RawMessage
	AssetID     *uuid.UUID
}

type ListRequestsOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	RequestedBy uuid.UUID
	Status      RequestStatus
	Type        RequestType
}

// SubmitRequest files a new request for the caller. Any authenticated
// user may submit; no role gate beyond that.
func (u Usecase) SubmitRequest(ctx context.Context, opt SubmitRequestOption) (Request, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Request{}, err
	}

	if opt.Type == "" || opt.Description == "" {
		return Request{}, ErrValidation{Message: "Type and description are required"}
	}
	reqType, ok := ParseRequestType(opt.Type)
	if !ok {
		return Request{}, ErrValidation{Message: "Invalid request type"}
	}
	if reqType == RequestTypeReplacement && opt.AssetID == nil {
		return Request{}, ErrValidation{Message: "Asset ID is required for replacement requests"}
	}
	if opt.AssetID != nil {
		if _, err := u.repo.GetAssetByID(ctx, *opt.AssetID); err != nil {
			return Request{}, err
		}
	}

	priority := strings.ToLower(opt.Urgency)
	if priority == "" {
		priority = "medium"
	}

	// Title is the leading slice of the description, capped at the
	// column width.
	title := opt.Description
	if len(title) > 100 {
		title = title[:100]
	}

	return u.repo.CreateRequest(ctx, Request{
		RequestedBy: actor.ID,
		Type:        reqType,
		Title:       title,
		Description: opt.Description,
		Priority:    priority,
		DeviceType:  opt.DeviceType,
		Preferences: opt.Preferences,
		AssetID:     opt.AssetID,
		Status:      RequestStatusPending,
	})
}

// ListRequests scopes visibility by role: USER sees only their own
// submissions, MANAGER and above see everything.
func (u Usecase) ListRequests(ctx context.Context, opt ListRequestsOption) ([]Request, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !actor.Can(CapViewAllRequests) {
		opt.RequestedBy = actor.ID
	}
	return u.repo.ListRequests(ctx, opt)
}

func (u Usecase) GetRequestByID(ctx context.Context, id uuid.UUID) (Request, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Request{}, err
	}
	req, err := u.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.RequestedBy != actor.ID && !actor.Can(CapViewAllRequests) {
		return Request{}, ErrForbidden{}
	}
	return req, nil
}

// DecideRequest approves or rejects a PENDING request and stamps the
// approver. Deciding from any other state is rejected so a decision
// can never flip once made.
func (u Usecase) DecideRequest(ctx context.Context, id uuid.UUID, decision RequestStatus) (Request, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Request{}, err
	}
	if !actor.Can(CapApproveRequests) {
		return Request{}, ErrForbidden{}
	}
	if decision != RequestStatusApproved && decision != RequestStatusRejected {
		return Request{}, ErrValidation{Message: fmt.Sprintf("invalid decision %s", decision)}
	}

	req, err := u.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.Status != RequestStatusPending {
		return Request{}, ErrConflict{Message: fmt.Sprintf("Request is %s, only pending requests can be decided", req.Status)}
	}

	req.Status = decision
	approver := actor.ID
	req.ApprovedBy = &approver

	updated, err := u.repo.UpdateRequest(ctx, req, RequestStatusPending)
	if err != nil {
		return Request{}, err
	}

	go func() {
		verb, title := "approved", "Request Approved"
		if decision == RequestStatusRejected {
			verb, title = "rejected", "Request Rejected"
		}
		if err := u.CreateNotification(context.Background(), Notification{
			UserID:        req.RequestedBy,
			Title:         title,
			Message:       fmt.Sprintf("Your request %q has been %s.", req.Title, verb),
			ReferenceType: "REQUEST",
			ReferenceID:   &req.ID,
		}); err != nil {
			fmt.Printf("request: failed to create notification: %v\n", err)
		}
	}()

	return updated, nil
}

// AdvanceRequest moves an approved request through fulfilment. Only
// forward steps are valid: IN_PROGRESS from APPROVED, COMPLETED from
// IN_PROGRESS.
func (u Usecase) AdvanceRequest(ctx context.Context, id uuid.UUID, next RequestStatus) (Request, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Request{}, err
	}
	if !actor.Can(CapUpdateRequestStatus) {
		return Request{}, ErrForbidden{}
	}

	req, err := u.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}

	switch next {
	case RequestStatusInProgress:
		if req.Status != RequestStatusApproved {
			return Request{}, ErrConflict{Message: fmt.Sprintf("Request is %s, only approved requests can start", req.Status)}
		}
	case RequestStatusCompleted:
		if req.Status != RequestStatusInProgress {
			return Request{}, ErrConflict{Message: fmt.Sprintf("Request is %s, only in-progress requests can complete", req.Status)}
		}
	default:
		return Request{}, ErrValidation{Message: fmt.Sprintf("invalid status %s", next)}
	}

	from := req.Status
	req.Status = next
	return u.repo.UpdateRequest(ctx, req, from)
}

// CancelRequest lets a requester withdraw their own request while it
// is still pending.
func (u Usecase) CancelRequest(ctx context.Context, id uuid.UUID) (Request, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return Request{}, err
	}

	req, err := u.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.RequestedBy != actor.ID {
		return Request{}, ErrForbidden{}
	}
	if req.Status != RequestStatusPending {
		return Request{}, ErrConflict{Message: fmt.Sprintf("Request is %s, only pending requests can be cancelled", req.Status)}
	}

	req.Status = RequestStatusCancelled
	return u.repo.UpdateRequest(ctx, req, RequestStatusPending)
}
