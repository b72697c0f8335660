package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetHistory is the append-only audit ledger. Entries are written in
// the same transaction as the state change they record and are never
// mutated or deleted.
type AssetHistory struct {
	ID        uuid.UUID
	AssetID   uuid.UUID
	UserID    uuid.UUID
	Action    string
	Details   string
	CreatedAt time.Time

	User *User
}

type ListAssetHistoryOption struct {
	Skip  int
	Limit int

	AssetID uuid.UUID
	UserID  uuid.UUID
	Action  string
}

func (u Usecase) ListAssetHistory(ctx context.Context, opt ListAssetHistoryOption) ([]AssetHistory, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !actor.Can(CapViewAllRequests) {
		return nil, 0, ErrForbidden{}
	}
	return u.repo.ListAssetHistory(ctx, opt)
}
