package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	AuthUser *AuthUser
}

type ListUsersOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Name  string
	Email string
	Role  Role
}

// ListUsers is restricted to SUPER_ADMIN.
func (u Usecase) ListUsers(ctx context.Context, opt ListUsersOption) ([]User, int, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !actor.Can(CapViewAllUsers) {
		return nil, 0, ErrForbidden{}
	}
	return u.repo.ListUsers(ctx, opt)
}

func (u Usecase) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return User{}, err
	}
	if actor.ID != id && !actor.Can(CapViewAllUsers) {
		return User{}, ErrForbidden{}
	}
	return u.repo.GetUserByID(ctx, id)
}

func (u Usecase) CreateUser(ctx context.Context, user User) (User, error) {
	return u.repo.CreateUser(ctx, user)
}

// ChangeUserRole sets a user's global role. SUPER_ADMIN only, and never
// on the actor's own account: an admin locking themselves out of the
// admin role is treated as caller error, not a supported operation.
func (u Usecase) ChangeUserRole(ctx context.Context, targetID uuid.UUID, role Role) (User, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return User{}, err
	}
	if !actor.Can(CapChangeUserRole) {
		return User{}, ErrForbidden{}
	}
	if role.Rank() == 0 {
		return User{}, ErrValidation{Message: "Invalid role provided"}
	}
	if actor.ID == targetID {
		return User{}, ErrValidation{Message: "You cannot change your own role."}
	}

	target, err := u.repo.GetUserByID(ctx, targetID)
	if err != nil {
		return User{}, err
	}

	target.Role = role
	return u.repo.UpdateUser(ctx, target)
}
