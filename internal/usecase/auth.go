package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthUser links an identity-provider uid to a local user row.
type AuthUser struct {
	UID       string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	User      *User
}

type RegisterUser struct {
	Name     string
	Email    string
	Password string
	// Role is a caller proposal, honored only if it parses into the
	// enum; anything else falls back to USER. Signup is the single
	// place a client-supplied role string is read.
	Role string
}

func (u Usecase) RegisterUser(ctx context.Context, ru RegisterUser) (User, error) {
	role := RoleUser
	if r, ok := ParseRole(ru.Role); ok {
		role = r
	}

	uid, err := u.identityProvider.CreateUser(ctx, ru)
	if err != nil {
		return User{}, err
	}

	user, err := u.CreateUser(ctx, User{
		Name:  ru.Name,
		Email: ru.Email,
		Role:  role,
	})
	if err != nil {
		return User{}, err
	}

	_, err = u.repo.CreateAuthUser(ctx, AuthUser{
		UID:    uid,
		UserID: user.ID,
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

// GetAuthUserByUID resolves a verified identity-provider uid to the
// local user (with role). Used by the auth middleware on every request.
func (u Usecase) GetAuthUserByUID(ctx context.Context, uid string) (AuthUser, error) {
	return u.repo.GetAuthUserByUID(ctx, uid)
}

// used by middleware
func (u Usecase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	return u.identityProvider.VerifyIDToken(ctx, token)
}

// GetMe returns the caller's own user record.
func (u Usecase) GetMe(ctx context.Context) (User, error) {
	actor, err := u.actor(ctx)
	if err != nil {
		return User{}, err
	}
	return u.repo.GetUserByID(ctx, actor.ID)
}
