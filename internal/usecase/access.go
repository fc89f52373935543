package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
	pkgAuth "github.com/polkiloo/pocha/internal/pkg/auth"
)

// AdminPolicy reports whether a verified email is granted the admin role.
type AdminPolicy func(email string) bool

// Profile is the caller supplied part of a user record.
type Profile struct {
	Name   string
	Email  string
	Avatar string
}

// AccessUseCase resolves callers and manages user profiles and roles.
type AccessUseCase struct {
	users   repository.UserRepository
	tokens  pkgAuth.Strategy
	isAdmin AdminPolicy
}

// NewAccessUseCase constructs AccessUseCase.
func NewAccessUseCase(users repository.UserRepository, tokens pkgAuth.Strategy, isAdmin AdminPolicy) *AccessUseCase {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AccessUseCase{users: users, tokens: tokens, isAdmin: isAdmin}
}

// ResolveCaller verifies token and loads the caller's current role. A valid
// token without a stored profile resolves to a plain user.
func (u *AccessUseCase) ResolveCaller(ctx context.Context, token string) (model.Caller, error) {
	if token == "" {
		return model.Caller{}, domainErrors.ErrUnauthenticated
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrInvalidToken) {
			return model.Caller{}, domainErrors.ErrUnauthenticated
		}
		return model.Caller{}, err
	}

	caller := model.Caller{ID: claims.Subject, Email: claims.Email, Role: model.RoleUser}
	user, err := u.users.GetByID(ctx, claims.Subject)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return caller, nil
	case err != nil:
		return model.Caller{}, err
	}
	caller.Role = user.Role
	return caller, nil
}

// SaveProfile creates or refreshes the caller's profile. The admin role is
// granted only from the token's verified email; the profile email is display
// data and may be left empty to reuse the verified one.
func (u *AccessUseCase) SaveProfile(ctx context.Context, caller model.Caller, profile Profile) (*model.User, error) {
	if err := requireSignedIn(caller); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(profile.Email)
	if email == "" {
		email = caller.Email
	}
	if email == "" {
		return nil, invalid("email is required")
	}

	role := model.RoleUser
	if caller.Email != "" && u.isAdmin(caller.Email) {
		role = model.RoleAdmin
	}
	return u.users.Upsert(ctx, model.User{
		ID:     caller.ID,
		Name:   strings.TrimSpace(profile.Name),
		Email:  email,
		Avatar: strings.TrimSpace(profile.Avatar),
		Role:   role,
	})
}

// Profile returns the caller's stored profile.
func (u *AccessUseCase) Profile(ctx context.Context, caller model.Caller) (*model.User, error) {
	if err := requireSignedIn(caller); err != nil {
		return nil, err
	}
	return u.users.GetByID(ctx, caller.ID)
}

// SetRole changes the role of another user. Admin only.
func (u *AccessUseCase) SetRole(ctx context.Context, caller model.Caller, userID string, role model.Role) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return invalid("userId is required")
	}
	if !role.Valid() {
		return invalid("unknown role %q", role)
	}
	return u.users.SetRole(ctx, userID, role)
}
