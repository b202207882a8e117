package auth

import (
	"context"
	"fmt"

	"funclist/internal/apperror"
	"funclist/internal/models"
)

// UserStore is the slice of storage the resolver needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Resolver maps a verified claim set to a persistent user record,
// provisioning one on the first successful verification for an unseen
// email.
//
// The lookup-then-create has no uniqueness constraint behind it, so two
// concurrent first-time logins for the same email can race into duplicate
// rows; later lookups then consistently pick the lowest id. Kept as-is
// pending a product decision (see DESIGN.md).
type Resolver struct {
	store UserStore
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store UserStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the user for the claim set's email, creating one if none
// exists. A cryptographically valid token without an email claim is a
// validation error (400), not an authentication failure: the token is
// genuine but semantically insufficient.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (*models.User, error) {
	if claims.Email == "" {
		return nil, apperror.Validation("token does not contain an email claim")
	}

	user, err := r.store.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		DisplayName: displayNameFromClaims(claims),
		Email:       claims.Email,
	}
	if err := r.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("provisioning user: %w", err)
	}

	return user, nil
}

// displayNameFromClaims picks the first available of given_name,
// preferred_username, and subject.
func displayNameFromClaims(claims *Claims) string {
	if claims.GivenName != "" {
		return claims.GivenName
	}
	if claims.PreferredUsername != "" {
		return claims.PreferredUsername
	}
	return claims.Subject
}
