package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funclist/internal/apperror"
	"funclist/internal/models"
)

// stubUserStore is an in-memory UserStore for resolver tests.
type stubUserStore struct {
	users  []*models.User
	nextID int64
}

func (s *stubUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, user)
	return nil
}

func claimsWith(email, givenName, preferredUsername, sub string) *Claims {
	return &Claims{
		Email:             email,
		GivenName:         givenName,
		PreferredUsername: preferredUsername,
		RegisteredClaims:  jwt.RegisteredClaims{Subject: sub},
	}
}

func TestResolve_ExistingUser(t *testing.T) {
	store := &stubUserStore{}
	existing := &models.User{DisplayName: "Alice", Email: "alice@example.com"}
	require.NoError(t, store.CreateUser(context.Background(), existing))

	resolver := NewResolver(store)
	user, err := resolver.Resolve(context.Background(), claimsWith("alice@example.com", "Someone Else", "", "sub-1"))
	require.NoError(t, err)

	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "Alice", user.DisplayName, "existing users are never mutated")
	assert.Len(t, store.users, 1)
}

func TestResolve_ProvisionsUnseenEmail(t *testing.T) {
	store := &stubUserStore{}
	resolver := NewResolver(store)

	user, err := resolver.Resolve(context.Background(), claimsWith("bob@example.com", "Bob", "bobby", "sub-2"))
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, "Bob", user.DisplayName)
	assert.Len(t, store.users, 1)
}

func TestResolve_DisplayNameFallbackChain(t *testing.T) {
	tests := []struct {
		name   string
		claims *Claims
		want   string
	}{
		{"given_name wins", claimsWith("a@example.com", "Given", "preferred", "sub"), "Given"},
		{"preferred_username second", claimsWith("b@example.com", "", "preferred", "sub"), "preferred"},
		{"subject last", claimsWith("c@example.com", "", "", "sub"), "sub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(&stubUserStore{})
			user, err := resolver.Resolve(context.Background(), tt.claims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, user.DisplayName)
		})
	}
}

func TestResolve_MissingEmailIsValidationError(t *testing.T) {
	store := &stubUserStore{}
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), claimsWith("", "Alice", "", "sub-1"))
	require.Error(t, err)

	// Distinct from authentication failure: the token verified fine.
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NotErrorIs(t, err, apperror.ErrAuthentication)
	assert.Empty(t, store.users, "no user may be provisioned without an email")
}
