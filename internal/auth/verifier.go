// Package auth resolves caller identity from bearer tokens issued by an
// external OpenID Connect provider.
//
// The flow per request: Verifier checks the token's RS256 signature against
// the provider's cached key set and validates audience and issuer; Resolver
// then maps the token's email claim to a persistent user, provisioning one
// on first sight. RequireAuth wires both into the HTTP request path.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"funclist/internal/apperror"
)

// Claims is the verified claim set extracted from a bearer token.
type Claims struct {
	Email             string `json:"email"`
	GivenName         string `json:"given_name"`
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens against the provider's published keys.
type Verifier struct {
	keys     *KeySet
	audience string
	issuer   string
}

// NewVerifier creates a Verifier for tokens issued by the given authority
// to the given client id. A nil httpClient falls back to the default.
func NewVerifier(authority, clientID string, httpClient *http.Client) *Verifier {
	return &Verifier{
		keys:     NewKeySet(authority, httpClient),
		audience: clientID,
		issuer:   authority,
	}
}

// Verify checks the token's signature, audience, issuer, and validity
// window. Every verification failure is reported uniformly as an
// authentication error; callers cannot distinguish a bad signature from an
// expired token or an unknown key id.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (any, error) {
			kid, ok := token.Header["kid"].(string)
			if !ok || kid == "" {
				return nil, fmt.Errorf("token header has no kid")
			}
			return v.keys.Key(ctx, kid)
		},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return nil, &apperror.AppError{Err: apperror.ErrAuthentication, Message: err.Error()}
	}

	return claims, nil
}
