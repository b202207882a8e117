package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"funclist/internal/apperror"
	"funclist/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userKey contextKey = "user"

// UserFromContext retrieves the authenticated user from the request
// context. Returns (nil, false) on requests that did not pass RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// RequireAuth returns a middleware that authenticates every request: it
// extracts the bearer token from the Authorization header, verifies it,
// resolves the caller's user record, and stores it in the request context.
//
// Missing or unverifiable tokens end the request with 401. A verified
// token without an email claim ends it with 400.
func RequireAuth(verifier *Verifier, resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			user, err := resolver.Resolve(r.Context(), claims)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperror.Authentication("authorization token required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperror.Authentication("malformed authorization header")
	}

	return parts[1], nil
}

// writeAuthError translates pre-handler failures to HTTP. Anything that is
// not explicitly a validation error is treated as an authentication
// failure; storage errors during resolution surface as 500.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	errorType := "authentication_error"
	message := "authentication failed"

	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		errorType = "validation_error"
	case errors.Is(err, apperror.ErrAuthentication):
		// defaults
	default:
		status = http.StatusInternalServerError
		errorType = "internal_error"
		message = "an internal error occurred"
	}
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
