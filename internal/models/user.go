package models

// User represents a registered user account.
//
// Users are provisioned automatically on the first successful token
// verification for an unseen email; they are never deleted, and no current
// operation updates them. Email is the join key against the identity
// provider's `email` claim. The schema does not enforce uniqueness on it
// (see DESIGN.md for the recorded decision).
type User struct {
	// ID is the system-assigned identifier (autoincrement).
	ID int64

	// DisplayName is shown to other list members. Chosen at provisioning
	// time from the token's given_name, preferred_username, or subject.
	DisplayName string

	// Email is the external-identity join key.
	Email string
}
