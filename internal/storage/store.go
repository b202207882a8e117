// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"funclist/internal/models"
)

// ErrNotFound is returned when a requested row does not exist, or when a
// list-scoped operation is attempted by a caller without membership. The
// two cases are indistinguishable on purpose: non-members must not be able
// to probe for list existence.
var ErrNotFound = errors.New("storage: not found")

// ListFetchPlan states explicitly which related data a list fetch must
// materialize. There is no lazy loading; anything not requested here is
// simply not returned.
type ListFetchPlan struct {
	IncludeEvents  bool
	IncludeMembers bool
}

// Store defines the persistence operations the service layer relies on.
// Every list-scoped method takes the caller's user id and enforces
// membership inside the same transaction as the operation itself.
type Store interface {
	// GetUserByEmail returns the first user with the given email, or
	// (nil, nil) when none exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUser persists a new user and populates user.ID.
	CreateUser(ctx context.Context, user *models.User) error

	// CreateList persists a new list with the owner as its sole member,
	// in one transaction, and populates list.ID.
	CreateList(ctx context.Context, list *models.List, ownerID int64) error

	// ListsForUser returns summaries for every list the user is a member
	// of, each annotated with its event count.
	ListsForUser(ctx context.Context, userID int64) ([]models.ListSummary, error)

	// GetListForUser returns a list the user is a member of, materialized
	// per the fetch plan. Returns ErrNotFound for nonexistent lists and
	// for lists the user has no membership in.
	GetListForUser(ctx context.Context, listID, userID int64, plan ListFetchPlan) (*models.ListDetail, error)

	// UpdateListForUser applies the present fields of patch to the list.
	// Absent fields are left untouched. Returns ErrNotFound under the
	// same rules as GetListForUser.
	UpdateListForUser(ctx context.Context, listID, userID int64, patch models.ListPatch) error

	// AppendEventForUser appends one event authored by userID. A nil
	// draft.ItemID allocates the next id from the system-wide monotonic
	// item counter within the same transaction. Returns ErrNotFound under
	// the same rules as GetListForUser.
	AppendEventForUser(ctx context.Context, listID, userID int64, draft models.EventDraft) error

	// Close releases any resources held by the store.
	Close() error
}
