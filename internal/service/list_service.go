// Package service implements the list registry and event log operations on
// top of the storage layer. All list-scoped operations run behind the
// membership guard enforced by the store; this layer adds the request
// semantics (field-presence rules, error taxonomy) and keeps HTTP out of
// the picture.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"funclist/internal/apperror"
	"funclist/internal/models"
	"funclist/internal/storage"
)

// ListService carries out list and event operations for authenticated
// callers.
type ListService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewListService creates a ListService with the given storage backend.
func NewListService(store storage.Store, logger *slog.Logger) *ListService {
	return &ListService{store: store, logger: logger}
}

// Create creates a new list with the caller as its sole member. Always
// succeeds for any authenticated caller.
func (s *ListService) Create(ctx context.Context, caller *models.User, displayName, description string) (*models.List, error) {
	list := &models.List{
		DisplayName: displayName,
		Description: description,
	}

	if err := s.store.CreateList(ctx, list, caller.ID); err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}

	s.logger.Info("list created", "list_id", list.ID, "user_id", caller.ID)
	return list, nil
}

// ListsForCaller returns summary metadata for every list the caller holds
// membership in, annotated with event counts. No event payloads are
// loaded in this view.
func (s *ListService) ListsForCaller(ctx context.Context, caller *models.User) ([]models.ListSummary, error) {
	summaries, err := s.store.ListsForUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	return summaries, nil
}

// GetDetail returns full detail for a list the caller is a member of:
// metadata, the complete ordered event log, and the member roster.
func (s *ListService) GetDetail(ctx context.Context, caller *models.User, listID int64) (*models.ListDetail, error) {
	detail, err := s.store.GetListForUser(ctx, listID, caller.ID, storage.ListFetchPlan{
		IncludeEvents:  true,
		IncludeMembers: true,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("list", listID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching list: %w", err)
	}

	return detail, nil
}

// Update applies a partial update to list metadata. Only fields explicitly
// present in the patch overwrite; a present empty string overwrites to
// empty, a nil field leaves the stored value untouched.
func (s *ListService) Update(ctx context.Context, caller *models.User, listID int64, patch models.ListPatch) error {
	err := s.store.UpdateListForUser(ctx, listID, caller.ID, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound("list", listID)
	}
	if err != nil {
		return fmt.Errorf("updating list: %w", err)
	}

	s.logger.Info("list updated", "list_id", listID, "user_id", caller.ID)
	return nil
}

// AppendEvent appends one event to a list's log on behalf of the caller.
//
// An absent item_id marks item creation: display_name must be present and
// non-empty, checked is forced to false regardless of what was supplied,
// and a fresh item id is allocated from the system-wide counter. A present
// item_id marks a mutation event; display_name and checked are stored with
// exactly the presence the caller supplied.
func (s *ListService) AppendEvent(ctx context.Context, caller *models.User, listID int64, draft models.EventDraft) error {
	if draft.ItemID == nil {
		if draft.DisplayName == nil || *draft.DisplayName == "" {
			return apperror.Validation("cannot create new item without a display name")
		}
		checked := false
		draft.Checked = &checked
	}

	err := s.store.AppendEventForUser(ctx, listID, caller.ID, draft)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound("list", listID)
	}
	if err != nil {
		return fmt.Errorf("appending event: %w", err)
	}

	s.logger.Info("event appended", "list_id", listID, "user_id", caller.ID)
	return nil
}
