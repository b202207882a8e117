package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"funclist/internal/models"
)

// AppendEventForUser appends one event to a list's log. Membership check,
// item-id allocation, and the insert all run in a single transaction, so a
// failed guard leaves no side effects and allocated ids are never reused.
//
// A nil draft.ItemID takes the next value from the item_counter row, which
// is shared by every list in the system: item ids are unique and strictly
// increasing system-wide. The counter update relies on the storage
// engine's atomicity, not process-level locking.
func (s *SQLiteStore) AppendEventForUser(ctx context.Context, listID, userID int64, draft models.EventDraft) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireMember(ctx, tx, listID, userID); err != nil {
		return err
	}

	var itemID int64
	if draft.ItemID != nil {
		itemID = *draft.ItemID
	} else {
		err := tx.QueryRowContext(ctx,
			"UPDATE item_counter SET value = value + 1 WHERE id = 1 RETURNING value",
		).Scan(&itemID)
		if err != nil {
			return fmt.Errorf("failed to allocate item id: %w", err)
		}
	}

	var displayName sql.NullString
	if draft.DisplayName != nil {
		displayName = sql.NullString{String: *draft.DisplayName, Valid: true}
	}
	var checked sql.NullBool
	if draft.Checked != nil {
		checked = sql.NullBool{Bool: *draft.Checked, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO list_event (list_id, user_id, item_id, display_name, checked, occured_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		listID, userID, itemID, displayName, checked, time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
