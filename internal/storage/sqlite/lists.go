package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"funclist/internal/models"
	"funclist/internal/storage"
)

// CreateList inserts a new list and its creator membership in one
// transaction, and populates list.ID.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List, ownerID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO list (display_name, description) VALUES (?, ?)",
		list.DisplayName, list.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read list id: %w", err)
	}
	list.ID = id

	_, err = tx.ExecContext(ctx,
		"INSERT INTO list_user (list_id, user_id) VALUES (?, ?)",
		list.ID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListsForUser returns summaries for every list the user holds membership
// in, annotated with per-list event counts.
func (s *SQLiteStore) ListsForUser(ctx context.Context, userID int64) ([]models.ListSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.display_name, l.description, COUNT(e.id)
		FROM list l
		JOIN list_user lu ON lu.list_id = l.id AND lu.user_id = ?
		LEFT JOIN list_event e ON e.list_id = l.id
		GROUP BY l.id, l.display_name, l.description
		ORDER BY l.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var summaries []models.ListSummary
	for rows.Next() {
		var sum models.ListSummary
		if err := rows.Scan(&sum.ID, &sum.DisplayName, &sum.Description, &sum.EventCount); err != nil {
			return nil, fmt.Errorf("failed to scan list summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}

	return summaries, nil
}

// GetListForUser retrieves a list the user is a member of, materialized per
// the fetch plan. Nonexistent lists and non-member lists both return
// storage.ErrNotFound.
func (s *SQLiteStore) GetListForUser(ctx context.Context, listID, userID int64, plan storage.ListFetchPlan) (*models.ListDetail, error) {
	detail := &models.ListDetail{}
	err := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.display_name, l.description
		FROM list l
		JOIN list_user lu ON lu.list_id = l.id AND lu.user_id = ?
		WHERE l.id = ?`,
		userID, listID,
	).Scan(&detail.ID, &detail.DisplayName, &detail.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	if plan.IncludeEvents {
		events, err := s.eventsForList(ctx, listID)
		if err != nil {
			return nil, err
		}
		detail.Events = events
	}

	if plan.IncludeMembers {
		members, err := s.membersForList(ctx, listID)
		if err != nil {
			return nil, err
		}
		detail.Members = members
	}

	return detail, nil
}

// UpdateListForUser applies the present fields of patch to the list,
// checking membership and updating within one transaction.
func (s *SQLiteStore) UpdateListForUser(ctx context.Context, listID, userID int64, patch models.ListPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireMember(ctx, tx, listID, userID); err != nil {
		return err
	}

	if patch.DisplayName != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE list SET display_name = ? WHERE id = ?",
			*patch.DisplayName, listID,
		); err != nil {
			return fmt.Errorf("failed to update display_name: %w", err)
		}
	}

	if patch.Description != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE list SET description = ? WHERE id = ?",
			*patch.Description, listID,
		); err != nil {
			return fmt.Errorf("failed to update description: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLiteStore) eventsForList(ctx context.Context, listID int64) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, list_id, user_id, item_id, display_name, checked, occured_at
		FROM list_event
		WHERE list_id = ?
		ORDER BY occured_at, id`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			ev          models.Event
			displayName sql.NullString
			checked     sql.NullBool
			occurredAt  int64
		)
		if err := rows.Scan(&ev.ID, &ev.ListID, &ev.UserID, &ev.ItemID, &displayName, &checked, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if displayName.Valid {
			ev.DisplayName = &displayName.String
		}
		if checked.Valid {
			ev.Checked = &checked.Bool
		}
		ev.OccurredAt = time.Unix(occurredAt, 0).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func (s *SQLiteStore) membersForList(ctx context.Context, listID int64) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.display_name, u.email
		FROM user u
		JOIN list_user lu ON lu.user_id = u.id
		WHERE lu.list_id = ?
		ORDER BY u.id`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
