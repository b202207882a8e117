package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"funclist/internal/models"
)

// CreateUser inserts a new user and populates user.ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO user (display_name, email) VALUES (?, ?)",
		user.DisplayName, user.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByEmail retrieves a user by email address.
// Returns (nil, nil) when no user exists for the email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, display_name, email FROM user WHERE email = ? ORDER BY id LIMIT 1",
		email,
	).Scan(&user.ID, &user.DisplayName, &user.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}
