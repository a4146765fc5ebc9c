package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jayjaytrn/storefront/models"
)

func (m *Manager) CreateUser(ctx context.Context, user models.User) (int64, error) {
	var id int64
	err := m.Db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Username, user.PasswordHash, user.Role).Scan(&id)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return 0, models.ErrUsernameTaken
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

func (m *Manager) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := m.Db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// EnsureUser creates the user unless the username is already taken.
func (m *Manager) EnsureUser(ctx context.Context, user models.User) error {
	_, err := m.Db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
	`, user.Username, user.PasswordHash, user.Role)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	return nil
}
