package store

import (
	"context"
	"database/sql"
	"fmt"

	"shwedadar-service/internal/models"

	"github.com/lib/pq"
)

// CreateRole inserts a role and fills in its id and timestamps.
func (s *Store) CreateRole(ctx context.Context, role *models.Role) error {
	query := `
		INSERT INTO roles (name, permissions)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query, role.Name, role.Permissions).
		Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
}

// GetRoleByName retrieves a role by its unique name. Returns (nil, nil)
// when no such role exists; the permission gate relies on that contract.
func (s *Store) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.GetContext(ctx, &role, "SELECT * FROM roles WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoles retrieves all roles
func (s *Store) GetRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.SelectContext(ctx, &roles, "SELECT * FROM roles ORDER BY name")
	return roles, err
}

// UpdateRolePermissions replaces a role's permission list.
func (s *Store) UpdateRolePermissions(ctx context.Context, name string, permissions []string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE roles SET permissions = $1, updated_at = NOW() WHERE name = $2",
		pq.StringArray(permissions), name)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("role %s: %w", name, ErrNotFound)
	}
	return nil
}

// DeleteRole removes a role by name.
func (s *Store) DeleteRole(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM roles WHERE name = $1", name)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("role %s: %w", name, ErrNotFound)
	}
	return nil
}

// CreateUser inserts a user and fills in its id and created_at.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, role_name, is_active,
			phone_number, address, commission_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		user.Username, user.PasswordHash, user.RoleName, user.IsActive,
		user.PhoneNumber, user.Address, user.CommissionRate,
	).Scan(&user.ID, &user.CreatedAt)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username. Returns (nil, nil) when
// no such user exists so login can fail without leaking which part of the
// credentials was wrong.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users
func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY username")
	return users, err
}

// UpdateUser rewrites a user's mutable attributes.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET role_name = $1, is_active = $2, phone_number = $3,
			address = $4, commission_rate = $5
		WHERE id = $6`,
		user.RoleName, user.IsActive, user.PhoneNumber, user.Address,
		user.CommissionRate, user.ID)
	if err != nil {
		return err
	}
	return requireRow(result, "user", user.ID)
}
