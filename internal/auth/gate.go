package auth

import (
	"context"
	"fmt"

	"shwedadar-service/internal/models"
)

// RoleSource resolves a role by name. Implementations return (nil, nil)
// when the role does not exist.
type RoleSource interface {
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
}

// Gate authorizes catalog operations against a role's permission list.
// Every check re-reads the role, so permission edits take effect on the
// actor's next gated action without any invalidation step. The gate is
// advisory: callers must refuse the guarded operation themselves when an
// error is returned.
type Gate struct {
	roles RoleSource
}

// NewGate creates a permission gate backed by the given role source.
func NewGate(roles RoleSource) *Gate {
	return &Gate{roles: roles}
}

// Authorize fails closed with a distinct error per failure mode:
// ErrUnauthenticated when no role name is presented, ErrRoleNotFound when
// the role no longer resolves, and ErrForbidden when the role's permission
// list lacks the exact required string.
func (g *Gate) Authorize(ctx context.Context, actorRoleName, requiredPermission string) error {
	if actorRoleName == "" {
		return ErrUnauthenticated
	}

	role, err := g.roles.GetRoleByName(ctx, actorRoleName)
	if err != nil {
		return fmt.Errorf("failed to load role %q: %w", actorRoleName, err)
	}
	if role == nil {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, actorRoleName)
	}

	for _, perm := range role.Permissions {
		if perm == requiredPermission {
			return nil
		}
	}

	return fmt.Errorf("%w: %s requires %s", ErrForbidden, actorRoleName, requiredPermission)
}
