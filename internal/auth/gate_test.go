package auth

import (
	"context"
	"errors"
	"testing"

	"shwedadar-service/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeRoleSource struct {
	roles map[string]*models.Role
	err   error
}

func (f *fakeRoleSource) GetRoleByName(_ context.Context, name string) (*models.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[name], nil
}

func TestAuthorizeAllowed(t *testing.T) {
	gate := NewGate(&fakeRoleSource{roles: map[string]*models.Role{
		"cashier": {Name: "cashier", Permissions: []string{PermProductRead, PermSaleCreate}},
	}})

	err := gate.Authorize(context.Background(), "cashier", PermProductRead)
	assert.NoError(t, err)
}

func TestAuthorizeForbidden(t *testing.T) {
	gate := NewGate(&fakeRoleSource{roles: map[string]*models.Role{
		"cashier": {Name: "cashier", Permissions: []string{PermProductRead}},
	}})

	err := gate.Authorize(context.Background(), "cashier", PermProductUpdate)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeExactCaseSensitiveMatch(t *testing.T) {
	gate := NewGate(&fakeRoleSource{roles: map[string]*models.Role{
		"cashier": {Name: "cashier", Permissions: []string{"product:read", "PRODUCT:*"}},
	}})

	// no case folding, no wildcard expansion
	err := gate.Authorize(context.Background(), "cashier", PermProductRead)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeRoleNotFoundIsDistinctFromForbidden(t *testing.T) {
	gate := NewGate(&fakeRoleSource{roles: map[string]*models.Role{}})

	err := gate.Authorize(context.Background(), "ghost", PermProductRead)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	gate := NewGate(&fakeRoleSource{})

	err := gate.Authorize(context.Background(), "", PermProductRead)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizeStoreErrorSurfaces(t *testing.T) {
	storeErr := errors.New("connection refused")
	gate := NewGate(&fakeRoleSource{err: storeErr})

	err := gate.Authorize(context.Background(), "cashier", PermProductRead)
	assert.ErrorIs(t, err, storeErr)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	assert.NoError(t, err)
	assert.NoError(t, VerifyPassword(hash, "hunter2"))
	assert.Error(t, VerifyPassword(hash, "hunter3"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	ctx := ContextWithPrincipal(context.Background(), Principal{UserID: 7, Username: "mgr", RoleName: "manager"})

	got, ok := PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "manager", got.RoleName)

	_, ok = PrincipalFromContext(context.Background())
	assert.False(t, ok)
}
