package service

import (
	"context"
	"fmt"
	"strings"

	"shwedadar-service/internal/auth"
	"shwedadar-service/internal/models"
	"shwedadar-service/internal/util"

	"go.uber.org/zap"
)

// AccountStore is the slice of the store the account service uses.
type AccountStore interface {
	CreateRole(ctx context.Context, role *models.Role) error
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	GetRoles(ctx context.Context) ([]models.Role, error)
	UpdateRolePermissions(ctx context.Context, name string, permissions []string) error
	DeleteRole(ctx context.Context, name string) error
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// AccountService manages roles, users, and credential verification.
type AccountService struct {
	store  AccountStore
	logger *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Login verifies credentials and returns the account. Unknown usernames,
// wrong passwords, and deactivated accounts all report the same error.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// CreateRole validates and persists a new role.
func (s *AccountService) CreateRole(ctx context.Context, name string, permissions []string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrValidation)
	}
	cleaned, err := validatePermissions(permissions)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetRoleByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: role %s already exists", ErrValidation, name)
	}

	role := &models.Role{Name: name, Permissions: cleaned}
	if err := s.store.CreateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.logger.Info("Role created", zap.String("role", name))
	return role, nil
}

// GetRole retrieves a role by name; (nil, nil) when it does not exist.
func (s *AccountService) GetRole(ctx context.Context, name string) (*models.Role, error) {
	return s.store.GetRoleByName(ctx, name)
}

// ListRoles retrieves all roles.
func (s *AccountService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.store.GetRoles(ctx)
}

// UpdateRolePermissions replaces a role's permission list. The change
// applies to every holder of the role on their next gated action.
func (s *AccountService) UpdateRolePermissions(ctx context.Context, name string, permissions []string) error {
	cleaned, err := validatePermissions(permissions)
	if err != nil {
		return err
	}

	if err := s.store.UpdateRolePermissions(ctx, name, cleaned); err != nil {
		return err
	}

	s.logger.Info("Role permissions updated",
		zap.String("role", name),
		zap.Strings("permissions", cleaned))
	return nil
}

// DeleteRole removes a role. Sessions referencing it fail closed with a
// role-not-found signal on their next gated action.
func (s *AccountService) DeleteRole(ctx context.Context, name string) error {
	return s.store.DeleteRole(ctx, name)
}

// UserRequest carries user attributes for create and update.
type UserRequest struct {
	Username       string   `json:"username" binding:"required"`
	Password       string   `json:"password,omitempty"`
	RoleName       string   `json:"role_name" binding:"required"`
	IsActive       bool     `json:"is_active"`
	PhoneNumber    string   `json:"phone_number"`
	Address        string   `json:"address"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
}

// CreateUser validates, hashes the credential, and persists a new account.
// The referenced role must exist.
func (s *AccountService) CreateUser(ctx context.Context, req *UserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if req.CommissionRate != nil && *req.CommissionRate < 0 {
		return nil, fmt.Errorf("%w: commission rate must be non-negative", ErrValidation)
	}

	role, err := s.store.GetRoleByName(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s does not exist", ErrValidation, req.RoleName)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		PasswordHash:   hash,
		RoleName:       req.RoleName,
		IsActive:       req.IsActive,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		CommissionRate: req.CommissionRate,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created",
		zap.String("username", username),
		zap.String("role", req.RoleName))
	return user, nil
}

// GetUser retrieves a user by id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// ListUsers retrieves all users.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.GetUsers(ctx)
}

// UpdateUser rewrites a user's role, activity flag, contact details, and
// commission rate. Username and password are immutable here.
func (s *AccountService) UpdateUser(ctx context.Context, id int64, req *UserRequest) (*models.User, error) {
	if req.CommissionRate != nil && *req.CommissionRate < 0 {
		return nil, fmt.Errorf("%w: commission rate must be non-negative", ErrValidation)
	}

	role, err := s.store.GetRoleByName(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s does not exist", ErrValidation, req.RoleName)
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.RoleName = req.RoleName
	user.IsActive = req.IsActive
	user.PhoneNumber = req.PhoneNumber
	user.Address = req.Address
	user.CommissionRate = req.CommissionRate

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func validatePermissions(permissions []string) ([]string, error) {
	cleaned := make([]string, 0, len(permissions))
	seen := make(map[string]struct{}, len(permissions))
	for _, perm := range permissions {
		perm = strings.TrimSpace(perm)
		if perm == "" {
			continue
		}
		parts := strings.Split(perm, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("%w: permission %q is not of the form MODULE:ACTION", ErrValidation, perm)
		}
		if _, ok := seen[perm]; ok {
			continue
		}
		seen[perm] = struct{}{}
		cleaned = append(cleaned, perm)
	}
	return cleaned, nil
}
