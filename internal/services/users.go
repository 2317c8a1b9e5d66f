package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// UserService implements [AdminUsers] against /admin/users.
type UserService struct {
	client *Client
}

// NewUserService creates a [UserService].
func NewUserService(c *Client) *UserService {
	return &UserService{client: c}
}

// List fetches one page of accounts, optionally filtered by name or email.
func (s *UserService) List(ctx context.Context, req models.PageRequest) (*models.Page[models.User], error) {
	return fetchPage[models.User](ctx, s.client, "/admin/users", req)
}

func normalizeUserInput(in models.UserInput, creating bool) (models.UserInput, error) {
	var err error
	if in.Email, err = validateEmail(in.Email); err != nil {
		return in, err
	}
	if in.FullName, err = validateFullName(in.FullName); err != nil {
		return in, err
	}
	if creating || in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return in, err
		}
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if _, err := models.ParseRole(string(in.Role)); err != nil {
		return in, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return in, nil
}

// Create adds an account. Role defaults to USER.
func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	in, err := normalizeUserInput(in, true)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.client.doRequest(ctx, http.MethodPost, "/admin/users", nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update modifies an account. An empty password leaves it unchanged.
func (s *UserService) Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error) {
	in, err := normalizeUserInput(in, false)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.client.doRequest(ctx, http.MethodPut, idPath("/admin/users/%s", id), nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, http.MethodDelete, idPath("/admin/users/%s", id), nil, nil, nil)
}

// ToggleStatus enables a disabled account or disables an active one.
func (s *UserService) ToggleStatus(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.client.doRequest(ctx, http.MethodPatch, idPath("/admin/users/%s/toggle-status", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangeRole assigns role to an account.
func (s *UserService) ChangeRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	role, err := models.ParseRole(string(role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var user models.User
	body := map[string]models.Role{"role": role}
	if err := s.client.doRequest(ctx, http.MethodPatch, idPath("/admin/users/%s/role", id), nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
