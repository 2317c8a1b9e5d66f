package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// AuthService implements [Authenticator] against the /auth endpoints.
type AuthService struct {
	client *Client
}

// NewAuthService creates an [AuthService].
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

func (s *AuthService) message(ctx context.Context, method, endpoint string, query url.Values, body any) (string, error) {
	var resp models.MessageResponse
	if err := s.client.doRequest(ctx, method, endpoint, query, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Signup registers an account. The backend sends a verification email.
func (s *AuthService) Signup(ctx context.Context, in models.Signup) (string, error) {
	email, err := validateEmail(in.Email)
	if err != nil {
		return "", err
	}
	if err := validatePassword(in.Password); err != nil {
		return "", err
	}
	name, err := validateFullName(in.FullName)
	if err != nil {
		return "", err
	}

	body := models.Signup{Email: email, Password: in.Password, FullName: name}
	return s.message(ctx, http.MethodPost, "/auth/signup", nil, body)
}

// VerifyEmail confirms an account with the token from the verification email.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: verification token", shared.ErrMissingArgument)
	}
	return s.message(ctx, http.MethodGet, "/auth/verify-email", url.Values{"token": {token}}, nil)
}

// Login exchanges credentials for a bearer token.
//
// A 403 for an unverified account is returned as a [shared.APIError] whose NotVerified reports true.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	email, err := validateEmail(creds.Email)
	if err != nil {
		return nil, err
	}
	if creds.Password == "" {
		return nil, fmt.Errorf("%w: password is required", shared.ErrInvalidInput)
	}

	var resp models.AuthResponse
	body := models.Credentials{Email: email, Password: creds.Password}
	if err := s.client.doRequest(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", shared.ErrServer)
	}
	if resp.Email == "" {
		resp.Email = email
	}
	return &resp, nil
}

// ResendVerification sends a new verification email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	email, err := validateEmail(email)
	if err != nil {
		return "", err
	}
	return s.message(ctx, http.MethodPost, "/auth/resend-verification", nil, map[string]string{"email": email})
}

// ForgotPassword sends a password reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email, err := validateEmail(email)
	if err != nil {
		return "", err
	}
	return s.message(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email})
}

// ResetPassword sets a new password using the token from the reset email.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: reset token", shared.ErrMissingArgument)
	}
	if err := validatePassword(newPassword); err != nil {
		return "", err
	}
	body := map[string]string{"token": strings.TrimSpace(token), "newPassword": newPassword}
	return s.message(ctx, http.MethodPost, "/auth/reset-password", nil, body)
}

// ChangePassword changes the signed-in user's password.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) (string, error) {
	if current == "" {
		return "", fmt.Errorf("%w: current password is required", shared.ErrInvalidInput)
	}
	if err := validatePassword(next); err != nil {
		return "", err
	}
	if current == next {
		return "", fmt.Errorf("%w: new password must differ from the current one", shared.ErrInvalidInput)
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return s.message(ctx, http.MethodPost, "/auth/change-password", nil, body)
}
