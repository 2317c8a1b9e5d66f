package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSignup registers an account. The backend emails a verification link.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	msg, err := r.services.Auth.Signup(ctx, models.Signup{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		FullName: cmd.String("name"),
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	r.writePlain("✓ %s\n", messageOr(msg, "Account created"))
	r.writePlain("Check your inbox, then run 'vidx auth verify <token>'\n")
	return nil
}

// AuthLogin signs in and stores the session for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	resp, err := r.services.Auth.Login(ctx, models.Credentials{Email: email, Password: cmd.String("password")})
	if err != nil {
		var apiErr *shared.APIError
		if errors.As(err, &apiErr) && apiErr.NotVerified() {
			r.writePlain("✗ Your email address is not verified.\n")
			r.writePlain("Run 'vidx auth resend --email %s' to get a new verification link.\n", shared.NormalizeEmail(email))
			return fmt.Errorf("%w: %v", shared.ErrNotVerified, err)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	u, err := r.session.SignIn(*resp)
	if err != nil {
		return err
	}

	r.logger.Info("signed in", "user", u.Email, "role", u.Role)
	return r.writePlain("✓ Signed in as %s (%s)\n", u.Email, u.Role)
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.SignedIn() {
		return r.writePlain("Not signed in\n")
	}
	if err := r.session.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the signed-in account.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	u := r.session.Current()
	if u == nil {
		return r.writePlain("Authentication: ✗ Not signed in\nBackend: %s\n", r.config.API.BaseURL)
	}

	r.writePlain("Authentication: ✓ Signed in\n")
	r.writePlain("Name: %s\n", u.FullName)
	r.writePlain("Email: %s\n", u.Email)
	r.writePlain("Role: %s\n", u.Role)
	if !u.CreatedAt.IsZero() {
		r.writePlain("Since: %s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return r.writePlain("Backend: %s\n", r.config.API.BaseURL)
}

// AuthVerify confirms an email address with the token from the verification email.
func (r *Runner) AuthVerify(ctx context.Context, cmd *cli.Command) error {
	msg, err := r.services.Auth.VerifyEmail(ctx, cmd.StringArg("token"))
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	return r.writePlain("✓ %s\n", messageOr(msg, "Email verified, you can now sign in"))
}

// AuthResend requests a new verification email.
func (r *Runner) AuthResend(ctx context.Context, cmd *cli.Command) error {
	msg, err := r.services.Auth.ResendVerification(ctx, cmd.String("email"))
	if err != nil {
		return fmt.Errorf("resend failed: %w", err)
	}
	return r.writePlain("✓ %s\n", messageOr(msg, "Verification email sent"))
}

// AuthForgot requests a password reset email.
func (r *Runner) AuthForgot(ctx context.Context, cmd *cli.Command) error {
	msg, err := r.services.Auth.ForgotPassword(ctx, cmd.String("email"))
	if err != nil {
		return fmt.Errorf("password reset request failed: %w", err)
	}
	return r.writePlain("✓ %s\n", messageOr(msg, "Password reset email sent"))
}

// AuthReset sets a new password with a reset token.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	password := cmd.String("password")
	if password != cmd.String("confirm") {
		return fmt.Errorf("%w: passwords do not match", shared.ErrInvalidInput)
	}

	msg, err := r.services.Auth.ResetPassword(ctx, cmd.String("token"), password)
	if err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	return r.writePlain("✓ %s\n", messageOr(msg, "Password updated, you can now sign in"))
}

// AuthPassword changes the signed-in user's password.
func (r *Runner) AuthPassword(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	msg, err := r.services.Auth.ChangePassword(ctx, cmd.String("current"), cmd.String("new"))
	if err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}
	return r.writePlain("✓ %s\n", messageOr(msg, "Password changed"))
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
