// package services defines clients for the video backend's HTTP API
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

const (
	MinPasswordLength = 6
	MinFullNameLength = 2
)

// Authenticator covers account registration and sign-in.
type Authenticator interface {
	Signup(ctx context.Context, in models.Signup) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	ChangePassword(ctx context.Context, current, next string) (string, error)
}

// Catalog lists published videos. Published has the shape of a pager query.
type Catalog interface {
	Published(ctx context.Context, req models.PageRequest) (*models.Page[models.Video], error)
	Featured(ctx context.Context) ([]models.Video, error)
	MediaURL(kind MediaKind, src string) string
}

// Watchlist manages the signed-in user's favorites.
type Watchlist interface {
	List(ctx context.Context, req models.PageRequest) (*models.Page[models.Video], error)
	Add(ctx context.Context, videoID int64) error
	Remove(ctx context.Context, videoID int64) error
}

// AdminUsers manages accounts. Requires the admin role.
type AdminUsers interface {
	List(ctx context.Context, req models.PageRequest) (*models.Page[models.User], error)
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	ToggleStatus(ctx context.Context, id int64) (*models.User, error)
	ChangeRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
}

// AdminVideos manages the catalog. Requires the admin role.
type AdminVideos interface {
	AdminList(ctx context.Context, req models.PageRequest) (*models.Page[models.Video], error)
	Stats(ctx context.Context) (*models.VideoStats, error)
	SetPublished(ctx context.Context, id int64, published bool) (*models.Video, error)
	Delete(ctx context.Context, id int64) error
}

var (
	_ Authenticator = (*AuthService)(nil)
	_ Catalog       = (*VideoService)(nil)
	_ AdminVideos   = (*VideoService)(nil)
	_ Watchlist     = (*WatchlistService)(nil)
	_ AdminUsers    = (*UserService)(nil)
)

// MediaKind selects the file namespace for media URLs.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
)

// Services bundles every backend client over one [Client].
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Videos    *VideoService
	Watchlist *WatchlistService
}

// New creates all backend clients sharing c.
func New(c *Client) *Services {
	return &Services{
		Auth:      NewAuthService(c),
		Users:     NewUserService(c),
		Videos:    NewVideoService(c),
		Watchlist: NewWatchlistService(c),
	}
}

func validateEmail(email string) (string, error) {
	email = shared.NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return "", fmt.Errorf("%w: %q is not a valid email", shared.ErrInvalidInput, email)
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

func validateFullName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinFullNameLength {
		return "", fmt.Errorf("%w: full name must be at least %d characters", shared.ErrInvalidInput, MinFullNameLength)
	}
	return name, nil
}

func escape(s string) string {
	return url.PathEscape(s)
}
