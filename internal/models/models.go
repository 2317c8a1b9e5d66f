// package models defines the data model for the video client
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Identifiable is implemented by every record shown in a paginated list.
//
// Key returns the stable identity used to update or remove an item in place.
type Identifiable interface {
	Key() string
}

// Repository defines the interface for local data access operations.
// Implementations handle database interactions for specific record types.
type Repository[T any] interface {
	Upsert(record T) error                     // Upsert inserts or replaces a record
	Get(id string) (T, error)                  // Get retrieves a record by its ID
	Delete(id string) error                    // Delete removes a record by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all records matching the given criteria
}

// Page is one page of a paginated backend listing.
type Page[T any] struct {
	Items         []T `json:"content"`
	Index         int `json:"number"`
	Size          int `json:"size"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}

// Last reports whether no page follows this one.
func (p Page[T]) Last() bool {
	return p.Index >= p.TotalPages-1
}

// PageRequest is the query sent for one page.
//
// Search is already trimmed; an empty Search means no filter.
type PageRequest struct {
	Page    int
	Size    int
	Search  string
	Filters map[string]string
}

// Role is an account's privilege level.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Toggle returns the other role.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// User is an account as seen by the admin console.
type User struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) Key() string { return strconv.FormatInt(u.ID, 10) }

// Status returns "active" or "disabled".
func (u User) Status() string {
	if u.Active {
		return "active"
	}
	return "disabled"
}

// Video is a catalog entry.
type Video struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"` // seconds
	Src         string `json:"src,omitempty"`
	Poster      string `json:"poster,omitempty"`
	Published   bool   `json:"published"`
	Featured    bool   `json:"featured,omitempty"`
	InWatchlist bool   `json:"isInWatchlist"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (v Video) Key() string { return strconv.FormatInt(v.ID, 10) }

// CachedVideo is a [Video] persisted locally after being seen in a list.
type CachedVideo struct {
	Video
	Source   string    // list the video was seen in, e.g. "home" or "favorites"
	CachedAt time.Time
}

// VideoStats summarizes the catalog for the admin console.
type VideoStats struct {
	TotalVideos     int `json:"totalVideos"`
	PublishedVideos int `json:"publishedVideos"`
	TotalDuration   int `json:"totalDuration"` // seconds
}

// Drafts returns the number of unpublished videos.
func (s VideoStats) Drafts() int {
	return s.TotalVideos - s.PublishedVideos
}

// UserInput is the body for creating or updating an account.
//
// Password is required on create and ignored when empty on update.
type UserInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup is the registration body.
type Signup struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// MessageResponse is the body of most mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// CurrentUser is the signed-in account and its bearer token.
type CurrentUser struct {
	SessionID string
	ID        int64
	Email     string
	FullName  string
	Role      Role
	Token     string
	Expiry    time.Time
	CreatedAt time.Time
}

// IsAdmin reports whether the account has the admin role.
func (c *CurrentUser) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// IsUser reports whether u is the signed-in account.
func (c *CurrentUser) IsUser(u User) bool {
	return c != nil && c.ID == u.ID
}

// NewCurrentUser builds the session record for a login response.
func NewCurrentUser(sessionID string, resp AuthResponse) *CurrentUser {
	return &CurrentUser{
		SessionID: sessionID,
		ID:        resp.ID,
		Email:     resp.Email,
		FullName:  resp.FullName,
		Role:      resp.Role,
		Token:     resp.Token,
		CreatedAt: time.Now(),
	}
}
