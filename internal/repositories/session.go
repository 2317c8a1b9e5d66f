package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// SessionRepository persists the signed-in [models.CurrentUser].
//
// Saving replaces any previous session so the table holds at most one row.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores u as the only session.
func (r *SessionRepository) Save(u *models.CurrentUser) error {
	if u == nil || u.Token == "" {
		return fmt.Errorf("%w: session requires a token", shared.ErrInvalidInput)
	}
	if u.SessionID == "" {
		u.SessionID = shared.GenerateID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sessions (id, user_id, email, full_name, role, token, token_type, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'Bearer', ?, ?, ?)
	`

	return inTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}

		_, err := tx.Exec(query, u.SessionID, u.ID, u.Email, u.FullName, string(u.Role), u.Token,
			nullTime(u.Expiry), u.CreatedAt, time.Now())
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return nil
	})
}

// Load returns the stored session or [shared.ErrSessionNotFound].
func (r *SessionRepository) Load() (*models.CurrentUser, error) {
	query := `
		SELECT id, user_id, email, full_name, role, token, expires_at, created_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var (
		u       models.CurrentUser
		role    string
		expires sql.NullTime
	)

	err := r.db.QueryRow(query).Scan(&u.SessionID, &u.ID, &u.Email, &u.FullName, &role, &u.Token, &expires, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	u.Role = models.Role(role)
	if expires.Valid {
		u.Expiry = expires.Time
	}
	return &u, nil
}

// Delete removes the stored session. Deleting when signed out is not an error.
func (r *SessionRepository) Delete() error {
	if _, err := r.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
