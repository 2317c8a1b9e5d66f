package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// VideoCacheRepository implements [models.Repository] for [models.CachedVideo] persistence.
type VideoCacheRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.CachedVideo] = (*VideoCacheRepository)(nil)

// NewVideoCacheRepository creates a new [VideoCacheRepository] with the given database connection
func NewVideoCacheRepository(db *sql.DB) *VideoCacheRepository {
	return &VideoCacheRepository{db: db}
}

const videoColumns = `id, title, description, duration, src, poster, published, featured, in_watchlist, source, created_at, cached_at`

// Upsert inserts the video or refreshes an existing row, restoring it if it was deleted.
func (r *VideoCacheRepository) Upsert(v *models.CachedVideo) error {
	if v.ID <= 0 {
		return fmt.Errorf("%w: video id must be positive", shared.ErrInvalidInput)
	}
	if v.CachedAt.IsZero() {
		v.CachedAt = time.Now()
	}

	query := `
		INSERT INTO video_cache (` + videoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			duration = excluded.duration,
			src = excluded.src,
			poster = excluded.poster,
			published = excluded.published,
			featured = excluded.featured,
			in_watchlist = excluded.in_watchlist,
			source = excluded.source,
			created_at = excluded.created_at,
			cached_at = excluded.cached_at,
			deleted_at = NULL
	`

	_, err := r.db.Exec(query, v.ID, v.Title, v.Description, v.Duration, v.Src, v.Poster,
		v.Published, v.Featured, v.InWatchlist, v.Source, v.CreatedAt, v.CachedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert video: %w", err)
	}
	return nil
}

// Get retrieves a cached video by ID, excluding soft-deleted videos
func (r *VideoCacheRepository) Get(id string) (*models.CachedVideo, error) {
	videoID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: video id %q", shared.ErrInvalidArgument, id)
	}

	query := `SELECT ` + videoColumns + ` FROM video_cache WHERE id = ? AND deleted_at IS NULL`

	v, err := r.scan(r.db.QueryRow(query, videoID))
	if err != nil {
		return nil, notFound(err, shared.ErrVideoNotFound, id)
	}
	return v, nil
}

// Delete soft-deletes a cached video by ID
func (r *VideoCacheRepository) Delete(id string) error {
	videoID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: video id %q", shared.ErrInvalidArgument, id)
	}

	result, err := r.db.Exec(`UPDATE video_cache SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), videoID)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}
	return nil
}

// List retrieves cached videos matching the given criteria, excluding soft-deleted videos.
//
// Supported criteria are "search" (title substring), "source" and "limit".
func (r *VideoCacheRepository) List(criteria map[string]any) ([]*models.CachedVideo, error) {
	query := `SELECT ` + videoColumns + ` FROM video_cache WHERE deleted_at IS NULL`
	args := []any{}

	if search, ok := criteria["search"].(string); ok && search != "" {
		query += " AND title LIKE ? COLLATE NOCASE"
		args = append(args, "%"+search+"%")
	}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY id ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.CachedVideo
	for rows.Next() {
		v, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, nil
}

func (r *VideoCacheRepository) scan(row scanner) (*models.CachedVideo, error) {
	var v models.CachedVideo
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Duration, &v.Src, &v.Poster,
		&v.Published, &v.Featured, &v.InWatchlist, &v.Source, &v.CreatedAt, &v.CachedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
