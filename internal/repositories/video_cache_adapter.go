package repositories

import (
	"time"

	"github.com/desertthunder/vidx/internal/models"
)

// VideoCacheAdapter implements tasks.VideoCacher using [VideoCacheRepository].
//
// Caching a video that is already stored refreshes its row.
type VideoCacheAdapter struct {
	repo *VideoCacheRepository
}

// NewVideoCacheAdapter creates a new VideoCacheAdapter with the given repository
func NewVideoCacheAdapter(repo *VideoCacheRepository) *VideoCacheAdapter {
	return &VideoCacheAdapter{repo: repo}
}

// CacheVideo stores v as seen in the list named source.
func (a *VideoCacheAdapter) CacheVideo(source string, v models.Video) error {
	return a.repo.Upsert(&models.CachedVideo{Video: v, Source: source, CachedAt: time.Now()})
}
