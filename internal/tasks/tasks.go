// package tasks implements multi-page operations on top of paginated lists.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/time/rate"
)

// VideoCacher persists videos seen while paging. Implemented by repositories.VideoCacheAdapter.
type VideoCacher interface {
	CacheVideo(source string, v models.Video) error
}

// CollectOpts configures [Collect].
type CollectOpts struct {
	MaxPages  int     // Stop after this many pages (default: all)
	RateLimit float64 // Page requests per second (default: unlimited)
}

// CollectResult is the list accumulated by [Collect].
type CollectResult[T any] struct {
	Items         []T
	Pages         int  // Pages fetched
	TotalElements int  // Size of the full list reported by the backend
	Complete      bool // No page follows the last one fetched
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Collect reloads c for query and keeps loading pages until the list is exhausted or opts.MaxPages is reached.
//
// A failing page stops collection; the items loaded so far are returned along with the error.
func Collect[T models.Identifiable](
	ctx context.Context,
	c *pager.Controller[T],
	query string,
	progress chan<- ProgressUpdate,
	opts CollectOpts,
) (*CollectResult[T], error) {
	if c == nil {
		return nil, fmt.Errorf("%w: list controller not initialized", shared.ErrServiceUnavailable)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := func(pages int) *CollectResult[T] {
		s := c.State()
		return &CollectResult[T]{
			Items:         s.Items,
			Pages:         pages,
			TotalElements: s.TotalElements,
			Complete:      s.Phase == pager.Idle && !s.HasMore(),
		}
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if err := c.Reload(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to load first page: %w", err)
	}

	pages := 1
	for {
		s := c.State()
		sendProgress(progress, fetchPageUpdate(pages, max(s.TotalPages, 1), len(s.Items), s.TotalElements))

		if !s.HasMore() || (opts.MaxPages > 0 && pages >= opts.MaxPages) {
			return result(pages), nil
		}

		if err := limiter.Wait(ctx); err != nil {
			return result(pages), err
		}
		if err := c.LoadMore(ctx); err != nil {
			return result(pages), fmt.Errorf("failed to load page %d: %w", s.PageIndex+2, err)
		}
		pages++
	}
}

// cacheVideos stores videos through cacher and returns how many were stored.
//
// Cache failures are logged and skipped so they never abort an export.
func cacheVideos(cacher VideoCacher, source string, videos []models.Video, progress chan<- ProgressUpdate, logger *log.Logger) int {
	if cacher == nil || len(videos) == 0 {
		return 0
	}

	sendProgress(progress, cacheItemsUpdate(0, len(videos)))

	cached := 0
	for _, v := range videos {
		if err := cacher.CacheVideo(source, v); err != nil {
			logger.Warn("failed to cache video", "id", v.ID, "error", err)
			continue
		}
		cached++
	}
	return cached
}
