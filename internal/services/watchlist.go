package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/vidx/internal/models"
)

// WatchlistService implements [Watchlist] against /watchlist.
type WatchlistService struct {
	client *Client
}

// NewWatchlistService creates a [WatchlistService].
func NewWatchlistService(c *Client) *WatchlistService {
	return &WatchlistService{client: c}
}

// List fetches one page of favorites.
func (s *WatchlistService) List(ctx context.Context, req models.PageRequest) (*models.Page[models.Video], error) {
	return fetchPage[models.Video](ctx, s.client, "/watchlist", req)
}

// Add saves a video to favorites.
func (s *WatchlistService) Add(ctx context.Context, videoID int64) error {
	return s.client.doRequest(ctx, http.MethodPost, idPath("/watchlist/%s", videoID), nil, nil, nil)
}

// Remove drops a video from favorites.
func (s *WatchlistService) Remove(ctx context.Context, videoID int64) error {
	return s.client.doRequest(ctx, http.MethodDelete, idPath("/watchlist/%s", videoID), nil, nil, nil)
}

// Toggle adds or removes videoID depending on its current membership and returns the new membership.
func Toggle(ctx context.Context, w Watchlist, videoID int64, inWatchlist bool) (bool, error) {
	if inWatchlist {
		if err := w.Remove(ctx, videoID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := w.Add(ctx, videoID); err != nil {
		return false, err
	}
	return true, nil
}
