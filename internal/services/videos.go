package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
)

// VideoService implements [Catalog] and [AdminVideos] against /videos.
type VideoService struct {
	client *Client
}

// NewVideoService creates a [VideoService].
func NewVideoService(c *Client) *VideoService {
	return &VideoService{client: c}
}

// Published fetches one page of the public feed.
func (s *VideoService) Published(ctx context.Context, req models.PageRequest) (*models.Page[models.Video], error) {
	return fetchPage[models.Video](ctx, s.client, "/videos/published", req)
}

// Featured fetches the featured videos shown above the feed.
func (s *VideoService) Featured(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	if err := s.client.doRequest(ctx, http.MethodGet, "/videos/featured", nil, nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// AdminList fetches one page of all videos, published or not.
func (s *VideoService) AdminList(ctx context.Context, req models.PageRequest) (*models.Page[models.Video], error) {
	return fetchPage[models.Video](ctx, s.client, "/videos/admin", req)
}

// Stats fetches catalog totals.
func (s *VideoService) Stats(ctx context.Context) (*models.VideoStats, error) {
	var stats models.VideoStats
	if err := s.client.doRequest(ctx, http.MethodGet, "/videos/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetPublished publishes or unpublishes a video.
func (s *VideoService) SetPublished(ctx context.Context, id int64, published bool) (*models.Video, error) {
	var video models.Video
	body := map[string]bool{"published": published}
	if err := s.client.doRequest(ctx, http.MethodPatch, idPath("/videos/admin/%s/publish", id), nil, body, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// Delete removes a video.
func (s *VideoService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, http.MethodDelete, idPath("/videos/admin/%s", id), nil, nil, nil)
}

// MediaURL returns the streaming URL for a video file or poster image.
//
// The session token is appended as a query parameter because browsers and players cannot send headers.
// Absolute sources are returned unchanged.
func (s *VideoService) MediaURL(kind MediaKind, src string) string {
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}

	u := s.client.baseURL + "/files/" + string(kind) + "/" + escape(strings.TrimPrefix(src, "/"))
	if s.client.tokens != nil {
		if tok, err := s.client.tokens.Token(); err == nil && tok.Valid() {
			u += "?" + url.Values{"token": {tok.AccessToken}}.Encode()
		}
	}
	return u
}
