package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// VideosList pages through the published catalog.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Info("listing published videos", "search", cmd.String("search"), "pages", cmd.Int("pages"), "all", cmd.Bool("all"))

	res, err := collect(ctx, r, cmd, r.services.Videos.Published)
	if res == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("showing the pages loaded before the failure", "error", err)
	}

	if cmd.Bool("cache") {
		if r.cache == nil {
			r.logger.Warn("local database unavailable, skipping cache")
		} else {
			cached := r.exporter.Cache("videos", res.Items)
			r.logger.Info("cached videos", "count", cached)
		}
	}

	if werr := writeList(r, cmd, res, formatter.VideoTable("Videos", res.Items), "videos"); werr != nil {
		return werr
	}
	return err
}

// VideosFeatured lists featured videos.
func (r *Runner) VideosFeatured(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	videos, err := r.services.Videos.Featured(ctx)
	if err != nil {
		return fmt.Errorf("failed to load featured videos: %w", err)
	}

	res := &tasks.CollectResult[models.Video]{Items: videos, Pages: 1, TotalElements: len(videos), Complete: true}
	return writeList(r, cmd, res, formatter.VideoTable("Featured", videos), "featured videos")
}

// VideosPlay opens a video's media URL in the system browser.
//
// The local cache is checked first; otherwise the published catalog is paged until the video is found.
func (r *Runner) VideosPlay(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	v, err := r.lookupVideo(ctx, id)
	if err != nil {
		return err
	}
	if v.Src == "" {
		return fmt.Errorf("%w: %q has no media file", shared.ErrInvalidArgument, v.Title)
	}

	target := r.services.Videos.MediaURL(services.MediaVideo, v.Src)
	r.logger.Info("opening video", "id", v.ID, "title", v.Title)
	if err := r.openURL(target); err != nil {
		r.writePlain("Could not open a browser. Open this URL to play the video:\n%s\n", target)
		return err
	}
	return r.writePlain("▶ Opening %q (%s)\n", v.Title, shared.FormatDuration(v.Duration))
}

func (r *Runner) lookupVideo(ctx context.Context, id int64) (models.Video, error) {
	key := strconv.FormatInt(id, 10)
	if r.cache != nil {
		if cached, err := r.cache.Get(key); err == nil && cached.Src != "" {
			r.logger.Debug("found video in cache", "id", id, "source", cached.Source)
			return cached.Video, nil
		}
	}
	return find(ctx, r, r.services.Videos.Published, key, shared.ErrVideoNotFound)
}

// VideosExport writes the published catalog to a file.
func (r *Runner) VideosExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	opts, err := r.exportOpts(cmd, "Videos")
	if err != nil {
		return err
	}
	opts.Source = "videos"

	ctrl := newController(r, r.services.Videos.Published)
	return r.runExport(func(progress chan<- tasks.ProgressUpdate) (*tasks.ExportResult, error) {
		return r.exporter.ExportVideos(ctx, ctrl, cmd.String("search"), progress, opts)
	})
}

// VideosCached lists videos stored in the local cache. It works offline.
func (r *Runner) VideosCached(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: local database unavailable, run 'vidx setup'", shared.ErrServiceUnavailable)
	}

	videos, err := r.cache.List(map[string]any{
		"search": cmd.String("search"),
		"source": cmd.String("source"),
		"limit":  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, true)
	}
	if len(videos) == 0 {
		return r.writePlain("No cached videos\n")
	}

	r.writePlain("Found %d cached videos:\n\n", len(videos))
	for i, v := range videos {
		r.writePlain("%d. %s\n", i+1, v.Title)
		r.writePlain("   ID: %d\n", v.ID)
		r.writePlain("   Duration: %s\n", shared.FormatDuration(v.Duration))
		r.writePlain("   Seen in: %s\n", v.Source)
		r.writePlain("   Cached: %s\n", v.CachedAt.Format("2006-01-02 15:04"))
		r.writePlain("\n")
	}
	return nil
}
