package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/urfave/cli/v3"
)

// FavoritesList pages through the signed-in user's watchlist.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	res, err := collect(ctx, r, cmd, r.services.Watchlist.List)
	if res == nil {
		return err
	}
	if werr := writeList(r, cmd, res, formatter.VideoTable("Favorites", res.Items), "favorites"); werr != nil {
		return werr
	}
	return err
}

// FavoritesAdd adds a video to the watchlist.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	if err := r.services.Watchlist.Add(ctx, id); err != nil {
		return fmt.Errorf("failed to add video %d to favorites: %w", id, err)
	}
	return r.writePlain("★ Added video %d to favorites\n", id)
}

// FavoritesRemove removes a video from the watchlist.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	if err := r.services.Watchlist.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove video %d from favorites: %w", id, err)
	}
	return r.writePlain("✓ Removed video %d from favorites\n", id)
}
