package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AdminUsersList pages through accounts.
func (r *Runner) AdminUsersList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	res, err := collect(ctx, r, cmd, r.services.Users.List)
	if res == nil {
		return err
	}
	if werr := writeList(r, cmd, res, formatter.UserTable("Users", res.Items), "users"); werr != nil {
		return werr
	}
	return err
}

// AdminUsersExport writes accounts to a file.
func (r *Runner) AdminUsersExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	opts, err := r.exportOpts(cmd, "Users")
	if err != nil {
		return err
	}

	ctrl := newController(r, r.services.Users.List)
	return r.runExport(func(progress chan<- tasks.ProgressUpdate) (*tasks.ExportResult, error) {
		return r.exporter.ExportUsers(ctx, ctrl, cmd.String("search"), progress, opts)
	})
}

// AdminUsersCreate adds an account.
func (r *Runner) AdminUsersCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	u, err := r.services.Users.Create(ctx, models.UserInput{
		FullName: cmd.String("name"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
		Role:     models.Role(cmd.String("role")),
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return r.writePlain("✓ Created %s <%s> (ID %d, %s)\n", u.FullName, u.Email, u.ID, u.Role)
}

// AdminUsersUpdate changes an account. Flags left unset keep their current values.
func (r *Runner) AdminUsersUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	current, err := find(ctx, r, r.services.Users.List, strconv.FormatInt(id, 10), shared.ErrInvalidArgument)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	in := models.UserInput{
		FullName: current.FullName,
		Email:    current.Email,
		Password: cmd.String("password"),
		Role:     current.Role,
	}
	if cmd.IsSet("name") {
		in.FullName = cmd.String("name")
	}
	if cmd.IsSet("email") {
		in.Email = cmd.String("email")
	}
	if cmd.IsSet("role") {
		in.Role = models.Role(cmd.String("role"))
	}

	u, err := r.services.Users.Update(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return r.writePlain("✓ Updated %s <%s> (%s)\n", u.FullName, u.Email, u.Role)
}

// otherUserID parses the id argument and rejects the signed-in account.
func (r *Runner) otherUserID(cmd *cli.Command) (int64, error) {
	id, err := idArg(cmd)
	if err != nil {
		return 0, err
	}
	if r.session.Current().IsUser(models.User{ID: id}) {
		return 0, fmt.Errorf("%w: you cannot change your own account", shared.ErrInvalidArgument)
	}
	return id, nil
}

// AdminUsersDelete removes an account.
func (r *Runner) AdminUsersDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := r.otherUserID(cmd)
	if err != nil {
		return err
	}

	if err := r.services.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	return r.writePlain("✓ Deleted account %d\n", id)
}

// AdminUsersToggle enables or disables an account.
func (r *Runner) AdminUsersToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := r.otherUserID(cmd)
	if err != nil {
		return err
	}

	u, err := r.services.Users.ToggleStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", id, err)
	}
	return r.writePlain("✓ %s is now %s\n", u.FullName, u.Status())
}

// AdminUsersRole changes an account's role.
func (r *Runner) AdminUsersRole(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := r.otherUserID(cmd)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(cmd.StringArg("role"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	u, err := r.services.Users.ChangeRole(ctx, id, role)
	if err != nil {
		return fmt.Errorf("failed to change role of account %d: %w", id, err)
	}
	return r.writePlain("✓ %s is now %s\n", u.FullName, u.Role)
}

// AdminVideosList pages through the catalog, drafts included.
func (r *Runner) AdminVideosList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	res, err := collect(ctx, r, cmd, r.services.Videos.AdminList)
	if res == nil {
		return err
	}
	if werr := writeList(r, cmd, res, formatter.VideoTable("Catalog", res.Items), "videos"); werr != nil {
		return werr
	}
	return err
}

// AdminVideosStats prints catalog totals.
func (r *Runner) AdminVideosStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	stats, err := r.services.Videos.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load video stats: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Catalog")
	r.writePlain("Total videos: %d\n", stats.TotalVideos)
	r.writePlain("Published: %d\n", stats.PublishedVideos)
	r.writePlain("Drafts: %d\n", stats.Drafts())
	return r.writePlain("Total duration: %s\n", shared.FormatTotalDuration(stats.TotalDuration))
}

func (r *Runner) setPublished(ctx context.Context, cmd *cli.Command, published bool) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	v, err := r.services.Videos.SetPublished(ctx, id, published)
	if err != nil {
		return fmt.Errorf("failed to update video %d: %w", id, err)
	}
	if v.Published {
		return r.writePlain("✓ %q is now published\n", v.Title)
	}
	return r.writePlain("✓ %q is now a draft\n", v.Title)
}

// AdminVideosPublish publishes a video.
func (r *Runner) AdminVideosPublish(ctx context.Context, cmd *cli.Command) error {
	return r.setPublished(ctx, cmd, true)
}

// AdminVideosUnpublish moves a video back to drafts.
func (r *Runner) AdminVideosUnpublish(ctx context.Context, cmd *cli.Command) error {
	return r.setPublished(ctx, cmd, false)
}

// AdminVideosDelete removes a video from the catalog and the local cache.
func (r *Runner) AdminVideosDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	if err := r.services.Videos.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete video %d: %w", id, err)
	}
	if r.cache != nil {
		if err := r.cache.Delete(strconv.FormatInt(id, 10)); err != nil {
			r.logger.Debug("video was not cached", "id", id, "error", err)
		}
	}
	return r.writePlain("✓ Deleted video %d\n", id)
}
