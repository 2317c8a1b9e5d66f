package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

func newController[T models.Identifiable](r *Runner, query pager.Query[T]) *pager.Controller[T] {
	return pager.New(query, pager.Options[T]{
		PageSize:    r.config.Pager.PageSize,
		MoreRetries: r.config.Pager.MoreRetries,
		Logger:      r.logger,
	})
}

// collect loads the pages selected by --search, --pages and --all.
//
// When a later page fails, the pages loaded before it are returned with the error.
func collect[T models.Identifiable](ctx context.Context, r *Runner, cmd *cli.Command, query pager.Query[T]) (*tasks.CollectResult[T], error) {
	pages := max(cmd.Int("pages"), 1)
	if cmd.Bool("all") {
		pages = 0
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	res, err := tasks.Collect(ctx, newController(r, query), cmd.String("search"), progress, tasks.CollectOpts{MaxPages: pages})
	close(progress)
	<-done
	return res, err
}

// find pages through query until the item with key is loaded.
func find[T models.Identifiable](ctx context.Context, r *Runner, query pager.Query[T], key string, notFound error) (T, error) {
	ctrl := newController(r, query)
	if err := ctrl.Reload(ctx, ""); err != nil {
		var zero T
		return zero, err
	}

	for {
		s := ctrl.State()
		if item, ok := lo.Find(s.Items, func(item T) bool { return item.Key() == key }); ok {
			return item, nil
		}
		if !s.HasMore() {
			var zero T
			return zero, fmt.Errorf("%w: %s", notFound, key)
		}
		if err := ctrl.LoadMore(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}

// idArg parses the positional id argument as a backend record ID.
func idArg(cmd *cli.Command) (int64, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive number, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// writeList prints collected items as a numbered table, or as JSON with --json.
func writeList[T any](r *Runner, cmd *cli.Command, res *tasks.CollectResult[T], table formatter.Table, noun string) error {
	if cmd.Bool("json") {
		return r.writeJSON(res.Items, true)
	}

	if len(res.Items) == 0 {
		if q := cmd.String("search"); q != "" {
			return r.writePlain("No %s match %q\n", noun, q)
		}
		return r.writePlain("No %s yet\n", noun)
	}

	if _, err := r.output.Write(table.Text()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if res.Complete {
		return r.writePlainln("Showing all %d %s", len(res.Items), noun)
	}
	return r.writePlainln("Showing %d of %d %s (use --pages or --all for more)", len(res.Items), res.TotalElements, noun)
}

// runExport prints export progress the way long-running commands do and returns the result.
func (r *Runner) runExport(run func(progress chan<- tasks.ProgressUpdate) (*tasks.ExportResult, error)) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPage:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CacheItems:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.WriteExport:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := run(progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("File: %s\n", result.Path)
	r.writePlain("Items: %d across %d pages\n", result.Count, result.Pages)
	if result.Cached > 0 {
		r.writePlain("Cached: %d videos\n", result.Cached)
	}
	if !result.Complete {
		r.writePlain("Stopped before the end of the list; use --pages 0 to export everything\n")
	}
	return nil
}

// exportOpts reads the export flags.
func (r *Runner) exportOpts(cmd *cli.Command, title string) (tasks.ExportOpts, error) {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return tasks.ExportOpts{}, err
	}

	pages := cmd.Int("pages")
	if pages < 0 {
		pages = r.config.Export.MaxPages
	}

	return tasks.ExportOpts{
		Format:    format,
		Path:      cmd.String("output"),
		Title:     title,
		MaxPages:  pages,
		RateLimit: r.config.Export.RateLimit,
	}, nil
}
