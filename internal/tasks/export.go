package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/shared"
)

// ExportOpts contains configuration for list exports.
type ExportOpts struct {
	Format    formatter.Format // Export format: json, csv, markdown, txt
	Path      string           // Output file (default: {source}{ext})
	Title     string           // Heading for markdown and text output
	Source    string           // List name recorded with cached videos
	MaxPages  int              // Stop after this many pages (default: all)
	RateLimit float64          // Page requests per second
}

// ExportResult summarizes a finished export.
type ExportResult struct {
	Path     string
	Count    int
	Pages    int
	Cached   int
	Complete bool
}

// Exporter writes paginated lists to files, optionally caching exported videos.
type Exporter struct {
	cacher VideoCacher
	logger *log.Logger
}

// NewExporter creates an [Exporter]; cacher may be nil.
func NewExporter(cacher VideoCacher, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
		logger.SetLevel(log.WarnLevel)
	}
	return &Exporter{cacher: cacher, logger: logger}
}

func (o *ExportOpts) defaults(source string) {
	if o.Format == "" {
		o.Format = formatter.FormatJSON
	}
	if o.Source == "" {
		o.Source = source
	}
	if o.Title == "" {
		o.Title = o.Source
	}
	if o.Path == "" {
		o.Path = o.Source + o.Format.Ext()
	}
}

// ExportVideos collects every page of c for query and writes them in opts.Format.
func (e *Exporter) ExportVideos(
	ctx context.Context,
	c *pager.Controller[models.Video],
	query string,
	progress chan<- ProgressUpdate,
	opts ExportOpts,
) (*ExportResult, error) {
	opts.defaults("videos")

	collected, err := Collect(ctx, c, query, progress, CollectOpts{MaxPages: opts.MaxPages, RateLimit: opts.RateLimit})
	if err != nil {
		return nil, err
	}

	res, err := e.write(opts, formatter.VideoTable(opts.Title, collected.Items), collected.Items, progress)
	if err != nil {
		return nil, err
	}
	res.Pages, res.Complete = collected.Pages, collected.Complete
	res.Cached = cacheVideos(e.cacher, opts.Source, collected.Items, progress, e.logger)
	return res, nil
}

// ExportUsers collects every page of c for query and writes them in opts.Format.
func (e *Exporter) ExportUsers(
	ctx context.Context,
	c *pager.Controller[models.User],
	query string,
	progress chan<- ProgressUpdate,
	opts ExportOpts,
) (*ExportResult, error) {
	opts.defaults("users")

	collected, err := Collect(ctx, c, query, progress, CollectOpts{MaxPages: opts.MaxPages, RateLimit: opts.RateLimit})
	if err != nil {
		return nil, err
	}

	res, err := e.write(opts, formatter.UserTable(opts.Title, collected.Items), collected.Items, progress)
	if err != nil {
		return nil, err
	}
	res.Pages, res.Complete = collected.Pages, collected.Complete
	return res, nil
}

func (e *Exporter) write(opts ExportOpts, table formatter.Table, data any, progress chan<- ProgressUpdate) (*ExportResult, error) {
	content, err := formatter.Render(opts.Format, table, data)
	if err != nil {
		return nil, err
	}

	path, err := formatter.WriteFile(opts.Path, content)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	e.logger.Info("wrote export", "path", path, "format", opts.Format, "rows", len(table.Rows))
	sendProgress(progress, writeExportUpdate(path, len(table.Rows)))
	return &ExportResult{Path: path, Count: len(table.Rows)}, nil
}

// Cache stores videos seen outside an export and returns how many were stored.
func (e *Exporter) Cache(source string, videos []models.Video) int {
	return cacheVideos(e.cacher, source, videos, nil, e.logger)
}
