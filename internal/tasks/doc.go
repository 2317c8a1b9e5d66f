// Package tasks runs multi-page operations over paginated lists with real-time progress reporting.
//
// # Collecting
//
// [Collect] drives a [pager.Controller] through Reload and repeated LoadMore calls until the backend reports
// no further page, optionally capped by [CollectOpts.MaxPages] and throttled by [CollectOpts.RateLimit].
// The controller's own guards apply: a failing page stops collection and the partial list is returned.
//
// # Exporting
//
// [Exporter.ExportVideos] and [Exporter.ExportUsers] collect a list and write it through the formatter
// package as JSON, CSV, Markdown or plain text.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Video Caching
//
// The optional [VideoCacher] interface persists exported videos for offline search.
// Cache failures are logged and skipped so they never abort an export.
package tasks
