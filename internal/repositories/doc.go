// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [SessionRepository] : the signed-in account, at most one row
//   - [VideoCacheRepository] : videos seen while paging, searchable offline
//   - [VideoCacheAdapter] : adapts [VideoCacheRepository] for export tasks
//
// Cached videos are soft deleted via deleted_at and excluded from queries by default.
// Caching a video again restores it.
package repositories
