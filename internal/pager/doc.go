// Package pager implements incremental, searchable lists over paginated backend queries.
//
// # Controller
//
// A [Controller] owns one list: its items, pagination metadata, current search and [Phase].
// Every fetch is an explicit [Request] carrying a sequence number. Only the result of the latest
// request is applied, so a slow response for an old search can never overwrite a newer one.
//
//	Idle ──Reload──▶ LoadingFirstPage ──ok──▶ Idle
//	                                  └─err─▶ Errored (items cleared, query kept)
//	Idle ──LoadMore (HasMore)──▶ LoadingMore ──ok──▶ Idle (items appended)
//	                                         └─err─▶ Errored (items kept)
//	Errored ──Retry──▶ the failed kind again
//
// Event loops use the two-phase API: BeginReload / BeginLoadMore / BeginRetry, then Fetch in a
// goroutine, then Apply. Blocking callers use Reload, LoadMore, Retry and ClearSearch.
//
// # Adapters
//
// [Debouncer] collapses keystrokes into one search after a quiet interval ([DefaultDebounce]).
// [ScrollTrigger] asks for the next page once the viewport is within a threshold of the end ([DefaultScrollThreshold]).
package pager
