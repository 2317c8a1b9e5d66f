// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI shows one tab per paginated list:
//  1. Home : published videos
//  2. Favorites : the signed-in user's watchlist
//  3. Users : account administration (admins only)
//  4. Catalog : every video including drafts, with stats (admins only)
//
// Each tab is a pane that pairs a [pager.Controller] with a search box, a [pager.Debouncer] and a
// [pager.ScrollTrigger]. Controller transitions run on the update loop and only page fetches run in
// commands, so a fetch result is committed through [pager.Controller.Apply] where stale pages are dropped.
// Debounced searches and session changes arrive through a channel, read one at a time by a waiting command.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, /, esc, enter, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
