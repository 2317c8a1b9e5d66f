package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPage Phase = iota
	CacheItems
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case CacheItems:
		return "cache_items"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func fetchPageUpdate(page, totalPages, items, totalItems int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   totalPages,
		Message: fmt.Sprintf("[%d/%d] Loaded %d of %d items", page, totalPages, items, totalItems),
	}
}

func cacheItemsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %d videos...", total),
	}
}

func writeExportUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ Wrote %d items to %s", count, path),
		Data:    path,
	}
}
