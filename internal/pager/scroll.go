package pager

import "github.com/desertthunder/vidx/internal/models"

// DefaultScrollThreshold is the distance from the bottom, in scroll units, that triggers the next page.
const DefaultScrollThreshold = 200

// Viewport describes a scroll position in any consistent unit (pixels, lines, rows).
type Viewport struct {
	Offset  int // distance scrolled from the top
	Height  int // visible extent
	Content int // total extent of the rendered list
}

// Remaining returns the extent below the visible area.
func (v Viewport) Remaining() int {
	return v.Content - (v.Offset + v.Height)
}

// ScrollTrigger loads the next page when the viewport nears the end of the list.
//
// It is level-triggered: every scroll event near the bottom asks for the next page,
// and the controller's loading guard turns repeats into no-ops.
type ScrollTrigger[T models.Identifiable] struct {
	Threshold  int
	controller *Controller[T]
}

// NewScrollTrigger binds a trigger to c. A negative threshold selects [DefaultScrollThreshold].
func NewScrollTrigger[T models.Identifiable](c *Controller[T], threshold int) *ScrollTrigger[T] {
	if threshold < 0 {
		threshold = DefaultScrollThreshold
	}
	return &ScrollTrigger[T]{Threshold: threshold, controller: c}
}

// NearBottom reports whether at most Threshold units remain below the viewport.
func (s *ScrollTrigger[T]) NearBottom(v Viewport) bool {
	return v.Remaining() <= s.Threshold
}

// OnScroll returns the next-page request to dispatch, or false when nothing should load.
func (s *ScrollTrigger[T]) OnScroll(v Viewport) (Request, bool) {
	if !s.NearBottom(v) {
		return Request{}, false
	}
	st := s.controller.State()
	if st.Loading() || !st.HasMore() {
		return Request{}, false
	}
	return s.controller.BeginLoadMore()
}
