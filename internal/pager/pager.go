package pager

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// DefaultPageSize is used when [Options.PageSize] is not set.
const DefaultPageSize = 10

// Phase is the controller's loading state.
type Phase int

const (
	Idle Phase = iota
	LoadingFirstPage
	LoadingMore
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case LoadingFirstPage:
		return "loading_first_page"
	case LoadingMore:
		return "loading_more"
	case Errored:
		return "error"
	default:
		return ""
	}
}

// Kind distinguishes a first-page fetch from an incremental one.
type Kind int

const (
	FirstPage Kind = iota
	NextPage
)

func (k Kind) String() string {
	if k == NextPage {
		return "next_page"
	}
	return "first_page"
}

// Query fetches one page. Implementations fail with errors wrapping [shared.ErrNetwork] or [shared.ErrServer].
type Query[T any] func(ctx context.Context, req models.PageRequest) (*models.Page[T], error)

// Request is a fetch issued by the controller.
//
// Seq increases with every issued request; only a result carrying the latest Seq is applied.
type Request struct {
	Seq  uint64
	Kind Kind
	models.PageRequest
}

// Result is the outcome of fetching a [Request].
type Result[T any] struct {
	Request Request
	Page    *models.Page[T]
	Err     error
}

// State is a snapshot of a controller's list.
type State[T any] struct {
	Items         []T
	PageIndex     int
	TotalPages    int
	TotalElements int
	Query         string
	Phase         Phase
	Err           error
}

// HasMore reports whether another page exists. It is false while the state is [Errored].
func (s State[T]) HasMore() bool {
	if s.Phase == Errored {
		return false
	}
	return s.PageIndex < s.TotalPages-1
}

// Loading reports whether a fetch is in flight.
func (s State[T]) Loading() bool {
	return s.Phase == LoadingFirstPage || s.Phase == LoadingMore
}

// Empty reports a settled list with no items.
func (s State[T]) Empty() bool {
	return s.Phase == Idle && len(s.Items) == 0
}

// Options configures a [Controller].
type Options[T any] struct {
	PageSize    int               // Items per page (default: [DefaultPageSize])
	Filters     map[string]string // Fixed scope filters sent with every request
	MoreRetries int               // Extra attempts for a failing next-page fetch
	Logger      *log.Logger
	OnChange    func(State[T]) // Called with a snapshot after every state change
}

// Controller is an incremental list bound to one [Query].
//
// It is safe for concurrent use. The Begin* methods change state and return the request to fetch,
// [Controller.Fetch] performs the I/O without holding any lock, and [Controller.Apply] commits the result.
// Reload, LoadMore, Retry and ClearSearch combine the three for callers that can block.
type Controller[T models.Identifiable] struct {
	mu       sync.Mutex
	query    Query[T]
	size     int
	filters  map[string]string
	retries  int
	logger   *log.Logger
	onChange func(State[T])

	state  State[T]
	seq    uint64
	failed Kind
}

// New creates a [Controller] in the [Idle] state with no items.
func New[T models.Identifiable](query Query[T], opts Options[T]) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
		opts.Logger.SetLevel(log.WarnLevel)
	}
	if opts.MoreRetries < 0 {
		opts.MoreRetries = 0
	}

	return &Controller[T]{
		query:    query,
		size:     opts.PageSize,
		filters:  maps.Clone(opts.Filters),
		retries:  opts.MoreRetries,
		logger:   opts.Logger,
		onChange: opts.OnChange,
	}
}

// PageSize returns the number of items requested per page.
func (c *Controller[T]) PageSize() int {
	return c.size
}

// State returns a copy of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// BeginReload resets the list for query and returns the first-page request.
//
// The query is trimmed; an empty query means no search filter. Any request issued earlier becomes stale.
func (c *Controller[T]) BeginReload(query string) Request {
	c.mu.Lock()
	c.state = State[T]{Query: strings.TrimSpace(query), Phase: LoadingFirstPage}
	req := c.issue(FirstPage, 0)
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	return req
}

// BeginClearSearch is [Controller.BeginReload] with an empty query.
func (c *Controller[T]) BeginClearSearch() Request {
	return c.BeginReload("")
}

// BeginLoadMore returns the request for the next page.
//
// It returns false without changing anything while a fetch is in flight or when no page follows.
func (c *Controller[T]) BeginLoadMore() (Request, bool) {
	c.mu.Lock()
	if c.state.Loading() || !c.state.HasMore() {
		c.mu.Unlock()
		return Request{}, false
	}
	c.state.Phase = LoadingMore
	req := c.issue(NextPage, c.state.PageIndex+1)
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	return req, true
}

// BeginRetry re-issues the fetch that moved the controller to [Errored].
//
// A failed first page reloads the same query. A failed next page requests it again and keeps the loaded items.
func (c *Controller[T]) BeginRetry() (Request, bool) {
	c.mu.Lock()
	if c.state.Phase != Errored {
		c.mu.Unlock()
		return Request{}, false
	}

	if c.failed == FirstPage {
		query := c.state.Query
		c.mu.Unlock()
		return c.BeginReload(query), true
	}

	c.state.Phase = LoadingMore
	c.state.Err = nil
	req := c.issue(NextPage, c.state.PageIndex+1)
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	return req, true
}

// issue must be called with c.mu held.
func (c *Controller[T]) issue(kind Kind, page int) Request {
	c.seq++
	req := Request{
		Seq:  c.seq,
		Kind: kind,
		PageRequest: models.PageRequest{
			Page:    page,
			Size:    c.size,
			Search:  c.state.Query,
			Filters: maps.Clone(c.filters),
		},
	}
	c.logger.Debug("issued page request", "seq", req.Seq, "kind", kind, "page", page, "query", req.Search)
	return req
}

// Fetch runs the query for req. It does not touch controller state.
func (c *Controller[T]) Fetch(ctx context.Context, req Request) Result[T] {
	attempts := 1
	if req.Kind == NextPage {
		attempts += c.retries
	}

	var (
		page *models.Page[T]
		err  error
	)
	for i := range attempts {
		if i > 0 {
			c.logger.Debug("retrying page request", "seq", req.Seq, "page", req.Page, "attempt", i+1, "error", err)
		}

		page, err = c.query(ctx, req.PageRequest)
		if err == nil && page == nil {
			err = fmt.Errorf("%w: empty page response", shared.ErrServer)
		}
		if err == nil || ctx.Err() != nil {
			break
		}
	}

	return Result[T]{Request: req, Page: page, Err: err}
}

// Apply commits res and reports whether it was accepted.
//
// Results for any request other than the latest one issued are discarded.
func (c *Controller[T]) Apply(res Result[T]) bool {
	applied, _ := c.apply(res)
	return applied
}

func (c *Controller[T]) apply(res Result[T]) (bool, error) {
	c.mu.Lock()
	if res.Request.Seq != c.seq || !c.state.Loading() {
		latest := c.seq
		c.mu.Unlock()
		c.logger.Debug("discarded stale page", "seq", res.Request.Seq, "latest", latest, "page", res.Request.Page)
		return false, shared.ErrStaleResponse
	}

	err := res.Err
	if err == nil && res.Page.Index != res.Request.Page {
		err = fmt.Errorf("%w: requested page %d, received %d", shared.ErrPageMismatch, res.Request.Page, res.Page.Index)
	}

	if err != nil {
		c.state.Phase = Errored
		c.state.Err = err
		c.failed = res.Request.Kind
		if res.Request.Kind == FirstPage {
			c.state.Items = nil
		}
	} else {
		switch res.Request.Kind {
		case FirstPage:
			c.state.Items = slices.Clone(res.Page.Items)
		case NextPage:
			c.state.Items = append(c.state.Items, res.Page.Items...)
		}
		c.state.PageIndex = res.Page.Index
		c.state.TotalPages = res.Page.TotalPages
		c.state.TotalElements = res.Page.TotalElements
		c.state.Phase = Idle
		c.state.Err = nil
	}
	snap := c.snapshot()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("page request failed", "seq", res.Request.Seq, "kind", res.Request.Kind, "page", res.Request.Page, "error", err)
	} else {
		c.logger.Debug("applied page", "seq", res.Request.Seq, "page", res.Page.Index, "items", len(snap.Items), "total", snap.TotalElements)
	}
	c.notify(snap)
	return true, err
}

// Reload fetches the first page for query, replacing the current items.
//
// It returns [shared.ErrStaleResponse] when a newer request superseded this one before it completed.
func (c *Controller[T]) Reload(ctx context.Context, query string) error {
	return c.run(ctx, c.BeginReload(query))
}

// ClearSearch reloads with no search filter.
func (c *Controller[T]) ClearSearch(ctx context.Context) error {
	return c.Reload(ctx, "")
}

// LoadMore appends the next page. It is a no-op returning nil while loading or when no page follows.
func (c *Controller[T]) LoadMore(ctx context.Context) error {
	req, ok := c.BeginLoadMore()
	if !ok {
		return nil
	}
	return c.run(ctx, req)
}

// Retry re-issues the failed fetch, see [Controller.BeginRetry].
func (c *Controller[T]) Retry(ctx context.Context) error {
	req, ok := c.BeginRetry()
	if !ok {
		return shared.ErrNothingToRetry
	}
	return c.run(ctx, req)
}

func (c *Controller[T]) run(ctx context.Context, req Request) error {
	_, err := c.apply(c.Fetch(ctx, req))
	return err
}

// Remove drops the item with the given key and reports whether it was present.
func (c *Controller[T]) Remove(key string) bool {
	c.mu.Lock()
	idx := slices.IndexFunc(c.state.Items, func(item T) bool { return item.Key() == key })
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.state.Items = slices.Delete(slices.Clone(c.state.Items), idx, idx+1)
	if c.state.TotalElements > 0 {
		c.state.TotalElements--
	}
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// Update applies fn to the item with the given key and reports whether it was present.
func (c *Controller[T]) Update(key string, fn func(*T)) bool {
	c.mu.Lock()
	idx := slices.IndexFunc(c.state.Items, func(item T) bool { return item.Key() == key })
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	items := slices.Clone(c.state.Items)
	fn(&items[idx])
	c.state.Items = items
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// snapshot must be called with c.mu held.
func (c *Controller[T]) snapshot() State[T] {
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s
}

func (c *Controller[T]) notify(s State[T]) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
