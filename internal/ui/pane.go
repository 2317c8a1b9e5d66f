package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/samber/lo"
)

// listPane is the part of a [pane] the model drives without knowing its item type.
type listPane interface {
	Title() string
	Query() string
	EnsureLoaded() tea.Cmd
	Invalidate()
	Reload() tea.Cmd
	Retry() tea.Cmd
	Search(query string) tea.Cmd
	ClearSearch() tea.Cmd
	Sync(reset bool)
	Navigate(msg tea.Msg) tea.Cmd
	Scroll(down bool) tea.Cmd
	Searching() bool
	Focus() tea.Cmd
	Blur()
	Submit()
	UpdateInput(msg tea.KeyMsg) tea.Cmd
	SetSize(width, height int)
	View(spin string) string
	Close()
}

// pane is one searchable, incrementally loaded list.
//
// Controller state changes happen on the bubbletea update loop; only [pager.Controller.Fetch] runs in commands.
type pane[T models.Identifiable] struct {
	id       int
	title    string
	noun     string
	ctx      context.Context
	ctrl     *pager.Controller[T]
	trigger  *pager.ScrollTrigger[T]
	debounce *pager.Debouncer
	input    textinput.Model
	list     list.Model
	rows     int // lines per list entry
	render   func(T) list.Item
	loaded   bool
}

var _ listPane = (*pane[models.Video])(nil)

func newPane[T models.Identifiable](
	ctx context.Context,
	id int,
	title, noun string,
	query pager.Query[T],
	render func(T) list.Item,
	events chan<- tea.Msg,
	opts Options,
) *pane[T] {
	ctrl := pager.New(query, pager.Options[T]{
		PageSize:    opts.PageSize,
		MoreRetries: opts.MoreRetries,
		Logger:      opts.Logger,
	})

	emit := func(q string) {
		select {
		case events <- searchChangedMsg(id, q):
		case <-ctx.Done():
		}
	}
	var debounceOpts []pager.DebounceOption
	if opts.AfterFunc != nil {
		debounceOpts = append(debounceOpts, pager.WithAfterFunc(opts.AfterFunc))
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search " + noun
	input.CharLimit = 100

	return &pane[T]{
		id:       id,
		title:    title,
		noun:     noun,
		ctx:      ctx,
		ctrl:     ctrl,
		trigger:  pager.NewScrollTrigger(ctrl, opts.ScrollLines),
		debounce: pager.NewDebouncer(opts.Debounce, emit, debounceOpts...),
		input:    input,
		list:     l,
		rows:     delegate.Height() + delegate.Spacing(),
		render:   render,
	}
}

func (p *pane[T]) Title() string { return p.title }

func (p *pane[T]) Query() string { return p.ctrl.State().Query }

func (p *pane[T]) fetch(req pager.Request) tea.Cmd {
	p.loaded = true
	return func() tea.Msg {
		res := p.ctrl.Fetch(p.ctx, req)
		return pageLoadedMsg(p.id, req.Kind, func() bool { return p.ctrl.Apply(res) })
	}
}

// EnsureLoaded loads the first page unless a request was already issued.
func (p *pane[T]) EnsureLoaded() tea.Cmd {
	if p.loaded {
		return nil
	}
	return p.Reload()
}

// Invalidate makes the next [pane.EnsureLoaded] reload the list.
func (p *pane[T]) Invalidate() { p.loaded = false }

func (p *pane[T]) Reload() tea.Cmd {
	return p.fetch(p.ctrl.BeginReload(p.ctrl.State().Query))
}

// Retry repeats the failed fetch, or reloads when nothing failed.
func (p *pane[T]) Retry() tea.Cmd {
	if req, ok := p.ctrl.BeginRetry(); ok {
		return p.fetch(req)
	}
	return p.Reload()
}

func (p *pane[T]) Search(query string) tea.Cmd {
	return p.fetch(p.ctrl.BeginReload(query))
}

// ClearSearch empties the input, cancels any pending edit and reloads without a filter.
func (p *pane[T]) ClearSearch() tea.Cmd {
	p.input.SetValue("")
	p.debounce.Push("")
	p.debounce.Seed("")
	return p.fetch(p.ctrl.BeginClearSearch())
}

// Sync copies the controller's items into the list widget.
func (p *pane[T]) Sync(reset bool) {
	items := p.ctrl.State().Items
	p.list.SetItems(lo.Map(items, func(item T, _ int) list.Item { return p.render(item) }))
	if reset {
		p.list.ResetSelected()
	}
}

// Selected returns the item under the cursor.
func (p *pane[T]) Selected() (T, bool) {
	var zero T
	items := p.ctrl.State().Items
	idx := p.list.Index()
	if idx < 0 || idx >= len(items) {
		return zero, false
	}
	return items[idx], true
}

// viewport measures in lines with the cursor row as the visible area.
func (p *pane[T]) viewport() pager.Viewport {
	return pager.Viewport{
		Offset:  p.list.Index() * p.rows,
		Height:  p.rows,
		Content: len(p.list.Items()) * p.rows,
	}
}

// Navigate forwards msg to the list and loads the next page when the cursor nears the end.
func (p *pane[T]) Navigate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return tea.Batch(cmd, p.onScroll())
}

// Scroll moves the cursor one entry, as a mouse wheel does.
func (p *pane[T]) Scroll(down bool) tea.Cmd {
	if down {
		p.list.CursorDown()
	} else {
		p.list.CursorUp()
	}
	return p.onScroll()
}

func (p *pane[T]) onScroll() tea.Cmd {
	if req, ok := p.trigger.OnScroll(p.viewport()); ok {
		return p.fetch(req)
	}
	return nil
}

func (p *pane[T]) Searching() bool { return p.input.Focused() }

func (p *pane[T]) Focus() tea.Cmd { return p.input.Focus() }

func (p *pane[T]) Blur() { p.input.Blur() }

// Submit stops editing and searches immediately.
func (p *pane[T]) Submit() {
	p.input.Blur()
	p.debounce.Flush()
}

// UpdateInput applies a key to the search box and restarts the debounce interval.
func (p *pane[T]) UpdateInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.debounce.Push(p.input.Value())
	return cmd
}

func (p *pane[T]) SetSize(width, height int) {
	p.list.SetSize(width, height)
	p.input.Width = max(width-4, 10)
}

func (p *pane[T]) View(spin string) string {
	var b strings.Builder
	if p.input.Focused() || p.input.Value() != "" {
		b.WriteString(p.input.View() + "\n\n")
	}
	b.WriteString(p.list.View())
	b.WriteString("\n" + p.footer(spin))
	return b.String()
}

func (p *pane[T]) footer(spin string) string {
	st := p.ctrl.State()
	switch {
	case st.Phase == pager.LoadingFirstPage:
		return fmt.Sprintf("%s Loading %s…", spin, p.noun)
	case st.Phase == pager.LoadingMore:
		return fmt.Sprintf("%s Loading more %s…", spin, p.noun)
	case st.Phase == pager.Errored:
		msg := shared.ErrorMessage(st.Err, fmt.Sprintf("Failed to load %s.", p.noun))
		return styles.err.Render(msg) + " " + styles.help.Render("press r to retry")
	case len(st.Items) == 0 && st.Query != "":
		return styles.muted.Render(fmt.Sprintf("No %s match %q", p.noun, st.Query))
	case len(st.Items) == 0:
		return styles.muted.Render(fmt.Sprintf("No %s yet", p.noun))
	case st.HasMore():
		return styles.muted.Render(fmt.Sprintf("Showing %d of %d %s • scroll for more", len(st.Items), st.TotalElements, p.noun))
	default:
		return styles.muted.Render(fmt.Sprintf("Showing all %d %s", len(st.Items), p.noun))
	}
}

func (p *pane[T]) Close() {
	p.debounce.Close()
}
