package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/session"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/samber/lo"
)

// Tab positions. The admin tabs exist only for admin accounts.
const (
	HomeTab = iota
	FavoritesTab
	UsersTab
	CatalogTab
)

// DefaultScrollLines is the distance from the end of a list, in lines, that loads the next page.
const DefaultScrollLines = 6

// Backend is the set of services the TUI calls.
type Backend struct {
	Catalog   services.Catalog
	Watchlist services.Watchlist
	Users     services.AdminUsers
	Videos    services.AdminVideos
}

// NewBackend adapts a [services.Services] bundle.
func NewBackend(s *services.Services) Backend {
	return Backend{Catalog: s.Videos, Watchlist: s.Watchlist, Users: s.Users, Videos: s.Videos}
}

// Options configures a [Model].
type Options struct {
	PageSize    int
	MoreRetries int
	Debounce    time.Duration
	ScrollLines int // default: [DefaultScrollLines]
	Logger      *log.Logger
	OpenURL     func(string) error // default: [shared.OpenBrowser]
	AfterFunc   pager.AfterFunc    // timer factory for search debouncing
}

type confirmation struct {
	prompt string
	run    tea.Cmd
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	backend Backend
	session *session.Session
	logger  *log.Logger
	open    func(string) error

	home      *pane[models.Video]
	favorites *pane[models.Video]
	users     *pane[models.User]
	catalog   *pane[models.Video]
	tabs      []listPane
	active    int

	events      chan tea.Msg
	unsubscribe func()
	stats       *models.VideoStats
	status      string
	statusErr   bool
	confirm     *confirmation
	signedOut   bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

// NewModel creates a new TUI model for the signed-in account in sess.
func NewModel(ctx context.Context, b Backend, sess *session.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
		opts.Logger.SetLevel(log.WarnLevel)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.ScrollLines <= 0 {
		opts.ScrollLines = DefaultScrollLines
	}

	m := &Model{
		ctx:     ctx,
		backend: b,
		session: sess,
		logger:  opts.Logger,
		open:    opts.OpenURL,
		events:  make(chan tea.Msg, 16),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		help:    help.New(),
		keys:    newKeyMap(),
	}

	video := func(v models.Video) list.Item { return videoItem{video: v} }
	m.home = newPane(ctx, HomeTab, "Home", "videos", b.Catalog.Published, video, m.events, opts)
	m.favorites = newPane(ctx, FavoritesTab, "Favorites", "favorites", b.Watchlist.List, video, m.events, opts)
	m.tabs = []listPane{m.home, m.favorites}

	if sess.IsAdmin() {
		user := func(u models.User) list.Item { return userItem{user: u, self: sess.Current().IsUser(u)} }
		draft := func(v models.Video) list.Item { return videoItem{video: v, admin: true} }
		m.users = newPane(ctx, UsersTab, "Users", "users", b.Users.List, user, m.events, opts)
		m.catalog = newPane(ctx, CatalogTab, "Catalog", "videos", b.Videos.AdminList, draft, m.events, opts)
		m.tabs = append(m.tabs, m.users, m.catalog)
	}

	m.unsubscribe = sess.Subscribe(func(u *models.CurrentUser) {
		select {
		case m.events <- sessionChangedMsg(u):
		default:
		}
	})
	return m
}

// Init starts the spinner, loads the first tab and listens for search and session events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tabs[m.active].EnsureLoaded(), m.waitForEvent())
}

// Close stops pending search timers and the session subscription.
func (m *Model) Close() {
	for _, t := range m.tabs {
		t.Close()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for _, t := range m.tabs {
			t.SetSize(msg.Width-2, msg.Height-9)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if m.signedOut || m.confirm != nil || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			return m, m.tabs[m.active].Scroll(true)
		case tea.MouseButtonWheelUp:
			return m, m.tabs[m.active].Scroll(false)
		}
		return m, nil

	case Msg:
		return m, m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgPageLoaded:
		d := msg.data.(pageLoaded)
		if d.apply() {
			m.tabs[d.tab].Sync(d.kind == pager.FirstPage)
		}
		return nil

	case MsgSearchChanged:
		d := msg.data.(searchChanged)
		return tea.Batch(m.tabs[d.tab].Search(d.query), m.waitForEvent())

	case MsgActionDone:
		d := msg.data.(actionDone)
		if d.err != nil {
			m.logger.Warn("action failed", "tab", d.tab, "error", d.err)
			m.setError(shared.ErrorMessage(d.err, d.fail))
			if d.revert != nil {
				return d.revert()
			}
			return nil
		}
		m.setStatus(d.note)
		if d.after != nil {
			return d.after()
		}
		return nil

	case MsgStatsLoaded:
		d := msg.data.(statsLoaded)
		if d.err != nil {
			m.setError(shared.ErrorMessage(d.err, "Failed to load video stats."))
			return nil
		}
		m.stats = d.stats
		return nil

	case MsgSessionChanged:
		if u, _ := msg.data.(*models.CurrentUser); u == nil {
			m.signedOut = true
			m.confirm = nil
			m.setError("Your session has ended. Run `vidx auth login` to sign in again.")
		}
		return m.waitForEvent()
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.signedOut {
		if key.Matches(msg, m.keys.quit) {
			return m.quit()
		}
		return nil
	}

	if m.confirm != nil {
		switch {
		case key.Matches(msg, m.keys.yes):
			run := m.confirm.run
			m.confirm = nil
			return run
		case key.Matches(msg, m.keys.no):
			m.confirm = nil
			m.setStatus("Cancelled.")
		}
		return nil
	}

	p := m.tabs[m.active]
	if p.Searching() {
		switch {
		case key.Matches(msg, m.keys.clear):
			p.Blur()
			return p.ClearSearch()
		case key.Matches(msg, m.keys.submit):
			p.Submit()
			return nil
		default:
			return p.UpdateInput(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.next):
		return m.switchTab(1)
	case key.Matches(msg, m.keys.prev):
		return m.switchTab(-1)
	case key.Matches(msg, m.keys.search):
		return p.Focus()
	case key.Matches(msg, m.keys.clear):
		if p.Query() == "" {
			return nil
		}
		return p.ClearSearch()
	case key.Matches(msg, m.keys.reload):
		m.status = ""
		return p.Retry()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	if cmd, ok := m.tabAction(msg); ok {
		return cmd
	}
	return p.Navigate(msg)
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

func (m *Model) switchTab(delta int) tea.Cmd {
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	m.status = ""

	cmds := []tea.Cmd{m.tabs[m.active].EnsureLoaded()}
	if m.active == CatalogTab && m.stats == nil {
		cmds = append(cmds, m.loadStats())
	}
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

// waitForEvent delivers the next search emission or session change.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.backend.Videos.Stats(m.ctx)
		return statsLoadedMsg(stats, err)
	}
}

// View renders the active tab with its header, status line and help.
func (m *Model) View() string {
	if m.signedOut {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(m.status), m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}

	sections := []string{m.renderTabs()}
	if u := m.session.Current(); u != nil {
		sections = append(sections, styles.muted.Render(fmt.Sprintf("Signed in as %s (%s)", u.Email, u.Role)))
	}
	if m.active == CatalogTab && m.stats != nil {
		sections = append(sections, m.renderStats())
	}
	sections = append(sections, "", m.tabs[m.active].View(m.spinner.View()))

	if m.confirm != nil {
		sections = append(sections, styles.warn.Render(m.confirm.prompt+" (y/n)"))
	} else if m.status != "" {
		sections = append(sections, lo.Ternary(m.statusErr, styles.err, styles.ok).Render(m.status))
	}

	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

func (m *Model) renderTabs() string {
	tabs := lo.Map(m.tabs, func(t listPane, i int) string {
		if i == m.active {
			return styles.active.Render(t.Title())
		}
		return styles.tab.Render(t.Title())
	})
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderStats() string {
	s := m.stats
	return styles.muted.Render(fmt.Sprintf(
		"Total: %d • Published: %d • Drafts: %d • Duration: %s",
		s.TotalVideos, s.PublishedVideos, s.Drafts(), shared.FormatTotalDuration(s.TotalDuration),
	))
}
