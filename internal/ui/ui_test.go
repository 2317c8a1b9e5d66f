package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/session"
	tu "github.com/desertthunder/vidx/internal/testing"
)

// manualTimers records debounce timers so tests fire them explicitly.
type manualTimers struct {
	mu  sync.Mutex
	fns []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (mt *manualTimers) after(d time.Duration, f func()) pager.Timer {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.fns = append(mt.fns, f)
	return manualTimer{}
}

// fireLast runs the most recently scheduled timer.
func (mt *manualTimers) fireLast(t *testing.T) {
	t.Helper()
	mt.mu.Lock()
	if len(mt.fns) == 0 {
		mt.mu.Unlock()
		t.Fatal("no debounce timer scheduled")
	}
	f := mt.fns[len(mt.fns)-1]
	mt.mu.Unlock()
	f()
}

type harness struct {
	m       *Model
	backend *tu.Backend
	session *session.Session
	timers  *manualTimers
	opened  []string
	base    string
}

var (
	adminLogin = models.AuthResponse{Token: "token-1", ID: 1, Email: "admin@example.com", FullName: "Admin", Role: models.RoleAdmin}
	userLogin  = models.AuthResponse{Token: "token-2", ID: 2, Email: "user@example.com", FullName: "Regular User", Role: models.RoleUser}
)

func newHarness(t *testing.T, b *tu.Backend, login models.AuthResponse) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := b.Serve(t)
	sess := session.New(nil, nil)
	if _, err := sess.SignIn(login); err != nil {
		t.Fatalf("failed to sign in: %v", err)
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:        server.URL,
		Tokens:         sess,
		OnUnauthorized: func() { sess.Clear() },
	})

	h := &harness{backend: b, session: sess, timers: &manualTimers{}, base: server.URL}
	h.m = NewModel(ctx, NewBackend(services.New(client)), sess, Options{
		PageSize:  10,
		AfterFunc: h.timers.after,
		OpenURL: func(u string) error {
			h.opened = append(h.opened, u)
			return nil
		},
	})
	t.Cleanup(h.m.Close)

	h.m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return h
}

// run executes cmd and feeds its messages back into the model until no command remains.
// Commands that do not finish promptly are event listeners and are left waiting.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(250 * time.Millisecond):
		return
	}

	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(t, c)
		}
	case tea.QuitMsg:
		return
	default:
		_, next := h.m.Update(msg)
		h.run(t, next)
	}
}

func (h *harness) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := h.m.Update(msg)
		h.run(t, cmd)
	}
}

// deliver hands the next queued event to the model.
func (h *harness) deliver(t *testing.T) {
	t.Helper()
	select {
	case msg := <-h.m.events:
		_, cmd := h.m.Update(msg)
		h.run(t, cmd)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	h.run(t, h.m.tabs[h.m.active].EnsureLoaded())
}

func TestModelTabs(t *testing.T) {
	t.Run("admin sees admin tabs", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(3), adminLogin)
		if len(h.m.tabs) != 4 {
			t.Fatalf("expected 4 tabs, got %d", len(h.m.tabs))
		}
		if h.m.Init() == nil {
			t.Error("Init should return a command")
		}
	})

	t.Run("regular user sees two tabs", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(3), userLogin)
		if len(h.m.tabs) != 2 || h.m.users != nil || h.m.catalog != nil {
			t.Fatalf("expected only home and favorites, got %d tabs", len(h.m.tabs))
		}

		h.press(t, "tab", "tab")
		if h.m.active != HomeTab {
			t.Errorf("tab should wrap around, active = %d", h.m.active)
		}
	})
}

func TestModelPaging(t *testing.T) {
	t.Run("initial load", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(25), adminLogin)
		h.load(t)

		st := h.m.home.ctrl.State()
		if len(st.Items) != 10 || st.TotalElements != 25 || st.Phase != pager.Idle {
			t.Fatalf("unexpected state: items=%d total=%d phase=%v", len(st.Items), st.TotalElements, st.Phase)
		}
		if len(h.m.home.list.Items()) != 10 {
			t.Errorf("list widget should show 10 items, got %d", len(h.m.home.list.Items()))
		}
		if view := h.m.View(); !strings.Contains(view, "Showing 10 of 25 videos") {
			t.Errorf("view missing footer, got:\n%s", view)
		}
	})

	t.Run("tab loads only once", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(5), adminLogin)
		h.load(t)
		h.load(t)

		if n := h.backend.Calls("GET /videos/published"); n != 1 {
			t.Errorf("expected 1 request, got %d", n)
		}
	})

	t.Run("scrolling near the end loads more", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(25), adminLogin)
		h.load(t)

		h.press(t, "j", "j", "j", "j", "j", "j")
		if n := len(h.m.home.ctrl.State().Items); n != 10 {
			t.Fatalf("should not load before the threshold, got %d items", n)
		}

		h.press(t, "j")
		if n := len(h.m.home.ctrl.State().Items); n != 20 {
			t.Fatalf("expected 20 items after nearing the end, got %d", n)
		}
		if h.m.home.list.Index() != 7 {
			t.Errorf("cursor should stay in place after appending, got %d", h.m.home.list.Index())
		}
	})

	t.Run("mouse wheel loads more", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(15), adminLogin)
		h.load(t)

		for range 9 {
			_, cmd := h.m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
			h.run(t, cmd)
		}
		if n := len(h.m.home.ctrl.State().Items); n != 15 {
			t.Errorf("expected all 15 items, got %d", n)
		}
	})

	t.Run("failure then retry", func(t *testing.T) {
		b := tu.NewBackend(12)
		h := newHarness(t, b, adminLogin)
		b.FailWith("GET /videos/published", 500)
		h.load(t)

		if st := h.m.home.ctrl.State(); st.Phase != pager.Errored {
			t.Fatalf("expected error phase, got %v", st.Phase)
		}
		if view := h.m.View(); !strings.Contains(view, "injected failure") || !strings.Contains(view, "press r to retry") {
			t.Errorf("view should show the error, got:\n%s", view)
		}

		b.Recover("GET /videos/published")
		h.press(t, "r")
		if st := h.m.home.ctrl.State(); st.Phase != pager.Idle || len(st.Items) != 10 {
			t.Errorf("retry should recover, got phase=%v items=%d", st.Phase, len(st.Items))
		}
	})
}

func TestModelSearch(t *testing.T) {
	t.Run("debounced search reloads", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(25), adminLogin)
		h.load(t)

		h.press(t, "/", "1", "2")
		if !h.m.home.Searching() {
			t.Fatal("search box should be focused")
		}
		if h.backend.Calls("GET /videos/published") != 1 {
			t.Fatal("typing should not fetch before the debounce interval")
		}

		h.timers.fireLast(t)
		h.deliver(t)

		st := h.m.home.ctrl.State()
		if st.Query != "12" || len(st.Items) != 1 || st.Items[0].Title != "Video 12" {
			t.Fatalf("unexpected search result: query=%q items=%v", st.Query, st.Items)
		}
	})

	t.Run("enter searches immediately", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(25), adminLogin)
		h.load(t)

		h.press(t, "/", "2", "5", "enter")
		if h.m.home.Searching() {
			t.Error("enter should leave the search box")
		}
		h.deliver(t)

		if st := h.m.home.ctrl.State(); st.Query != "25" || len(st.Items) != 1 {
			t.Errorf("unexpected search result: query=%q items=%d", st.Query, len(st.Items))
		}
	})

	t.Run("escape clears search", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(25), adminLogin)
		h.load(t)
		h.run(t, h.m.home.Search("12"))

		h.press(t, "/", "esc")
		st := h.m.home.ctrl.State()
		if st.Query != "" || len(st.Items) != 10 {
			t.Errorf("expected unfiltered first page, got query=%q items=%d", st.Query, len(st.Items))
		}
		if h.m.home.input.Value() != "" {
			t.Error("search box should be emptied")
		}
	})
}

func TestModelFavorites(t *testing.T) {
	t.Run("toggle is optimistic", func(t *testing.T) {
		b := tu.NewBackend(3)
		h := newHarness(t, b, adminLogin)
		h.load(t)

		_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
		if !h.m.home.ctrl.State().Items[0].InWatchlist {
			t.Fatal("item should be marked before the request completes")
		}

		h.run(t, cmd)
		if !b.Watching(1) {
			t.Error("backend should record the favorite")
		}
		if h.m.statusErr || !strings.Contains(h.m.status, "Added") {
			t.Errorf("unexpected status %q", h.m.status)
		}
	})

	t.Run("failure reverts", func(t *testing.T) {
		b := tu.NewBackend(3)
		h := newHarness(t, b, adminLogin)
		h.load(t)
		b.FailWith("POST /watchlist/1", 500)

		h.press(t, "f")
		if h.m.home.ctrl.State().Items[0].InWatchlist {
			t.Error("failed toggle should be reverted")
		}
		if !h.m.statusErr || h.m.status != "injected failure" {
			t.Errorf("unexpected status %q", h.m.status)
		}
	})

	t.Run("removing from favorites drops the item", func(t *testing.T) {
		b := tu.NewBackend(3)
		b.Watchlist[1] = true
		b.Watchlist[2] = true
		h := newHarness(t, b, adminLogin)

		h.press(t, "tab")
		if h.m.active != FavoritesTab {
			t.Fatalf("expected favorites tab, active = %d", h.m.active)
		}
		if n := len(h.m.favorites.ctrl.State().Items); n != 2 {
			t.Fatalf("expected 2 favorites, got %d", n)
		}

		h.press(t, "f")
		st := h.m.favorites.ctrl.State()
		if len(st.Items) != 1 || st.Items[0].ID != 2 || st.TotalElements != 1 {
			t.Errorf("expected only video 2 to remain, got %+v", st.Items)
		}
		if b.Watching(1) {
			t.Error("backend should drop the favorite")
		}
	})
}

func TestModelPlay(t *testing.T) {
	h := newHarness(t, tu.NewBackend(3), adminLogin)
	h.load(t)

	h.press(t, "enter")
	if len(h.opened) != 1 {
		t.Fatalf("expected one opened URL, got %v", h.opened)
	}
	if want := h.base + "/files/video/video-1.mp4?token=token-1"; h.opened[0] != want {
		t.Errorf("expected %s, got %s", want, h.opened[0])
	}
}

func TestModelUsers(t *testing.T) {
	open := func(t *testing.T) *harness {
		h := newHarness(t, tu.NewBackend(1), adminLogin)
		h.press(t, "tab", "tab")
		if h.m.active != UsersTab {
			t.Fatalf("expected users tab, active = %d", h.m.active)
		}
		return h
	}

	t.Run("cannot change own account", func(t *testing.T) {
		h := open(t)

		h.press(t, "t")
		if !h.m.statusErr || !strings.Contains(h.m.status, "your own account") {
			t.Errorf("expected self-change guard, got %q", h.m.status)
		}
		if h.backend.Calls("PATCH /admin/users/1/toggle-status") != 0 {
			t.Error("no request should be sent for the signed-in account")
		}
	})

	t.Run("toggle status reloads", func(t *testing.T) {
		h := open(t)

		h.press(t, "j", "t")
		u, _ := h.backend.User(2)
		if !u.Active {
			t.Error("user 2 should be enabled")
		}
		if n := h.backend.Calls("GET /admin/users"); n != 2 {
			t.Errorf("expected a reload after the change, got %d list requests", n)
		}
		if got := h.m.users.ctrl.State().Items[1]; !got.Active {
			t.Errorf("reloaded list should show the change, got %+v", got)
		}
	})

	t.Run("toggle role", func(t *testing.T) {
		h := open(t)

		h.press(t, "j", "a")
		if u, _ := h.backend.User(2); u.Role != models.RoleAdmin {
			t.Errorf("expected ADMIN, got %s", u.Role)
		}
		if h.m.status != "Regular User is now ADMIN" {
			t.Errorf("unexpected status %q", h.m.status)
		}
	})

	t.Run("delete asks for confirmation", func(t *testing.T) {
		h := open(t)

		h.press(t, "j", "d")
		if h.m.confirm == nil {
			t.Fatal("expected a confirmation prompt")
		}
		h.press(t, "n")
		if _, ok := h.backend.User(2); !ok {
			t.Fatal("declining should keep the account")
		}

		h.press(t, "d", "y")
		if _, ok := h.backend.User(2); ok {
			t.Error("confirming should delete the account")
		}
		if n := len(h.m.users.ctrl.State().Items); n != 1 {
			t.Errorf("expected 1 account after reload, got %d", n)
		}
	})
}

func TestModelCatalog(t *testing.T) {
	open := func(t *testing.T, b *tu.Backend) *harness {
		h := newHarness(t, b, adminLogin)
		h.press(t, "tab", "tab", "tab")
		if h.m.active != CatalogTab {
			t.Fatalf("expected catalog tab, active = %d", h.m.active)
		}
		return h
	}

	t.Run("loads stats", func(t *testing.T) {
		h := open(t, tu.NewBackend(2))
		if h.m.stats == nil || h.m.stats.TotalVideos != 2 || h.m.stats.TotalDuration != 180 {
			t.Fatalf("unexpected stats %+v", h.m.stats)
		}
		if view := h.m.View(); !strings.Contains(view, "Total: 2 • Published: 2 • Drafts: 0 • Duration: 3m") {
			t.Errorf("view missing stats, got:\n%s", view)
		}
	})

	t.Run("publish toggle success", func(t *testing.T) {
		b := tu.NewBackend(2)
		h := open(t, b)

		h.press(t, "p")
		if v, _ := b.Video(1); v.Published {
			t.Error("video 1 should be unpublished")
		}
		if h.m.stats.PublishedVideos != 1 {
			t.Errorf("stats should reload, got %+v", h.m.stats)
		}
	})

	t.Run("publish toggle failure reverts", func(t *testing.T) {
		b := tu.NewBackend(2)
		h := open(t, b)
		b.FailWith("PATCH /videos/admin/1/publish", 500)

		_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
		if h.m.catalog.ctrl.State().Items[0].Published {
			t.Fatal("item should be unpublished before the request completes")
		}
		h.run(t, cmd)
		if !h.m.catalog.ctrl.State().Items[0].Published {
			t.Error("failed toggle should be reverted")
		}
	})

	t.Run("delete reloads list and stats", func(t *testing.T) {
		b := tu.NewBackend(2)
		h := open(t, b)

		h.press(t, "d", "y")
		if _, ok := b.Video(1); ok {
			t.Fatal("video should be deleted")
		}
		if n := len(h.m.catalog.ctrl.State().Items); n != 1 {
			t.Errorf("expected 1 video after reload, got %d", n)
		}
		if h.m.stats.TotalVideos != 1 {
			t.Errorf("stats should reload, got %+v", h.m.stats)
		}
	})
}

func TestModelSession(t *testing.T) {
	t.Run("unauthorized response signs out", func(t *testing.T) {
		b := tu.NewBackend(3)
		h := newHarness(t, b, adminLogin)
		b.FailWith("GET /videos/published", 401)
		h.load(t)

		if h.session.SignedIn() {
			t.Fatal("401 should clear the session")
		}
		h.deliver(t)

		if !h.m.signedOut {
			t.Fatal("model should switch to the signed-out view")
		}
		if view := h.m.View(); !strings.Contains(view, "session has ended") {
			t.Errorf("unexpected view:\n%s", view)
		}

		_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		if cmd != nil {
			t.Error("keys other than quit should be ignored when signed out")
		}
	})

	t.Run("quit closes subscriptions", func(t *testing.T) {
		h := newHarness(t, tu.NewBackend(1), adminLogin)

		_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}

		h.session.Clear()
		select {
		case <-h.m.events:
			t.Error("closed model should not receive session events")
		default:
		}
	})
}
