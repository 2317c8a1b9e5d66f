package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/samber/lo"
)

// tabAction handles the keys specific to the active tab.
func (m *Model) tabAction(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.active {
	case HomeTab, FavoritesTab:
		p := lo.Ternary(m.active == HomeTab, m.home, m.favorites)
		switch {
		case key.Matches(msg, m.keys.play):
			return m.play(p), true
		case key.Matches(msg, m.keys.favorite):
			return m.toggleFavorite(p), true
		}

	case UsersTab:
		switch {
		case key.Matches(msg, m.keys.status):
			return m.toggleUserStatus(), true
		case key.Matches(msg, m.keys.role):
			return m.toggleUserRole(), true
		case key.Matches(msg, m.keys.remove):
			return m.deleteUser(), true
		}

	case CatalogTab:
		switch {
		case key.Matches(msg, m.keys.play):
			return m.play(m.catalog), true
		case key.Matches(msg, m.keys.publish):
			return m.togglePublished(), true
		case key.Matches(msg, m.keys.remove):
			return m.deleteVideo(), true
		}
	}
	return nil, false
}

// play opens the selected video's media URL in the system browser.
func (m *Model) play(p *pane[models.Video]) tea.Cmd {
	v, ok := p.Selected()
	if !ok {
		return nil
	}
	if v.Src == "" {
		m.setError(fmt.Sprintf("%q has no media file.", v.Title))
		return nil
	}

	target := m.backend.Catalog.MediaURL(services.MediaVideo, v.Src)
	return func() tea.Msg {
		return actionDoneMsg(actionDone{
			tab:  p.id,
			note: fmt.Sprintf("Opening %q in your browser", v.Title),
			fail: "Could not open the video.",
			err:  m.open(target),
		})
	}
}

// toggleFavorite flips the watchlist flag before the request completes and reverts it on failure.
// Removing from the favorites tab drops the item right away.
func (m *Model) toggleFavorite(p *pane[models.Video]) tea.Cmd {
	v, ok := p.Selected()
	if !ok {
		return nil
	}

	was, id := v.InWatchlist, v.Key()
	dropped := p == m.favorites && was
	if dropped {
		p.ctrl.Remove(id)
	} else {
		p.ctrl.Update(id, func(x *models.Video) { x.InWatchlist = !was })
	}
	p.Sync(false)

	other := lo.Ternary(p == m.home, m.favorites, m.home)
	return func() tea.Msg {
		now, err := services.Toggle(m.ctx, m.backend.Watchlist, v.ID, was)
		return actionDoneMsg(actionDone{
			tab:  p.id,
			note: lo.Ternary(now, fmt.Sprintf("Added %q to favorites", v.Title), fmt.Sprintf("Removed %q from favorites", v.Title)),
			fail: "Could not update favorites.",
			err:  err,
			revert: func() tea.Cmd {
				if dropped {
					return p.Reload()
				}
				p.ctrl.Update(id, func(x *models.Video) { x.InWatchlist = was })
				p.Sync(false)
				return nil
			},
			after: func() tea.Cmd {
				if other.ctrl.Update(id, func(x *models.Video) { x.InWatchlist = now }) {
					other.Sync(false)
				}
				if p == m.home {
					m.favorites.Invalidate()
				}
				return nil
			},
		})
	}
}

// selectedOther returns the selected account unless it is the signed-in one.
func (m *Model) selectedOther() (models.User, bool) {
	u, ok := m.users.Selected()
	if !ok {
		return u, false
	}
	if m.session.Current().IsUser(u) {
		m.setError("You cannot change your own account from here.")
		return u, false
	}
	return u, true
}

func (m *Model) userMutation(fail string, run func() (*models.User, error), note func(*models.User) string) tea.Cmd {
	return func() tea.Msg {
		updated, err := run()
		a := actionDone{tab: UsersTab, fail: fail, err: err, after: m.users.Reload}
		if err == nil {
			a.note = note(updated)
		}
		return actionDoneMsg(a)
	}
}

func (m *Model) toggleUserStatus() tea.Cmd {
	u, ok := m.selectedOther()
	if !ok {
		return nil
	}
	return m.userMutation("Could not update the account.",
		func() (*models.User, error) { return m.backend.Users.ToggleStatus(m.ctx, u.ID) },
		func(updated *models.User) string { return fmt.Sprintf("%s is now %s", u.FullName, updated.Status()) },
	)
}

func (m *Model) toggleUserRole() tea.Cmd {
	u, ok := m.selectedOther()
	if !ok {
		return nil
	}
	role := u.Role.Toggle()
	return m.userMutation("Could not change the role.",
		func() (*models.User, error) { return m.backend.Users.ChangeRole(m.ctx, u.ID, role) },
		func(*models.User) string { return fmt.Sprintf("%s is now %s", u.FullName, role) },
	)
}

func (m *Model) deleteUser() tea.Cmd {
	u, ok := m.selectedOther()
	if !ok {
		return nil
	}
	m.confirm = &confirmation{
		prompt: fmt.Sprintf("Delete %s (%s)?", u.FullName, u.Email),
		run: m.userMutation("Could not delete the account.",
			func() (*models.User, error) { return nil, m.backend.Users.Delete(m.ctx, u.ID) },
			func(*models.User) string { return fmt.Sprintf("Deleted %s", u.FullName) },
		),
	}
	return nil
}

// togglePublished flips the publish flag before the request completes and reverts it on failure.
func (m *Model) togglePublished() tea.Cmd {
	v, ok := m.catalog.Selected()
	if !ok {
		return nil
	}

	id, next := v.Key(), !v.Published
	m.catalog.ctrl.Update(id, func(x *models.Video) { x.Published = next })
	m.catalog.Sync(false)

	return func() tea.Msg {
		_, err := m.backend.Videos.SetPublished(m.ctx, v.ID, next)
		return actionDoneMsg(actionDone{
			tab:  CatalogTab,
			note: fmt.Sprintf("%q is now %s", v.Title, lo.Ternary(next, "published", "a draft")),
			fail: "Could not update the video.",
			err:  err,
			revert: func() tea.Cmd {
				m.catalog.ctrl.Update(id, func(x *models.Video) { x.Published = !next })
				m.catalog.Sync(false)
				return nil
			},
			after: func() tea.Cmd {
				m.home.Invalidate()
				return m.loadStats()
			},
		})
	}
}

func (m *Model) deleteVideo() tea.Cmd {
	v, ok := m.catalog.Selected()
	if !ok {
		return nil
	}
	m.confirm = &confirmation{
		prompt: fmt.Sprintf("Delete %q?", v.Title),
		run: func() tea.Msg {
			err := m.backend.Videos.Delete(m.ctx, v.ID)
			return actionDoneMsg(actionDone{
				tab:  CatalogTab,
				note: fmt.Sprintf("Deleted %q", v.Title),
				fail: "Could not delete the video.",
				err:  err,
				after: func() tea.Cmd {
					m.home.Invalidate()
					m.favorites.Invalidate()
					return tea.Batch(m.catalog.Reload(), m.loadStats())
				},
			})
		},
	}
	return nil
}
