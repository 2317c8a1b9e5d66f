package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageLoaded MsgKind = iota
	MsgSearchChanged
	MsgActionDone
	MsgStatsLoaded
	MsgSessionChanged
)

type pageLoaded struct {
	tab   int
	kind  pager.Kind
	apply func() bool
}

type searchChanged struct {
	tab   int
	query string
}

// actionDone reports a finished mutation. revert runs on failure and after on success,
// both on the update loop.
type actionDone struct {
	tab    int
	note   string
	fail   string
	err    error
	revert func() tea.Cmd
	after  func() tea.Cmd
}

type statsLoaded struct {
	stats *models.VideoStats
	err   error
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]. apply commits the fetched page on the update loop.
func pageLoadedMsg(tab int, kind pager.Kind, apply func() bool) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{tab, kind, apply}}
}

// searchChangedMsg is the constructor for [MsgSearchChanged]
func searchChangedMsg(tab int, query string) Msg {
	return Msg{kind: MsgSearchChanged, data: searchChanged{tab, query}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(a actionDone) Msg {
	return Msg{kind: MsgActionDone, data: a}
}

// statsLoadedMsg is the constructor for [MsgStatsLoaded]
func statsLoadedMsg(stats *models.VideoStats, err error) Msg {
	return Msg{kind: MsgStatsLoaded, data: statsLoaded{stats, err}}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]
func sessionChangedMsg(u *models.CurrentUser) Msg {
	return Msg{kind: MsgSessionChanged, data: u}
}
