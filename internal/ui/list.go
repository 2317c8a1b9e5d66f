package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/samber/lo"
)

var (
	_ list.Item = videoItem{}
	_ list.Item = userItem{}
)

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
	admin bool // show publish state
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string {
	if i.video.InWatchlist {
		return "★ " + i.video.Title
	}
	return i.video.Title
}
func (i videoItem) Description() string {
	parts := []string{shared.FormatDuration(i.video.Duration)}
	if i.admin {
		parts = append(parts, lo.Ternary(i.video.Published, "published", "draft"))
	}
	if i.video.Featured {
		parts = append(parts, "featured")
	}
	if i.video.Description != "" {
		parts = append(parts, shared.Truncate(i.video.Description, 60))
	}
	return strings.Join(parts, " • ")
}

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user models.User
	self bool
}

func (i userItem) FilterValue() string { return i.user.FullName }
func (i userItem) Title() string {
	if i.self {
		return i.user.FullName + " (you)"
	}
	return i.user.FullName
}
func (i userItem) Description() string {
	return strings.Join([]string{i.user.Email, string(i.user.Role), i.user.Status()}, " • ")
}
