// submodule cmd contains command definitions
package main

import (
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// listFlags are shared by every command that pages through a backend list.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Filter by search text",
		},
		&cli.IntFlag{
			Name:  "pages",
			Usage: "Number of pages to load",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Load every page",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Filter by search text",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: json, csv, markdown, txt",
			Value:   "json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: {list}.{ext})",
		},
		&cli.IntFlag{
			Name:  "pages",
			Usage: "Stop after this many pages (default: export.max_pages, 0 for all)",
			Value: -1,
		},
	}
}

func idArgument() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

func userFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Usage:    "Full name",
			Required: create,
		},
		&cli.StringFlag{
			Name:     "email",
			Usage:    "Email address",
			Required: create,
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "Password (required on create, unchanged when empty on update)",
			Required: create,
		},
		&cli.StringFlag{
			Name:  "role",
			Usage: "ADMIN or USER (default: USER on create, unchanged on update)",
			Value: lo.Ternary(create, "USER", ""),
		},
	}
}

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account registration and sign-in.
func authCommand(r *Runner) *cli.Command {
	emailFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create an account",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringFlag{Name: "name", Usage: "Full name", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
				},
				Action: r.AuthSignup,
			},
			{
				Name:  "login",
				Usage: "Sign in and store the session locally",
				Flags: []cli.Flag{
					emailFlag(),
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in account",
				Action: r.AuthStatus,
			},
			{
				Name:      "verify",
				Usage:     "Verify your email with the token from the verification email",
				Arguments: []cli.Argument{&cli.StringArg{Name: "token"}},
				Action:    r.AuthVerify,
			},
			{
				Name:   "resend",
				Usage:  "Send a new verification email",
				Flags:  []cli.Flag{emailFlag()},
				Action: r.AuthResend,
			},
			{
				Name:   "forgot",
				Usage:  "Send a password reset email",
				Flags:  []cli.Flag{emailFlag()},
				Action: r.AuthForgot,
			},
			{
				Name:  "reset",
				Usage: "Set a new password with the token from the reset email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "Reset token", Required: true},
					&cli.StringFlag{Name: "password", Usage: "New password", Required: true},
					&cli.StringFlag{Name: "confirm", Usage: "New password again", Required: true},
				},
				Action: r.AuthReset,
			},
			{
				Name:  "password",
				Usage: "Change your password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "current", Usage: "Current password", Required: true},
					&cli.StringFlag{Name: "new", Usage: "New password", Required: true},
				},
				Action: r.AuthPassword,
			},
		},
	}
}

// videosCommand handles the published catalog.
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"v"},
		Usage:   "Browse published videos",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List published videos",
				Flags: append(listFlags(), &cli.BoolFlag{
					Name:  "cache",
					Usage: "Store the listed videos in the local cache",
				}),
				Action: r.VideosList,
			},
			{
				Name:   "featured",
				Usage:  "List featured videos",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.VideosFeatured,
			},
			{
				Name:      "play",
				Usage:     "Open a video in the system browser",
				Arguments: idArgument(),
				Action:    r.VideosPlay,
			},
			{
				Name:   "export",
				Usage:  "Export published videos to a file",
				Flags:  exportFlags(),
				Action: r.VideosExport,
			},
			{
				Name:  "cached",
				Usage: "List videos from the local cache",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Filter by title"},
					&cli.StringFlag{Name: "source", Usage: "Only videos seen in this list (videos, favorites, catalog)"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of videos to show", Value: 50},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.VideosCached,
			},
		},
	}
}

// favoritesCommand handles the signed-in user's watchlist.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav", "watchlist"},
		Usage:   "Manage your favorite videos",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite videos",
				Flags:  listFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a video to favorites",
				Arguments: idArgument(),
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a video from favorites",
				Arguments: idArgument(),
				Action:    r.FavoritesRemove,
			},
		},
	}
}

// adminCommand handles account and catalog management. Requires the admin role.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Manage accounts and the video catalog",
		Commands: []*cli.Command{
			{
				Name:  "users",
				Usage: "Manage accounts",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List accounts",
						Flags:  listFlags(),
						Action: r.AdminUsersList,
					},
					{
						Name:   "export",
						Usage:  "Export accounts to a file",
						Flags:  exportFlags(),
						Action: r.AdminUsersExport,
					},
					{
						Name:   "create",
						Usage:  "Create an account",
						Flags:  userFlags(true),
						Action: r.AdminUsersCreate,
					},
					{
						Name:      "update",
						Usage:     "Update an account",
						Arguments: idArgument(),
						Flags:     userFlags(false),
						Action:    r.AdminUsersUpdate,
					},
					{
						Name:      "delete",
						Usage:     "Delete an account",
						Arguments: idArgument(),
						Action:    r.AdminUsersDelete,
					},
					{
						Name:      "toggle",
						Usage:     "Enable or disable an account",
						Arguments: idArgument(),
						Action:    r.AdminUsersToggle,
					},
					{
						Name:      "role",
						Usage:     "Change an account's role",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}, &cli.StringArg{Name: "role"}},
						Action:    r.AdminUsersRole,
					},
				},
			},
			{
				Name:  "videos",
				Usage: "Manage the catalog",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all videos, including drafts",
						Flags:  listFlags(),
						Action: r.AdminVideosList,
					},
					{
						Name:   "stats",
						Usage:  "Show catalog totals",
						Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
						Action: r.AdminVideosStats,
					},
					{
						Name:      "publish",
						Usage:     "Publish a video",
						Arguments: idArgument(),
						Action:    r.AdminVideosPublish,
					},
					{
						Name:      "unpublish",
						Usage:     "Move a video back to drafts",
						Arguments: idArgument(),
						Action:    r.AdminVideosUnpublish,
					},
					{
						Name:      "delete",
						Usage:     "Delete a video",
						Arguments: idArgument(),
						Action:    r.AdminVideosDelete,
					},
				},
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive video browser",
		Action:  r.TUI,
	}
}
