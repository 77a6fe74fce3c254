// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles Spotify OAuth operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check whether the cached token is still valid",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// monitorCommand runs the station polling loop
func monitorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "monitor",
		Aliases: []string{"run"},
		Usage:   "Poll the station feed and curate the playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Seconds between polling cycles (overrides config)",
			},
			&cli.FloatFlag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Similarity threshold in [0,1] (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Disable history database recording",
			},
		},
		Action: r.Monitor,
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the user's playlists",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlaylistList,
			},
			{
				Name:  "find",
				Usage: "Fuzzy-find a playlist by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlaylistFind,
			},
			{
				Name:  "create",
				Usage: "Create a new private playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
						Value:   "Curated by airlift.",
					},
				},
				Action: r.PlaylistCreate,
			},
		},
	}
}

// historyCommand inspects and exports recorded curation decisions
func historyCommand(r *Runner) *cli.Command {
	limitFlag := &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of events",
		Value:   50,
	}

	return &cli.Command{
		Name:  "history",
		Usage: "Curation history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show recent curation decisions",
				Flags: []cli.Flag{
					configFlag(),
					limitFlag,
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Filter by event kind (e.g. track_added, no_match)",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export curation history",
				Flags: []cli.Flag{
					configFlag(),
					limitFlag,
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}
