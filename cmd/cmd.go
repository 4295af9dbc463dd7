// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "Spotify access token",
		Sources: cli.EnvVars(EnvAccessToken),
	}
}

// authCommand handles the OAuth login flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Obtain a Spotify access token",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize in the browser and print the access token",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "url",
				Usage:  "Print the authorization URL",
				Action: r.AuthURL,
			},
		},
	}
}

// playlistsCommand lists the user's library
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List playlists in your library",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// compareCommand reconciles two playlists
func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "compare",
		Aliases: []string{"diff"},
		Usage:   "Compare the tracks of two playlists",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.StringFlag{
				Name:     "first",
				Usage:    "First playlist (share link in public mode, ID in private mode)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "second",
				Usage:    "Second playlist (share link in public mode, ID in private mode)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "first-mode",
				Usage: "How to read --first: public or private",
				Value: "public",
			},
			&cli.StringFlag{
				Name:  "second-mode",
				Usage: "How to read --second: public or private",
				Value: "public",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, text, md, csv, json",
				Value:   "table",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to a file instead of stdout",
			},
		},
		Action: r.Compare,
	}
}

// coverCommand looks up a playlist cover
func coverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cover",
		Usage: "Print the cover image URL of a playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.StringFlag{
				Name:  "save",
				Usage: "Download the image to this path",
			},
		},
		Action: r.Cover,
	}
}

// serveCommand runs the web app
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the login flow, JSON API and web page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive comparison.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Pick two library playlists and browse the comparison",
		Flags: []cli.Flag{
			tokenFlag(),
		},
		Action: r.TUI,
	}
}

// apiCommand handles raw Web API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct Web API calls for debugging",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					tokenFlag(),
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Show the effective configuration without secrets",
				Action: r.ConfigShow,
			},
		},
	}
}
