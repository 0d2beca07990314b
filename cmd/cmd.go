// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// uploadCommand submits a ZIP archive to the server.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "upload",
		Aliases: []string{"up"},
		Usage:   "Upload a ZIP archive as a new album",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "archive",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress progress output",
			},
		},
		Action: r.Upload,
	}
}

// albumsCommand handles album and article enumeration
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"al"},
		Usage:   "Album operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all albums on the server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.Albums,
			},
			{
				Name:  "articles",
				Usage: "List article groups within an album",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "album",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.Articles,
			},
		},
	}
}

// filesCommand lists file records
func filesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "List file records, grouped and ordered for presentation",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "album",
			},
			&cli.StringArg{
				Name: "article",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "List every record on the server (ignores album/article)",
			},
		},
		Action: r.Files,
	}
}

// exportCommand requests an xlsx link export
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Request an xlsx export of public links",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "album",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "article",
				Usage: "Narrow the export to one article group",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Layout: in_row (one link per row) or in_cell (joined into one cell)",
				Value: "in_row",
			},
			&cli.StringFlag{
				Name:  "separator",
				Usage: "Separator for in_cell layout",
				Value: ", ",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
		},
		Action: r.Export,
	}
}

// adminCommand groups server-side maintenance operations
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Server-side catalog maintenance",
		Commands: []*cli.Command{
			{
				Name:      "publish",
				Usage:     "Mark a file as published",
				Arguments: []cli.Argument{&cli.StringArg{Name: "filename"}},
				Action:    r.Publish,
			},
			{
				Name:      "unpublish",
				Usage:     "Remove a file from publication",
				Arguments: []cli.Argument{&cli.StringArg{Name: "filename"}},
				Action:    r.Unpublish,
			},
			{
				Name:      "delete-album",
				Usage:     "Delete an album and all of its files",
				Arguments: []cli.Argument{&cli.StringArg{Name: "album"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.DeleteAlbum,
			},
			{
				Name:  "delete-article",
				Usage: "Delete one article group from an album",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "album"},
					&cli.StringArg{Name: "article"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.DeleteArticle,
			},
			{
				Name:   "sync",
				Usage:  "Reconcile the server index with its filesystem",
				Action: r.SyncCatalog,
			},
			{
				Name:      "cleanup-thumbnails",
				Usage:     "Drop server-side cached thumbnails for an album",
				Arguments: []cli.Argument{&cli.StringArg{Name: "album"}},
				Action:    r.CleanupThumbnails,
			},
		},
	}
}

// snapshotCommand dumps the full catalog state
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Dump the full catalog state as JSON",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the snapshot to a file instead of stdout",
			},
		},
		Action: r.Snapshot,
	}
}

// prefetchCommand fills the local thumbnail cache
func prefetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "prefetch",
		Usage: "Download an album's thumbnails into the local cache",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "album",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "article",
				Usage: "Narrow the prefetch to one article group",
			},
		},
		Action: r.PrefetchThumbnails,
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive catalog browser",
		Action: r.TUI,
	}
}
