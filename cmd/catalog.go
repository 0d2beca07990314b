package main

import (
	"context"
	"fmt"

	"github.com/piclinks/piclinks/internal/shared"
	"github.com/urfave/cli/v3"
)

// Albums lists all albums on the server.
func (r *Runner) Albums(ctx context.Context, cmd *cli.Command) error {
	albums, err := r.catalog.Albums(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	if len(albums) == 0 {
		r.writePlain("No albums on the server\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Albums (%d)", len(albums)))
	for _, name := range albums {
		r.writePlain("  %s\n", name)
	}
	return nil
}

// Articles lists the article groups of one album.
func (r *Runner) Articles(ctx context.Context, cmd *cli.Command) error {
	album := cmd.StringArg("album")
	if album == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	articles, err := r.catalog.Articles(ctx, album)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(articles, false)
	}

	if len(articles) == 0 {
		r.writePlain("Album '%s' has no articles\n", album)
		return nil
	}

	for _, article := range articles {
		r.writePlain("  %s\n", article)
	}
	return nil
}

// Files lists file records. With --all it prints the server's flat record
// set; otherwise it shows one album grouped by article, each group in
// filename-suffix order.
func (r *Runner) Files(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("all") {
		records, err := r.catalog.Files(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(records, cmd.Bool("pretty"))
		}
		for _, rec := range records {
			r.writePlain("  %-40s %-20s article %s\n", rec.Filename, rec.AlbumName, rec.ArticleNumber)
		}
		return nil
	}

	album := cmd.StringArg("album")
	if album == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}
	article := cmd.StringArg("article")

	view, _, err := r.catalog.FilesFor(ctx, album, article)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}

	if view.Empty() {
		r.writePlain("Album '%s' has no files\n", album)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Album '%s' (%d files)", album, view.Len()))
	for _, art := range view.Articles {
		group := view.Grouped[art]
		r.writePlain("\nArticle %s (%d files)\n", art, len(group))
		for _, rec := range group {
			mark := " "
			if rec.Published {
				mark = "✓"
			}
			r.writePlain("  %s %-40s %s\n", mark, rec.Filename, rec.PublicLink)
		}
	}
	return nil
}
