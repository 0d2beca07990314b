package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/piclinks/piclinks/internal/repositories"
	"github.com/piclinks/piclinks/internal/shared"
	"github.com/urfave/cli/v3"
)

// Publish marks a file as published.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	filename := cmd.StringArg("filename")
	if filename == "" {
		return fmt.Errorf("%w: filename", shared.ErrMissingArgument)
	}

	msg, err := r.catalog.Publish(ctx, filename)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s\n", msg)
	return nil
}

// Unpublish removes a file from publication.
func (r *Runner) Unpublish(ctx context.Context, cmd *cli.Command) error {
	filename := cmd.StringArg("filename")
	if filename == "" {
		return fmt.Errorf("%w: filename", shared.ErrMissingArgument)
	}

	msg, err := r.catalog.Unpublish(ctx, filename)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s\n", msg)
	return nil
}

// DeleteAlbum removes an album server-side after confirmation.
func (r *Runner) DeleteAlbum(ctx context.Context, cmd *cli.Command) error {
	album := cmd.StringArg("album")
	if album == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") && !r.confirm(fmt.Sprintf("Delete album '%s' and all of its files?", album)) {
		r.writePlain("Aborted\n")
		return nil
	}

	r.logger.Warn("deleting album", "album", album)
	msg, err := r.catalog.DeleteAlbum(ctx, album)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s\n", msg)
	r.dropLocalThumbnails(album)
	return nil
}

// dropLocalThumbnails removes an album's rows from the local cache so a later
// re-upload under the same name does not serve stale images. Best effort: a
// missing or unmigrated cache database is not an error.
func (r *Runner) dropLocalThumbnails(album string) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return
	}
	defer db.Close()
	if err := shared.RunMigrations(db); err != nil {
		return
	}

	cache := repositories.NewThumbnailCache(db)
	count, err := cache.CountAlbum(album)
	if err != nil || count == 0 {
		return
	}
	if n, err := cache.DeleteAlbum(album); err == nil {
		r.writePlain("  Cleared %d locally cached thumbnails\n", n)
	}
}

// DeleteArticle removes one article group after confirmation.
func (r *Runner) DeleteArticle(ctx context.Context, cmd *cli.Command) error {
	album := cmd.StringArg("album")
	article := cmd.StringArg("article")
	if album == "" || article == "" {
		return fmt.Errorf("%w: album and article", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") && !r.confirm(fmt.Sprintf("Delete article '%s' from album '%s'?", article, album)) {
		r.writePlain("Aborted\n")
		return nil
	}

	r.logger.Warn("deleting article", "album", album, "article", article)
	msg, err := r.catalog.DeleteArticle(ctx, album, article)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s\n", msg)
	return nil
}

// SyncCatalog asks the server to reconcile its index with the filesystem.
func (r *Runner) SyncCatalog(ctx context.Context, cmd *cli.Command) error {
	msg, err := r.catalog.Sync(ctx)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s\n", msg)
	return nil
}

// CleanupThumbnails drops server-side cached thumbnails for an album.
func (r *Runner) CleanupThumbnails(ctx context.Context, cmd *cli.Command) error {
	album := cmd.StringArg("album")
	if album == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	msg, err := r.catalog.CleanupThumbnails(ctx, album)
	if err != nil {
		return err
	}
	r.writePlain("✓ %s\n", msg)
	r.dropLocalThumbnails(album)
	return nil
}

// confirm prompts on stdin for a y/N answer.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
