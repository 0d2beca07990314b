package main

import (
	"context"
	"fmt"
	"os"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/shared"
	"github.com/piclinks/piclinks/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Upload submits a ZIP archive and reports the resulting album.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("archive")
	if path == "" {
		return fmt.Errorf("%w: archive path", shared.ErrMissingArgument)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read archive: %w", err)
	}

	selection := catalog.NewSelectionState(nil)
	if err := selection.SetFromDrop(path, info.Size()); err != nil {
		return err
	}
	sel := selection.Current()

	r.logger.Info("starting upload", "archive", sel.Name, "size", sel.Size)
	r.writePlain("Uploading %s...\n", sel.Label())

	engine, closeEngine, err := r.newEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	quiet := cmd.Bool("quiet")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		lastPct := -1
		for update := range progressCh {
			if quiet {
				continue
			}
			switch update.Phase {
			case tasks.UploadArchive:
				// Only whole multiples of ten keep terminal output readable.
				if update.Step%10 == 0 && update.Step != lastPct {
					lastPct = update.Step
					r.writePlain("  %s\n", update.Message)
				}
			case tasks.RefreshCatalog:
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Upload(ctx, sel, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Uploaded to album '%s'", result.Upload.AlbumName)
	if result.Upload.Derived {
		r.writePlain("  (album name derived from the archive filename)\n")
	}
	if result.Upload.Message != "" {
		r.writePlain("  Server: %s\n", result.Upload.Message)
	}
	r.writePlain("  Albums on server: %d\n", result.AlbumCount)
	return nil
}
