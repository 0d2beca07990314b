package main

import (
	"context"
	"fmt"
	"os"

	"github.com/piclinks/piclinks/internal/shared"
	"github.com/piclinks/piclinks/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Snapshot dumps the full catalog state as JSON.
func (r *Runner) Snapshot(ctx context.Context, cmd *cli.Command) error {
	engine, closeEngine, err := r.newEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Snapshot(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	for _, snapErr := range result.Errors {
		r.logger.Warn("partial snapshot", "error", snapErr)
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		data, err := shared.MarshalJSON(result.Data(), cmd.Bool("pretty"))
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		r.writePlain("✓ Snapshot written to %s\n", outputPath)
		return nil
	}

	return r.writeJSON(result.Data(), cmd.Bool("pretty"))
}

// PrefetchThumbnails fills the local thumbnail cache for one album.
func (r *Runner) PrefetchThumbnails(ctx context.Context, cmd *cli.Command) error {
	album := cmd.StringArg("album")
	if album == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}
	article := cmd.String("article")

	engine, closeEngine, err := r.newEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	result, err := engine.Prefetch(ctx, album, article, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Prefetch '%s' complete", album))
	r.writePlain("Fetched: %d\n", result.Fetched)
	r.writePlain("Already cached: %d\n", result.Skipped)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
	}
	return nil
}
