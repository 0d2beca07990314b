package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/piclinks/piclinks/internal/repositories"
	"github.com/piclinks/piclinks/internal/shared"
	"github.com/piclinks/piclinks/internal/tasks"
	"github.com/piclinks/piclinks/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/piclinks-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var cache *repositories.ThumbnailCache
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err == nil {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err == nil {
			cache = repositories.NewThumbnailCache(db)
			defer db.Close()
		} else {
			r.logger.Warn("thumbnail cache unavailable", "error", err)
			db.Close()
		}
	} else {
		r.logger.Warn("thumbnail cache unavailable", "error", err)
	}

	// A typed nil inside the store interface would defeat the engine's nil
	// check, so only assign when the cache exists.
	var store tasks.ThumbnailStore
	if cache != nil {
		store = cache
	}
	engine := tasks.NewCatalogEngine(r.uploads, r.catalog, store)
	loader := ui.NewLazyLoader(r.catalog, cache)

	model := ui.NewModel(ctx, r.catalog, engine, r.exports, loader)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
