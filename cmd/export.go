package main

import (
	"context"
	"fmt"

	"github.com/piclinks/piclinks/internal/services"
	"github.com/piclinks/piclinks/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export requests an xlsx link export and saves it locally.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	album := cmd.StringArg("album")
	if album == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}

	req := &services.ExportRequest{
		AlbumName:   album,
		ArticleName: cmd.String("article"),
		ExportType:  cmd.String("type"),
		Separator:   cmd.String("separator"),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	exports := r.exports
	if dir := cmd.String("output"); dir != "" {
		exports = services.NewExportService(r.api, dir)
	}

	r.logger.Info("requesting export", "album", album, "type", req.ExportType)
	path, err := exports.RequestExport(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ Export saved to %s\n", path)
	return nil
}
