package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piclinks/piclinks/internal/shared"
)

// Export layouts accepted by the server.
const (
	ExportInRow  = "in_row"  // one link per spreadsheet row
	ExportInCell = "in_cell" // all links joined into one cell
)

// ExportRequest describes one spreadsheet export, constructed from user
// choices and sent once.
type ExportRequest struct {
	AlbumName   string `json:"album_name"`
	ArticleName string `json:"article_name,omitempty"`
	ExportType  string `json:"export_type"` // ExportInRow or ExportInCell
	Separator   string `json:"separator,omitempty"`
}

// Validate checks the request before any network call.
func (r *ExportRequest) Validate() error {
	if r.AlbumName == "" {
		return fmt.Errorf("%w: album name", shared.ErrMissingArgument)
	}
	switch r.ExportType {
	case ExportInRow, ExportInCell:
	case "":
		return fmt.Errorf("%w: export type", shared.ErrMissingArgument)
	default:
		return fmt.Errorf("%w: export type %q (must be in_row or in_cell)", shared.ErrInvalidArgument, r.ExportType)
	}
	return nil
}

// Filename synthesizes the download name: links_<album>[_<article>].xlsx.
func (r *ExportRequest) Filename() string {
	name := "links_" + r.AlbumName
	if r.ArticleName != "" {
		name += "_" + r.ArticleName
	}
	return name + ".xlsx"
}

// ExportService requests spreadsheet exports and saves them to disk.
type ExportService struct {
	api       *APIService
	outputDir string
}

// NewExportService creates an export service. outputDir may be empty for the
// current directory.
func NewExportService(api *APIService, outputDir string) *ExportService {
	return &ExportService{api: api, outputDir: outputDir}
}

// RequestExport posts the export request and writes the binary response to
// the output directory. Returns the saved file path.
//
// The response body is opaque to the client; non-2xx responses surface the
// server's JSON error message when one is present.
func (e *ExportService) RequestExport(ctx context.Context, req *ExportRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	payload, err := shared.MarshalJSON(req, false)
	if err != nil {
		return "", fmt.Errorf("failed to encode export request: %w", err)
	}

	resp, err := e.api.Post(ctx, "/api/export-xlsx", payload)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		if msg := resp.ErrorMessage(); msg != "" {
			return "", &ServerRejection{Message: msg, Status: resp.StatusCode}
		}
		return "", &StatusError{Status: resp.StatusCode}
	}

	dir := e.outputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, req.Filename())
	if err := os.WriteFile(path, resp.Body, 0644); err != nil {
		return "", fmt.Errorf("failed to save spreadsheet: %w", err)
	}

	return path, nil
}
