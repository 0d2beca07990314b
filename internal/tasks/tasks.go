package tasks

import (
	"context"
	"fmt"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/repositories"
	"github.com/piclinks/piclinks/internal/services"
	"github.com/piclinks/piclinks/internal/shared"
)

// UploadRunResult contains all data from a full upload operation.
type UploadRunResult struct {
	Upload     *services.UploadResult // Server response for the archive
	AlbumCount int                    // Album count after the post-upload refresh
	Albums     []string               // Album names after the post-upload refresh
}

// AlbumSnapshot holds the presentation state of a single album.
type AlbumSnapshot struct {
	AlbumName string                          `json:"album_name"`
	Articles  []string                        `json:"articles"`
	Files     map[string][]catalog.FileRecord `json:"files"`
	Error     string                          `json:"error,omitempty"`
}

// SnapshotResult contains the full catalog state fetched from the server.
type SnapshotResult struct {
	Albums    []string        // All album names
	Snapshots []AlbumSnapshot // Per-album article and file listings
	Errors    []error         // Failed album fetches
}

// SnapshotData is the JSON-serializable form of SnapshotResult.
type SnapshotData struct {
	Albums    []string        `json:"albums"`
	Snapshots []AlbumSnapshot `json:"snapshots"`
	Errors    []string        `json:"errors,omitempty"`
}

// Data converts a SnapshotResult into its serializable form.
func (r *SnapshotResult) Data() SnapshotData {
	data := SnapshotData{
		Albums:    r.Albums,
		Snapshots: r.Snapshots,
	}
	for _, err := range r.Errors {
		data.Errors = append(data.Errors, err.Error())
	}
	return data
}

// Engine defines long-running catalog operations.
type Engine interface {
	// Upload submits a selected archive, then refreshes the album list so the
	// caller sees the catalog state that includes the new upload.
	Upload(ctx context.Context, sel *catalog.PendingSelection, progress chan<- ProgressUpdate) (*UploadRunResult, error)

	// Snapshot fetches the complete catalog state by retrieving every album's
	// articles and file records.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotResult, error)

	// Prefetch downloads thumbnails for an album into the local cache.
	Prefetch(ctx context.Context, albumName, article string, progress chan<- ProgressUpdate) (*PrefetchResult, error)
}

// CatalogEngine implements Engine against the remote image catalog service.
type CatalogEngine struct {
	uploads *services.UploadService
	catalog *services.CatalogService
	cache   ThumbnailStore
	workers int
}

// ThumbnailStore is the subset of the cache repository the engine needs.
type ThumbnailStore interface {
	Has(filename string) (bool, error)
	Put(t *repositories.CachedThumbnail) error
}

// NewCatalogEngine creates a CatalogEngine with the provided services.
// The cache may be nil, in which case Prefetch is unavailable.
func NewCatalogEngine(uploads *services.UploadService, cat *services.CatalogService, cache ThumbnailStore) *CatalogEngine {
	return &CatalogEngine{
		uploads: uploads,
		catalog: cat,
		cache:   cache,
		workers: defaultPrefetchWorkers,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Upload submits the selected archive and refreshes the album list.
func (e *CatalogEngine) Upload(ctx context.Context, sel *catalog.PendingSelection, progress chan<- ProgressUpdate) (*UploadRunResult, error) {
	if e.uploads == nil {
		return nil, fmt.Errorf("%w: upload service not initialized", shared.ErrMissingConfig)
	}

	name := "selection"
	if sel != nil {
		name = sel.Name
	}
	e.sendProgress(progress, validatingUpdate(name))

	result := &UploadRunResult{}

	upload, err := e.uploads.Submit(ctx, sel, func(percent int) {
		e.sendProgress(progress, uploadProgressUpdate(percent))
	})
	if err != nil {
		return nil, err
	}
	result.Upload = upload

	e.sendProgress(progress, uploadDoneUpdate(upload.AlbumName))

	// A failed refresh does not undo the upload, so report the album from the
	// server response and surface the refresh error alongside it.
	albums, err := e.catalog.Albums(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: upload succeeded but album refresh failed: %v", shared.ErrAPIRequest, err)
	}

	result.Albums = albums
	result.AlbumCount = len(albums)
	e.sendProgress(progress, refreshUpdate(len(albums)))
	return result, nil
}

// Snapshot fetches articles and file records for every album.
// Individual album failures are collected rather than aborting the run.
func (e *CatalogEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}

	e.sendProgress(progress, snapshotUpdate(1, 1, "albums"))
	albums, err := e.catalog.Albums(ctx)
	if err != nil {
		return nil, err
	}

	result := &SnapshotResult{Albums: albums}
	total := len(albums)

	for i, album := range albums {
		e.sendProgress(progress, snapshotUpdate(i+1, total, album))

		snap := AlbumSnapshot{AlbumName: album}
		view, _, err := e.catalog.FilesFor(ctx, album, "")
		if err != nil {
			snap.Error = err.Error()
			result.Errors = append(result.Errors, fmt.Errorf("album %q: %w", album, err))
		} else {
			snap.Articles = view.Articles
			snap.Files = view.Grouped
		}
		result.Snapshots = append(result.Snapshots, snap)
	}

	return result, nil
}
