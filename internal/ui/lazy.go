package ui

import (
	"context"
	"sync"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/repositories"
	"github.com/piclinks/piclinks/internal/services"
)

// LazyLoader fetches thumbnails on demand as records become visible.
//
// Each filename is attempted at most once per session. A failed fetch is not
// retried; the file keeps its placeholder until the next run.
type LazyLoader struct {
	catalog *services.CatalogService
	cache   *repositories.ThumbnailCache

	mu       sync.Mutex
	observed map[string]bool
}

// NewLazyLoader creates a loader over the catalog service and an optional
// cache. With a nil cache every Ensure call is a no-op.
func NewLazyLoader(cat *services.CatalogService, cache *repositories.ThumbnailCache) *LazyLoader {
	return &LazyLoader{
		catalog:  cat,
		cache:    cache,
		observed: make(map[string]bool),
	}
}

// Observed reports whether a fetch was already attempted for filename.
func (l *LazyLoader) Observed(filename string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.observed[filename]
}

// markObserved records an attempt, returning false if one already happened.
func (l *LazyLoader) markObserved(filename string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.observed[filename] {
		return false
	}
	l.observed[filename] = true
	return true
}

// Ensure makes the thumbnail for rec available in the cache. Returns true when
// bytes were downloaded, false when the record was already observed, already
// cached, or has no thumbnail reference.
func (l *LazyLoader) Ensure(ctx context.Context, rec catalog.FileRecord) (bool, error) {
	if l.cache == nil || rec.ThumbnailURL == "" {
		return false, nil
	}
	if !l.markObserved(rec.Filename) {
		return false, nil
	}

	cached, err := l.cache.Has(rec.Filename)
	if err != nil {
		return false, err
	}
	if cached {
		return false, nil
	}

	data, contentType, err := l.catalog.FetchImage(ctx, rec.ThumbnailURL)
	if err != nil {
		return false, err
	}

	err = l.cache.Put(&repositories.CachedThumbnail{
		Filename:    rec.Filename,
		AlbumName:   rec.AlbumName,
		Article:     rec.ArticleNumber,
		Data:        data,
		ContentType: contentType,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Cached reports whether the thumbnail bytes for filename are present locally.
func (l *LazyLoader) Cached(filename string) bool {
	if l.cache == nil {
		return false
	}
	ok, err := l.cache.Has(filename)
	return err == nil && ok
}

// CachedInfo returns the content type and byte size of a cached thumbnail,
// or ("", 0) when nothing is cached for filename.
func (l *LazyLoader) CachedInfo(filename string) (string, int64) {
	if l.cache == nil {
		return "", 0
	}
	t, err := l.cache.Get(filename)
	if err != nil || t == nil {
		return "", 0
	}
	return t.ContentType, int64(len(t.Data))
}
