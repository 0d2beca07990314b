package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/repositories"
	"github.com/piclinks/piclinks/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultPrefetchWorkers = 5
	maxPrefetchWorkers     = 10
	defaultPrefetchRate    = 5.0 // requests per second
)

// PrefetchJob describes a single thumbnail to download.
type PrefetchJob struct {
	Record catalog.FileRecord
}

// FileFetchResult represents the outcome of fetching one thumbnail.
type FileFetchResult struct {
	Filename string
	Skipped  bool // Already present in the cache
	Error    error
}

// PrefetchResult summarizes a prefetch run over an album.
type PrefetchResult struct {
	AlbumName  string
	Article    string
	TotalFiles int
	Fetched    int
	Skipped    int
	Failed     int
	Results    []FileFetchResult
}

// Prefetch downloads an album's thumbnails into the local cache.
//
// This method implements a worker pool pattern with rate limiting. Files
// already cached are skipped, and individual download failures are recorded
// without aborting the run.
func (e *CatalogEngine) Prefetch(ctx context.Context, albumName, article string, progress chan<- ProgressUpdate) (*PrefetchResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingConfig)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: thumbnail cache not configured", shared.ErrMissingConfig)
	}

	view, _, err := e.catalog.FilesFor(ctx, albumName, article)
	if err != nil {
		return nil, err
	}

	files := view.Flat()
	result := &PrefetchResult{
		AlbumName:  albumName,
		Article:    article,
		TotalFiles: len(files),
		Results:    make([]FileFetchResult, 0, len(files)),
	}
	if len(files) == 0 {
		return result, nil
	}

	workers := e.workers
	if workers <= 0 {
		workers = defaultPrefetchWorkers
	}
	if workers > maxPrefetchWorkers {
		workers = maxPrefetchWorkers
	}

	limiter := rate.NewLimiter(rate.Limit(defaultPrefetchRate), 1)

	jobs := make(chan PrefetchJob, len(files))
	results := make(chan FileFetchResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.prefetchWorker(ctx, &wg, limiter, jobs, results)
	}

	for _, rec := range files {
		jobs <- PrefetchJob{Record: rec}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.Error != nil:
			result.Failed++
			e.sendProgress(progress, thumbnailFailedUpdate(completed, len(files), res.Filename, res.Error))
		case res.Skipped:
			result.Skipped++
		default:
			result.Fetched++
			e.sendProgress(progress, thumbnailFetchedUpdate(completed, len(files), res.Filename))
		}
	}

	return result, nil
}

// prefetchWorker is a worker goroutine that downloads thumbnails from the jobs channel.
func (e *CatalogEngine) prefetchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan PrefetchJob,
	results chan<- FileFetchResult,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- FileFetchResult{Filename: job.Record.Filename, Error: ctx.Err()}
			continue
		default:
		}

		results <- e.prefetchSingle(ctx, limiter, job.Record)
	}
}

// prefetchSingle downloads one thumbnail into the cache unless it is already present.
func (e *CatalogEngine) prefetchSingle(ctx context.Context, limiter *rate.Limiter, rec catalog.FileRecord) FileFetchResult {
	result := FileFetchResult{Filename: rec.Filename}

	cached, err := e.cache.Has(rec.Filename)
	if err != nil {
		result.Error = fmt.Errorf("cache lookup failed: %w", err)
		return result
	}
	if cached {
		result.Skipped = true
		return result
	}

	if err := limiter.Wait(ctx); err != nil {
		result.Error = err
		return result
	}

	data, contentType, err := e.catalog.FetchImage(ctx, rec.ThumbnailURL)
	if err != nil {
		result.Error = err
		return result
	}

	if err := e.cache.Put(&repositories.CachedThumbnail{
		Filename:    rec.Filename,
		AlbumName:   rec.AlbumName,
		Article:     rec.ArticleNumber,
		Data:        data,
		ContentType: contentType,
	}); err != nil {
		result.Error = fmt.Errorf("cache write failed: %w", err)
		return result
	}

	return result
}
