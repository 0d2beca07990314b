// Package repositories provides the local persistence layer.
//
// The only persisted data is the thumbnail cache: image bytes fetched by the
// lazy loader, keyed by catalog filename. Caching keeps re-renders of a view
// from refetching thumbnails the user already saw and lets the prefetch task
// warm an album before browsing. [ThumbnailCache] wraps a SQLite database
// opened via shared.NewDatabase with the schema from shared.RunMigrations.
package repositories
