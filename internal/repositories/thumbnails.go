package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// CachedThumbnail is one cached image.
type CachedThumbnail struct {
	Filename    string
	AlbumName   string
	Article     string
	Data        []byte
	ContentType string
}

// ThumbnailCache stores fetched thumbnail bytes keyed by catalog filename.
type ThumbnailCache struct {
	db *sql.DB
}

// NewThumbnailCache creates a cache over an open, migrated database.
func NewThumbnailCache(db *sql.DB) *ThumbnailCache {
	return &ThumbnailCache{db: db}
}

// Get returns the cached thumbnail for filename, or (nil, nil) on a miss.
func (c *ThumbnailCache) Get(filename string) (*CachedThumbnail, error) {
	row := c.db.QueryRow(
		"SELECT filename, album_name, article_number, data, content_type FROM thumbnails WHERE filename = ?",
		filename,
	)

	var t CachedThumbnail
	err := row.Scan(&t.Filename, &t.AlbumName, &t.Article, &t.Data, &t.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail cache: %w", err)
	}
	return &t, nil
}

// Has reports whether filename is cached without loading the bytes.
func (c *ThumbnailCache) Has(filename string) (bool, error) {
	var exists bool
	err := c.db.QueryRow("SELECT EXISTS(SELECT 1 FROM thumbnails WHERE filename = ?)", filename).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check thumbnail cache: %w", err)
	}
	return exists, nil
}

// Put inserts or replaces a cached thumbnail.
func (c *ThumbnailCache) Put(t *CachedThumbnail) error {
	if t.ContentType == "" {
		t.ContentType = "image/jpeg"
	}
	_, err := c.db.Exec(
		`INSERT INTO thumbnails (filename, album_name, article_number, data, content_type)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(filename) DO UPDATE SET data = excluded.data, content_type = excluded.content_type, fetched_at = CURRENT_TIMESTAMP`,
		t.Filename, t.AlbumName, t.Article, t.Data, t.ContentType,
	)
	if err != nil {
		return fmt.Errorf("failed to write thumbnail cache: %w", err)
	}
	return nil
}

// DeleteAlbum drops all cached thumbnails of one album, e.g. after the album
// is deleted server-side. Returns the number of rows removed.
func (c *ThumbnailCache) DeleteAlbum(album string) (int64, error) {
	res, err := c.db.Exec("DELETE FROM thumbnails WHERE album_name = ?", album)
	if err != nil {
		return 0, fmt.Errorf("failed to clear thumbnail cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountAlbum returns the number of cached thumbnails for one album.
func (c *ThumbnailCache) CountAlbum(album string) (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM thumbnails WHERE album_name = ?", album).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count thumbnail cache: %w", err)
	}
	return n, nil
}
