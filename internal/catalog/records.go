package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/piclinks/piclinks/internal/shared"
)

// FileRecord is one indexed file in the catalog.
//
// Identity is Filename (the path relative to the upload root, e.g.
// "album/article/name_12.jpg"). Records are created server-side on upload;
// the client only re-fetches them.
type FileRecord struct {
	Filename      string `json:"filename"`
	AlbumName     string `json:"album_name"`
	ArticleNumber string `json:"article_number"`
	PublicLink    string `json:"public_link"`
	CreatedAt     string `json:"created_at"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	PreviewURL    string `json:"preview_url,omitempty"`
	FileSize      int64  `json:"file_size,omitempty"`
	Published     bool   `json:"published,omitempty"`
}

// fileRecordObject mirrors FileRecord for plain object decoding, avoiding
// recursion through the custom UnmarshalJSON.
type fileRecordObject struct {
	Filename      string `json:"filename"`
	AlbumName     string `json:"album_name"`
	ArticleNumber string `json:"article_number"`
	PublicLink    string `json:"public_link"`
	CreatedAt     string `json:"created_at"`
	ThumbnailURL  string `json:"thumbnail_url"`
	PreviewURL    string `json:"preview_url"`
	FileSize      int64  `json:"file_size"`
	Published     bool   `json:"published"`
}

// UnmarshalJSON accepts both record shapes the server produces: the object
// form served by /api/thumbnails/... and the positional tuple
// [filename, album, article, link, created_at, published?] served by
// /api/files. The tuple's published flag is optional and may be a bool or
// 0/1 number.
func (r *FileRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty record", shared.ErrMalformedResponse)
	}

	if trimmed[0] == '{' {
		var obj fileRecordObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		*r = FileRecord(obj)
		return nil
	}

	if trimmed[0] != '[' {
		return fmt.Errorf("%w: record is neither object nor tuple", shared.ErrMalformedResponse)
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(trimmed, &tuple); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if len(tuple) < 4 {
		return fmt.Errorf("%w: tuple record has %d fields, want at least 4", shared.ErrMalformedResponse, len(tuple))
	}

	fields := []*string{&r.Filename, &r.AlbumName, &r.ArticleNumber, &r.PublicLink}
	for i, target := range fields {
		if err := json.Unmarshal(tuple[i], target); err != nil {
			return fmt.Errorf("%w: tuple field %d: %v", shared.ErrMalformedResponse, i, err)
		}
	}
	if len(tuple) > 4 {
		// created_at may arrive as a string or a numeric epoch
		if err := json.Unmarshal(tuple[4], &r.CreatedAt); err != nil {
			var epoch float64
			if err := json.Unmarshal(tuple[4], &epoch); err != nil {
				return fmt.Errorf("%w: tuple created_at: %v", shared.ErrMalformedResponse, err)
			}
			r.CreatedAt = fmt.Sprintf("%.0f", epoch)
		}
	}
	if len(tuple) > 5 {
		published, err := decodeFlexibleBool(tuple[5])
		if err != nil {
			return fmt.Errorf("%w: tuple published flag: %v", shared.ErrMalformedResponse, err)
		}
		r.Published = published
	}
	return nil
}

func decodeFlexibleBool(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false, err
	}
	return n != 0, nil
}

// DecodeRecords decodes a JSON array of records in either wire shape.
//
// An empty or null body decodes to an empty, non-nil slice: a zero-file album
// is a valid result, distinct from a decode failure.
func DecodeRecords(data []byte) ([]FileRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []FileRecord{}, nil
	}

	var records []FileRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if records == nil {
		records = []FileRecord{}
	}
	return records, nil
}
