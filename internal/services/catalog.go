package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/shared"
)

// Generation stamps a view-producing fetch. A result is applied only while
// its stamp is still the newest one issued; see [CatalogService.Current].
type Generation = uint64

// CatalogService is the typed client for catalog enumeration and
// administration. Every call fetches fresh data; nothing is cached here.
type CatalogService struct {
	api *APIService
	gen atomic.Uint64
}

// NewCatalogService creates a catalog service on top of the raw API client.
func NewCatalogService(api *APIService) *CatalogService {
	return &CatalogService{api: api}
}

// next issues a new generation, superseding all earlier ones.
func (s *CatalogService) next() Generation {
	return s.gen.Add(1)
}

// Current reports whether gen is still the newest issued generation. The UI
// discards any fetched view whose generation is stale, which keeps
// out-of-order responses from overwriting newer state.
func (s *CatalogService) Current(gen Generation) bool {
	return s.gen.Load() == gen
}

// decodeStrings decodes a JSON array of strings, treating null as empty.
func decodeStrings(body []byte) ([]string, error) {
	var out []string
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// checkResponse maps a non-2xx or error-bearing response to a typed error.
func checkResponse(resp *APIResponse) error {
	if msg := resp.ErrorMessage(); msg != "" {
		return &ServerRejection{Message: msg, Status: resp.StatusCode}
	}
	if !resp.OK() {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// Albums returns all album names in server order.
func (s *CatalogService) Albums(ctx context.Context) ([]string, error) {
	resp, err := s.api.Get(ctx, "/api/albums")
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeStrings(resp.Body)
}

// Articles returns the article numbers of one album in server order.
func (s *CatalogService) Articles(ctx context.Context, album string) ([]string, error) {
	resp, err := s.api.Get(ctx, "/api/articles/"+url.PathEscape(album))
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return decodeStrings(resp.Body)
}

// Files returns the full flat record set from /api/files (tuple-shaped on the
// wire; normalized on decode).
func (s *CatalogService) Files(ctx context.Context) ([]catalog.FileRecord, error) {
	resp, err := s.api.Get(ctx, "/api/files")
	if err != nil {
		return nil, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return catalog.DecodeRecords(resp.Body)
}

// FilesFor fetches one album's records (optionally narrowed to an article)
// and returns them grouped and ordered as a [catalog.View], together with the
// generation stamp of this fetch.
//
// Uses the thumbnails endpoint because its object-shaped records carry the
// thumbnail and preview URLs the renderer needs; the decoder tolerates either
// shape regardless.
func (s *CatalogService) FilesFor(ctx context.Context, album, article string) (*catalog.View, Generation, error) {
	gen := s.next()

	path := "/api/thumbnails/" + url.PathEscape(album)
	if article != "" {
		path += "/" + url.PathEscape(article)
	}

	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, gen, err
	}
	if err := checkResponse(resp); err != nil {
		return nil, gen, err
	}

	records, err := catalog.DecodeRecords(resp.Body)
	if err != nil {
		return nil, gen, err
	}
	return catalog.BuildView(album, article, records), gen, nil
}

// FetchImage downloads image bytes from a server-relative path (thumbnail or
// preview URL from a record) or an absolute URL. Returns the bytes and the
// Content-Type header.
func (s *CatalogService) FetchImage(ctx context.Context, ref string) ([]byte, string, error) {
	path := ref
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		path = u.Path
	}

	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, "", err
	}
	if !resp.OK() {
		return nil, "", &StatusError{Status: resp.StatusCode}
	}
	return resp.Body, resp.Headers.Get("Content-Type"), nil
}

// Publish marks a file as published. Returns the server's message.
func (s *CatalogService) Publish(ctx context.Context, filename string) (string, error) {
	return s.postMessage(ctx, "/api/publish/"+url.PathEscape(filename))
}

// Unpublish removes a file from publication. Returns the server's message.
func (s *CatalogService) Unpublish(ctx context.Context, filename string) (string, error) {
	return s.postMessage(ctx, "/api/unpublish/"+url.PathEscape(filename))
}

// Sync asks the server to reconcile its index with the filesystem.
func (s *CatalogService) Sync(ctx context.Context) (string, error) {
	resp, err := s.api.Get(ctx, "/api/sync")
	if err != nil {
		return "", err
	}
	return messageFrom(resp)
}

// CleanupThumbnails asks the server to drop cached thumbnails for an album.
func (s *CatalogService) CleanupThumbnails(ctx context.Context, album string) (string, error) {
	return s.postMessage(ctx, "/api/cleanup-thumbnails/"+url.PathEscape(album))
}

// DeleteAlbum removes an album and all its files server-side.
func (s *CatalogService) DeleteAlbum(ctx context.Context, album string) (string, error) {
	resp, err := s.api.Delete(ctx, "/api/delete-album/"+url.PathEscape(album))
	if err != nil {
		return "", err
	}
	return messageFrom(resp)
}

// DeleteArticle removes one article group from an album server-side.
func (s *CatalogService) DeleteArticle(ctx context.Context, album, article string) (string, error) {
	resp, err := s.api.Delete(ctx, "/api/delete-article/"+url.PathEscape(album)+"/"+url.PathEscape(article))
	if err != nil {
		return "", err
	}
	return messageFrom(resp)
}

func (s *CatalogService) postMessage(ctx context.Context, path string) (string, error) {
	resp, err := s.api.Post(ctx, path, nil)
	if err != nil {
		return "", err
	}
	return messageFrom(resp)
}

// messageFrom extracts {message} from a response, mapping {error} bodies and
// bare non-2xx statuses to typed errors.
func messageFrom(resp *APIResponse) (string, error) {
	if err := checkResponse(resp); err != nil {
		return "", err
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return body.Message, nil
}
