// Package services implements the HTTP client layer against the catalog server.
//
// # Layering
//
// [APIService] is a thin transport wrapper: it issues requests, captures the
// status code and body, and opportunistically decodes JSON. Everything above
// it is typed:
//
//   - [CatalogService] : album/article/file enumeration, grouped views,
//     publish/unpublish, deletion, server resync
//   - [UploadService] : the single-flight multipart ZIP upload with
//     monotonic progress reporting
//   - [ExportService] : spreadsheet export requests saved to disk
//
// # Staleness guard
//
// The UI can issue overlapping catalog fetches (the user switches albums
// faster than responses arrive). CatalogService stamps every view-producing
// call with a generation from an atomic counter; callers keep the stamp with
// the result and drop any result whose stamp [CatalogService.Current] no
// longer recognizes. Responses therefore apply in request order regardless of
// arrival order.
//
// # Error handling
//
// Transport failures wrap [shared.ErrNetwork]; undecodable bodies wrap
// [shared.ErrMalformedResponse]. Server-visible failures are typed:
// [ServerRejection] carries the server's error message, [StatusError] a bare
// non-2xx status. Both match [shared.ErrAPIRequest] via errors.Is. A valid
// empty result (album with no files) is never an error.
package services
