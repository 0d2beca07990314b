// Package catalog defines the client-side data model for the image catalog.
//
// The package contains three categories of types:
//
// 1. Wire records: [FileRecord] is the canonical per-file structure. The
// server serves two shapes for the same data - positional tuples from
// /api/files and snake_case objects from /api/thumbnails - and
// [FileRecord.UnmarshalJSON] normalizes both into one struct so callers never
// see the difference.
//
// 2. Derived projections: [View] groups an album's files by article number
// with articles ordered lexicographically and files within an article ordered
// by the numeric suffix of their filename ([ExtractOrderKey], [SortBySuffix]).
// Views are rebuilt from scratch on every selection change; they are never
// mutated in place.
//
// 3. Upload state: [SelectionState] reconciles the two file-selection sources
// (drop vs picker) into at most one [PendingSelection], and [UploadSession]
// tracks a single transfer from Idle to a terminal state.
package catalog
