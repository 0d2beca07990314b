// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and feeding the image catalog:
//  1. [AlbumListView] : Browse albums on the server
//  2. [ArticleListView] : Pick an article group within an album
//  3. [FileListView] : Browse file records, copy public links, open the preview
//  4. [PreviewView] : Inspect one file record in a viewport
//  5. [UploadView] : Select a ZIP archive (path entry or file picker) and watch upload progress
//  6. [ExportView] : Request an xlsx link export for the current album
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Catalog fetches are stamped with a generation; responses that arrive after a
// newer fetch was issued are discarded, so slow responses never overwrite
// fresher state. Upload progress flows through a channel from the
// CatalogEngine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, u, e, c, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
