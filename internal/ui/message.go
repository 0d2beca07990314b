package ui

import (
	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/services"
	"github.com/piclinks/piclinks/internal/tasks"
)

// albumsFetchedMsg carries the album list from the server.
type albumsFetchedMsg struct {
	albums []string
	err    error
}

// viewFetchedMsg carries a grouped album view together with the generation
// stamp of the fetch that produced it. Stale generations are discarded.
type viewFetchedMsg struct {
	view *catalog.View
	gen  services.Generation
	err  error
}

// thumbFetchedMsg reports one lazy thumbnail fetch attempt.
type thumbFetchedMsg struct {
	filename string
	fetched  bool
	err      error
}

// uploadProgressMsg relays a progress update from the running upload.
type uploadProgressMsg tasks.ProgressUpdate

// uploadCompleteMsg carries the final upload outcome.
type uploadCompleteMsg struct {
	result *tasks.UploadRunResult
	err    error
}

// exportCompleteMsg carries the written xlsx path or the failure.
type exportCompleteMsg struct {
	path string
	err  error
}

// statusClearMsg clears the transient status line (e.g. the copy ack).
type statusClearMsg struct{}
