package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	UploadArchive
	RefreshCatalog
	FetchAlbums
	FetchArticles
	FetchFiles
	FetchThumbnails
	Snapshot
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case UploadArchive:
		return "upload_archive"
	case RefreshCatalog:
		return "refresh_catalog"
	case FetchAlbums:
		return "fetch_albums"
	case FetchArticles:
		return "fetch_articles"
	case FetchFiles:
		return "fetch_files"
	case FetchThumbnails:
		return "fetch_thumbnails"
	case Snapshot:
		return "snapshot"
	default:
		return ""
	}
}

func validatingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Validating %s...", name),
	}
}

func uploadProgressUpdate(percent int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadArchive,
		Step:    percent,
		Total:   100,
		Message: fmt.Sprintf("Uploading... %d%%", percent),
	}
}

func uploadDoneUpdate(album string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadArchive,
		Step:    100,
		Total:   100,
		Message: fmt.Sprintf("Upload complete: %s", album),
		Data:    album,
	}
}

func refreshUpdate(albumCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Catalog refreshed (%d albums)", albumCount),
	}
}

func snapshotUpdate(step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", what),
	}
}

func thumbnailFetchedUpdate(step, total int, filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchThumbnails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, filename),
	}
}

func thumbnailFailedUpdate(step, total int, filename string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchThumbnails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, filename, err),
	}
}
