package catalog

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/piclinks/piclinks/internal/shared"
)

// SelectionSource identifies which affordance produced a pending selection.
type SelectionSource int

const (
	SourceDrop SelectionSource = iota
	SourcePicker
)

func (s SelectionSource) String() string {
	switch s {
	case SourceDrop:
		return "drop"
	case SourcePicker:
		return "picker"
	default:
		return ""
	}
}

// PendingSelection is the single file queued for upload.
type PendingSelection struct {
	Source SelectionSource
	Path   string // path on the local filesystem
	Name   string // base name, as sent to the server
	Size   int64
}

// Label renders the selection for the drop-zone caption, e.g.
// "album.zip (3.42 MB)".
func (p *PendingSelection) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, shared.FormatBytes(p.Size))
}

// IsZip reports whether a filename or declared MIME type identifies a ZIP
// archive. The name check is case-insensitive.
func IsZip(name, mimeType string) bool {
	if strings.HasSuffix(strings.ToLower(name), ".zip") {
		return true
	}
	switch mimeType {
	case "application/zip", "application/x-zip-compressed":
		return true
	}
	return false
}

// SelectionState reconciles the two file-selection sources into at most one
// pending upload. Selecting via one source clears the other; the picker is
// authoritative once used. Safe for use from the UI event loop and background
// commands.
type SelectionState struct {
	mu       sync.Mutex
	current  *PendingSelection
	onChange func(*PendingSelection)
}

// NewSelectionState creates an empty SelectionState. onChange, if non-nil,
// fires synchronously after every transition with the new selection (nil when
// cleared); the UI uses it to refresh the drop-zone label.
func NewSelectionState(onChange func(*PendingSelection)) *SelectionState {
	return &SelectionState{onChange: onChange}
}

// SetFromDrop accepts a dropped file. Non-ZIP files are rejected with
// [shared.ErrInvalidFileType] and the previous selection, if any, is kept.
func (s *SelectionState) SetFromDrop(path string, size int64) error {
	name := filepath.Base(path)
	if !IsZip(name, mime.TypeByExtension(filepath.Ext(name))) {
		return fmt.Errorf("%w: %s", shared.ErrInvalidFileType, name)
	}

	s.mu.Lock()
	s.current = &PendingSelection{Source: SourceDrop, Path: path, Name: name, Size: size}
	sel := s.current
	s.mu.Unlock()

	s.notify(sel)
	return nil
}

// SetFromPicker replaces any existing selection, drop-sourced or otherwise.
// The picker dialog already filters to archives, so no type check here;
// submit validates again regardless.
func (s *SelectionState) SetFromPicker(path string, size int64) {
	s.mu.Lock()
	s.current = &PendingSelection{Source: SourcePicker, Path: path, Name: filepath.Base(path), Size: size}
	sel := s.current
	s.mu.Unlock()

	s.notify(sel)
}

// Clear resets to the freshly-constructed state. Idempotent; called after a
// successful or cancelled upload.
func (s *SelectionState) Clear() {
	s.mu.Lock()
	cleared := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if cleared {
		s.notify(nil)
	}
}

// Current returns the pending selection, or nil when none exists.
func (s *SelectionState) Current() *PendingSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SelectionState) notify(sel *PendingSelection) {
	if s.onChange != nil {
		s.onChange(sel)
	}
}
