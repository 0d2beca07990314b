package catalog

import "github.com/piclinks/piclinks/internal/shared"

// UploadState enumerates the lifecycle of an upload session.
type UploadState int

const (
	Idle UploadState = iota
	InFlight
	Succeeded
	Failed
)

func (s UploadState) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// UploadSession tracks one transfer from submission to a terminal state.
// Created on submit, replaced by the next submit. Percent never decreases.
type UploadSession struct {
	ID        string
	State     UploadState
	Percent   int
	AlbumName string
	Err       error
}

// NewUploadSession creates an idle session with a fresh id.
func NewUploadSession() *UploadSession {
	return &UploadSession{ID: shared.GenerateID(), State: Idle}
}

// Advance raises the progress percentage, clamped to [0,100] and monotonic:
// a sample below the current value is discarded so the UI never moves
// backwards even if transport callbacks arrive out of order.
func (u *UploadSession) Advance(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent > u.Percent {
		u.Percent = percent
	}
}

// Succeed marks the session complete with the resolved album name.
func (u *UploadSession) Succeed(album string) {
	u.State = Succeeded
	u.AlbumName = album
	u.Percent = 100
}

// Fail marks the session failed. The progress bar keeps its last value.
func (u *UploadSession) Fail(err error) {
	u.State = Failed
	u.Err = err
}

// Terminal reports whether the session reached a final state.
func (u *UploadSession) Terminal() bool {
	return u.State == Succeeded || u.State == Failed
}
