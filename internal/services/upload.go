package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/shared"
)

// uploadFieldName is the multipart field the server expects the archive under.
const uploadFieldName = "zipfile"

// UploadResult is the resolved outcome of a successful upload.
type UploadResult struct {
	AlbumName string // server-assigned album slug
	Message   string // human-readable server message, may be empty
	Derived   bool   // true when AlbumName came from the client-side fallback
}

// UploadService performs the multipart ZIP transfer.
//
// Exactly one transfer may be in flight per instance: a second Submit while
// one is running fails immediately with [shared.ErrAlreadyInFlight] (the UI
// additionally disables the submit affordance during flight). Submit always
// returns, success or failure, so callers restore their affordances
// unconditionally after it; no stuck "uploading" state is possible.
type UploadService struct {
	api      *APIService
	inFlight atomic.Bool
}

// NewUploadService creates an upload service sharing the API client's
// transport and base URL.
func NewUploadService(api *APIService) *UploadService {
	return &UploadService{api: api}
}

// InFlight reports whether a transfer is currently running.
func (u *UploadService) InFlight() bool {
	return u.inFlight.Load()
}

// Submit uploads the pending selection and resolves the album identity.
//
// Validation failures (nil selection, non-ZIP name) return before any network
// activity. onProgress, if non-nil, receives percentages in [0,100]; samples
// are monotonic and a final 100 fires on success. The album name comes from
// the response body, with [shared.AlbumNameFromArchive] as a best-effort
// fallback when the server omits it.
func (u *UploadService) Submit(ctx context.Context, sel *catalog.PendingSelection, onProgress func(int)) (*UploadResult, error) {
	if sel == nil {
		return nil, shared.ErrNoFileSelected
	}
	if !catalog.IsZip(sel.Name, "") {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidFileType, sel.Name)
	}
	if !u.inFlight.CompareAndSwap(false, true) {
		return nil, shared.ErrAlreadyInFlight
	}
	defer u.inFlight.Store(false)

	f, err := os.Open(sel.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile(uploadFieldName, sel.Name)
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	total := multipartOverhead(mw.Boundary(), sel.Name) + info.Size()
	body := &progressReader{r: pr, total: total, onProgress: onProgress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.api.BaseURL()+"/upload", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	resp, err := u.api.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	var parsed struct {
		AlbumName string `json:"album_name"`
		Message   string `json:"message"`
		Error     string `json:"error"`
	}
	decodeErr := json.Unmarshal(raw, &parsed)

	switch {
	case decodeErr == nil && parsed.Error != "":
		return nil, &ServerRejection{Message: parsed.Error, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &StatusError{Status: resp.StatusCode}
	case decodeErr != nil:
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, decodeErr)
	}

	result := &UploadResult{AlbumName: parsed.AlbumName, Message: parsed.Message}
	if result.AlbumName == "" {
		// best-effort twin of the server's slug derivation, not authoritative
		result.AlbumName = shared.AlbumNameFromArchive(sel.Name)
		result.Derived = true
	}

	if onProgress != nil {
		onProgress(100)
	}
	return result, nil
}

// multipartOverhead computes the framing bytes a single-file multipart body
// adds around the file content, so percentages can be derived from an exact
// total before streaming begins.
func multipartOverhead(boundary, filename string) int64 {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return 0
	}
	if _, err := w.CreateFormFile(uploadFieldName, filename); err != nil {
		return 0
	}
	w.Close()
	return int64(buf.Len())
}

// progressReader counts bytes as the transport drains the request body and
// reports them as a monotonic percentage of the precomputed total.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	last       int
	onProgress func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil && p.total > 0 {
			pct := int(p.sent * 100 / p.total)
			if pct > 100 {
				pct = 100
			}
			if pct > p.last {
				p.last = pct
				p.onProgress(pct)
			}
		}
	}
	return n, err
}
