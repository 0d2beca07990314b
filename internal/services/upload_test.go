package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/piclinks/piclinks/internal/catalog"
	"github.com/piclinks/piclinks/internal/shared"
	internaltest "github.com/piclinks/piclinks/internal/testing"
)

func writeArchive(t *testing.T, name string, size int) *catalog.PendingSelection {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := append([]byte("PK\x03\x04"), make([]byte, size)...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat archive: %v", err)
	}
	return &catalog.PendingSelection{
		Source: catalog.SourcePicker,
		Path:   path,
		Name:   name,
		Size:   info.Size(),
	}
}

func TestUploadService_Submit(t *testing.T) {
	t.Run("uploads multipart archive", func(t *testing.T) {
		var gotField, gotName string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/upload" {
				t.Errorf("path = %s", r.URL.Path)
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parsing multipart: %v", err)
			}
			f, hdr, err := r.FormFile("zipfile")
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			defer f.Close()
			gotField, gotName = "zipfile", hdr.Filename
			if _, err := io.ReadAll(f); err != nil {
				t.Fatalf("reading part: %v", err)
			}
			w.Write([]byte(`{"message":"upload complete","album_name":"summer_2025"}`))
		}))
		defer srv.Close()

		svc := NewUploadService(NewAPIService(srv.URL, srv.Client()))
		result, err := svc.Submit(context.Background(), writeArchive(t, "summer.zip", 4096), nil)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if gotField != "zipfile" || gotName != "summer.zip" {
			t.Errorf("multipart part = (%q, %q)", gotField, gotName)
		}
		if result.AlbumName != "summer_2025" || result.Message != "upload complete" {
			t.Errorf("result = %+v", result)
		}
		if result.Derived {
			t.Error("Derived = true when the server named the album")
		}
	})

	t.Run("progress is monotonic and reaches 100", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{"album_name":"a"}`))
		}))
		defer srv.Close()

		var samples []int
		svc := NewUploadService(NewAPIService(srv.URL, srv.Client()))
		_, err := svc.Submit(context.Background(), writeArchive(t, "a.zip", 64*1024), func(pct int) {
			samples = append(samples, pct)
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if len(samples) == 0 {
			t.Fatal("no progress samples")
		}
		for i := 1; i < len(samples); i++ {
			if samples[i] < samples[i-1] {
				t.Fatalf("progress went backwards at %d: %v", i, samples)
			}
		}
		if last := samples[len(samples)-1]; last != 100 {
			t.Errorf("final sample = %d, want 100", last)
		}
	})

	t.Run("nil selection fails before any request", func(t *testing.T) {
		rt := internaltest.NewCountingRoundTripper(nil)
		svc := NewUploadService(NewAPIService("http://unreachable.test", &http.Client{Transport: rt}))

		_, err := svc.Submit(context.Background(), nil, nil)
		if !errors.Is(err, shared.ErrNoFileSelected) {
			t.Errorf("error = %v, want ErrNoFileSelected", err)
		}
		if rt.Calls() != 0 {
			t.Errorf("transport saw %d calls, want 0", rt.Calls())
		}
	})

	t.Run("non-zip name fails before any request", func(t *testing.T) {
		rt := internaltest.NewCountingRoundTripper(nil)
		svc := NewUploadService(NewAPIService("http://unreachable.test", &http.Client{Transport: rt}))

		sel := &catalog.PendingSelection{Path: "/tmp/photo.jpg", Name: "photo.jpg"}
		_, err := svc.Submit(context.Background(), sel, nil)
		if !errors.Is(err, shared.ErrInvalidFileType) {
			t.Errorf("error = %v, want ErrInvalidFileType", err)
		}
		if rt.Calls() != 0 {
			t.Errorf("transport saw %d calls, want 0", rt.Calls())
		}
	})

	t.Run("second submit during flight is rejected", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-release
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{"album_name":"a"}`))
		}))
		defer srv.Close()

		svc := NewUploadService(NewAPIService(srv.URL, srv.Client()))
		sel := writeArchive(t, "a.zip", 1024)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(context.Background(), sel, nil); err != nil {
				t.Errorf("first Submit() error = %v", err)
			}
		}()

		<-started
		if !svc.InFlight() {
			t.Error("InFlight() = false while the server holds the request")
		}
		_, err := svc.Submit(context.Background(), sel, nil)
		if !errors.Is(err, shared.ErrAlreadyInFlight) {
			t.Errorf("second Submit() error = %v, want ErrAlreadyInFlight", err)
		}

		close(release)
		wg.Wait()
		if svc.InFlight() {
			t.Error("InFlight() = true after completion")
		}
	})

	t.Run("missing album name derives from archive", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{"message":"stored"}`))
		}))
		defer srv.Close()

		svc := NewUploadService(NewAPIService(srv.URL, srv.Client()))
		result, err := svc.Submit(context.Background(), writeArchive(t, "Summer Trip.zip", 512), nil)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if !result.Derived {
			t.Error("Derived = false with an empty album_name")
		}
		if result.AlbumName != shared.AlbumNameFromArchive("Summer Trip.zip") {
			t.Errorf("AlbumName = %q", result.AlbumName)
		}
	})

	t.Run("server error body is a rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"archive is empty"}`))
		}))
		defer srv.Close()

		svc := NewUploadService(NewAPIService(srv.URL, srv.Client()))
		_, err := svc.Submit(context.Background(), writeArchive(t, "a.zip", 128), nil)
		var rej *ServerRejection
		if !errors.As(err, &rej) {
			t.Fatalf("error = %v, want ServerRejection", err)
		}
		if rej.Message != "archive is empty" {
			t.Errorf("Message = %q", rej.Message)
		}
	})

	t.Run("garbled success body is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`<html>ok</html>`))
		}))
		defer srv.Close()

		svc := NewUploadService(NewAPIService(srv.URL, srv.Client()))
		_, err := svc.Submit(context.Background(), writeArchive(t, "a.zip", 128), nil)
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("missing file on disk", func(t *testing.T) {
		svc := NewUploadService(NewAPIService("http://unreachable.test", http.DefaultClient))
		sel := &catalog.PendingSelection{Path: filepath.Join(t.TempDir(), "gone.zip"), Name: "gone.zip"}
		if _, err := svc.Submit(context.Background(), sel, nil); err == nil {
			t.Error("Submit() should fail for a missing archive")
		}
	})
}
