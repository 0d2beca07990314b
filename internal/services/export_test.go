package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/piclinks/piclinks/internal/shared"
)

func TestExportRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     ExportRequest
		wantErr error
	}{
		{"valid in_row", ExportRequest{AlbumName: "a", ExportType: ExportInRow}, nil},
		{"valid in_cell with article", ExportRequest{AlbumName: "a", ArticleName: "1", ExportType: ExportInCell}, nil},
		{"missing album", ExportRequest{ExportType: ExportInRow}, shared.ErrMissingArgument},
		{"missing type", ExportRequest{AlbumName: "a"}, shared.ErrMissingArgument},
		{"unknown type", ExportRequest{AlbumName: "a", ExportType: "sideways"}, shared.ErrInvalidArgument},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestExportRequest_Filename(t *testing.T) {
	req := &ExportRequest{AlbumName: "summer_2025", ExportType: ExportInRow}
	if got := req.Filename(); got != "links_summer_2025.xlsx" {
		t.Errorf("Filename() = %q", got)
	}

	req.ArticleName = "3"
	if got := req.Filename(); got != "links_summer_2025_3.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestExportService_RequestExport(t *testing.T) {
	xlsx := []byte("PK\x03\x04fake-spreadsheet-bytes")

	t.Run("saves spreadsheet to output directory", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/export-xlsx" {
				t.Errorf("request = %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			var req ExportRequest
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if req.AlbumName != "summer_2025" || req.ExportType != ExportInCell || req.Separator != ", " {
				t.Errorf("request body = %+v", req)
			}
			w.Write(xlsx)
		}))
		defer srv.Close()

		dir := t.TempDir()
		svc := NewExportService(NewAPIService(srv.URL, srv.Client()), dir)
		path, err := svc.RequestExport(context.Background(), &ExportRequest{
			AlbumName:  "summer_2025",
			ExportType: ExportInCell,
			Separator:  ", ",
		})
		if err != nil {
			t.Fatalf("RequestExport() error = %v", err)
		}
		if path != filepath.Join(dir, "links_summer_2025.xlsx") {
			t.Errorf("path = %q", path)
		}
		saved, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading saved file: %v", err)
		}
		if string(saved) != string(xlsx) {
			t.Error("saved bytes differ from the response body")
		}
	})

	t.Run("creates missing output directory", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(xlsx)
		}))
		defer srv.Close()

		dir := filepath.Join(t.TempDir(), "exports", "nested")
		svc := NewExportService(NewAPIService(srv.URL, srv.Client()), dir)
		path, err := svc.RequestExport(context.Background(), &ExportRequest{AlbumName: "a", ExportType: ExportInRow})
		if err != nil {
			t.Fatalf("RequestExport() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("saved file missing: %v", err)
		}
	})

	t.Run("invalid request never reaches the server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("server should not be called")
		}))
		defer srv.Close()

		svc := NewExportService(NewAPIService(srv.URL, srv.Client()), t.TempDir())
		_, err := svc.RequestExport(context.Background(), &ExportRequest{ExportType: ExportInRow})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("error = %v, want ErrMissingArgument", err)
		}
	})

	t.Run("rejection carries server message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"album not found"}`))
		}))
		defer srv.Close()

		svc := NewExportService(NewAPIService(srv.URL, srv.Client()), t.TempDir())
		_, err := svc.RequestExport(context.Background(), &ExportRequest{AlbumName: "gone", ExportType: ExportInRow})
		var rej *ServerRejection
		if !errors.As(err, &rej) {
			t.Fatalf("error = %v, want ServerRejection", err)
		}
		if rej.Message != "album not found" {
			t.Errorf("Message = %q", rej.Message)
		}
	})

	t.Run("bare failure is a status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		svc := NewExportService(NewAPIService(srv.URL, srv.Client()), t.TempDir())
		_, err := svc.RequestExport(context.Background(), &ExportRequest{AlbumName: "a", ExportType: ExportInRow})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("error = %v, want ErrAPIRequest", err)
		}
	})
}
