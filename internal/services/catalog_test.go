package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/piclinks/piclinks/internal/shared"
)

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *CatalogService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCatalogService(NewAPIService(srv.URL, srv.Client()))
}

func TestCatalogService_Albums(t *testing.T) {
	t.Run("returns server order", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/albums" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`["winter_2024","summer_2025"]`))
		})

		albums, err := svc.Albums(context.Background())
		if err != nil {
			t.Fatalf("Albums() error = %v", err)
		}
		if len(albums) != 2 || albums[0] != "winter_2024" || albums[1] != "summer_2025" {
			t.Errorf("Albums() = %v", albums)
		}
	})

	t.Run("null body yields empty slice", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		})

		albums, err := svc.Albums(context.Background())
		if err != nil {
			t.Fatalf("Albums() error = %v", err)
		}
		if albums == nil || len(albums) != 0 {
			t.Errorf("Albums() = %v, want empty non-nil slice", albums)
		}
	})

	t.Run("error body maps to rejection", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"index unavailable"}`))
		})

		_, err := svc.Albums(context.Background())
		var rej *ServerRejection
		if !errors.As(err, &rej) {
			t.Fatalf("error = %v, want ServerRejection", err)
		}
		if rej.Message != "index unavailable" || rej.Status != http.StatusInternalServerError {
			t.Errorf("rejection = %+v", rej)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Error("rejection should match ErrAPIRequest")
		}
	})

	t.Run("bare failure maps to status error", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := svc.Albums(context.Background())
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("error = %v, want StatusError", err)
		}
		if se.Status != http.StatusBadGateway {
			t.Errorf("Status = %d", se.Status)
		}
	})
}

func TestCatalogService_Articles(t *testing.T) {
	svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/articles/summer_2025" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`["1","2","10"]`))
	})

	articles, err := svc.Articles(context.Background(), "summer_2025")
	if err != nil {
		t.Fatalf("Articles() error = %v", err)
	}
	if len(articles) != 3 || articles[2] != "10" {
		t.Errorf("Articles() = %v", articles)
	}
}

func TestCatalogService_Files(t *testing.T) {
	svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/files" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[["shoe_1.jpg","summer_2025","1","http://s/shoe_1.jpg","2025-06-01",true]]`))
	})

	records, err := svc.Files(context.Background())
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d", len(records))
	}
	rec := records[0]
	if rec.Filename != "shoe_1.jpg" || rec.AlbumName != "summer_2025" || !rec.Published {
		t.Errorf("record = %+v", rec)
	}
}

func TestCatalogService_FilesFor(t *testing.T) {
	body := `[
		{"filename":"shoe_2.jpg","album_name":"summer_2025","article_number":"1","public_link":"http://s/shoe_2.jpg","thumbnail_url":"/thumbnails/shoe_2.jpg","file_size":2048},
		{"filename":"shoe_1.jpg","album_name":"summer_2025","article_number":"1","public_link":"http://s/shoe_1.jpg","thumbnail_url":"/thumbnails/shoe_1.jpg","file_size":1024}
	]`

	t.Run("album scope builds ordered view", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/thumbnails/summer_2025" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(body))
		})

		view, gen, err := svc.FilesFor(context.Background(), "summer_2025", "")
		if err != nil {
			t.Fatalf("FilesFor() error = %v", err)
		}
		if !svc.Current(gen) {
			t.Error("Current() = false right after the only fetch")
		}
		flat := view.Flat()
		if len(flat) != 2 {
			t.Fatalf("len(flat) = %d", len(flat))
		}
		if flat[0].Filename != "shoe_1.jpg" || flat[1].Filename != "shoe_2.jpg" {
			t.Errorf("order = %s, %s; want numeric suffix order", flat[0].Filename, flat[1].Filename)
		}
	})

	t.Run("article narrows the path", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/thumbnails/summer_2025/1" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(body))
		})

		if _, _, err := svc.FilesFor(context.Background(), "summer_2025", "1"); err != nil {
			t.Fatalf("FilesFor() error = %v", err)
		}
	})

	t.Run("newer fetch supersedes older generation", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		_, first, err := svc.FilesFor(context.Background(), "a", "")
		if err != nil {
			t.Fatalf("FilesFor() error = %v", err)
		}
		_, second, err := svc.FilesFor(context.Background(), "b", "")
		if err != nil {
			t.Fatalf("FilesFor() error = %v", err)
		}

		if svc.Current(first) {
			t.Error("first generation should be stale after a second fetch")
		}
		if !svc.Current(second) {
			t.Error("second generation should be current")
		}
	})

	t.Run("failed fetch still consumes a generation", func(t *testing.T) {
		fail := true
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if fail {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`[]`))
		})

		_, gen, err := svc.FilesFor(context.Background(), "a", "")
		if err == nil {
			t.Fatal("FilesFor() should fail")
		}

		fail = false
		if _, _, err := svc.FilesFor(context.Background(), "a", ""); err != nil {
			t.Fatalf("retry error = %v", err)
		}
		if svc.Current(gen) {
			t.Error("failed generation should be superseded by the retry")
		}
	})
}

func TestCatalogService_FetchImage(t *testing.T) {
	var gotPath string
	svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("pngbytes"))
	})

	t.Run("relative reference", func(t *testing.T) {
		data, ct, err := svc.FetchImage(context.Background(), "/thumbnails/shoe_1.jpg")
		if err != nil {
			t.Fatalf("FetchImage() error = %v", err)
		}
		if gotPath != "/thumbnails/shoe_1.jpg" {
			t.Errorf("path = %s", gotPath)
		}
		if string(data) != "pngbytes" || ct != "image/png" {
			t.Errorf("got (%q, %q)", data, ct)
		}
	})

	t.Run("absolute url is rebased onto the service", func(t *testing.T) {
		_, _, err := svc.FetchImage(context.Background(), "http://other-host.test/thumbnails/x.jpg")
		if err != nil {
			t.Fatalf("FetchImage() error = %v", err)
		}
		if gotPath != "/thumbnails/x.jpg" {
			t.Errorf("path = %s, want the URL's path only", gotPath)
		}
	})

	t.Run("missing image is a status error", func(t *testing.T) {
		missing := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		_, _, err := missing.FetchImage(context.Background(), "/thumbnails/gone.jpg")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("error = %v, want ErrAPIRequest", err)
		}
	})
}

func TestCatalogService_Admin(t *testing.T) {
	t.Run("publish posts and returns message", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/publish/shoe_1.jpg" {
				t.Errorf("request = %s %s", r.Method, r.URL.Path)
			}
			w.Write([]byte(`{"message":"published shoe_1.jpg"}`))
		})

		msg, err := svc.Publish(context.Background(), "shoe_1.jpg")
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if msg != "published shoe_1.jpg" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("unpublish posts to its path", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/unpublish/shoe_1.jpg" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"message":"done"}`))
		})

		if _, err := svc.Unpublish(context.Background(), "shoe_1.jpg"); err != nil {
			t.Fatalf("Unpublish() error = %v", err)
		}
	})

	t.Run("sync is a get", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/api/sync" {
				t.Errorf("request = %s %s", r.Method, r.URL.Path)
			}
			w.Write([]byte(`{"message":"synced 12 files"}`))
		})

		msg, err := svc.Sync(context.Background())
		if err != nil {
			t.Fatalf("Sync() error = %v", err)
		}
		if msg != "synced 12 files" {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("delete album uses delete method", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/api/delete-album/summer_2025" {
				t.Errorf("request = %s %s", r.Method, r.URL.Path)
			}
			w.Write([]byte(`{"message":"album removed"}`))
		})

		if _, err := svc.DeleteAlbum(context.Background(), "summer_2025"); err != nil {
			t.Fatalf("DeleteAlbum() error = %v", err)
		}
	})

	t.Run("delete article addresses album and article", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/delete-article/summer_2025/1" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"message":"article removed"}`))
		})

		if _, err := svc.DeleteArticle(context.Background(), "summer_2025", "1"); err != nil {
			t.Fatalf("DeleteArticle() error = %v", err)
		}
	})

	t.Run("rejection surfaces server message", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no such file"}`))
		})

		_, err := svc.Publish(context.Background(), "gone.jpg")
		var rej *ServerRejection
		if !errors.As(err, &rej) {
			t.Fatalf("error = %v, want ServerRejection", err)
		}
		if rej.Message != "no such file" {
			t.Errorf("Message = %q", rej.Message)
		}
	})

	t.Run("malformed success body", func(t *testing.T) {
		svc := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})

		_, err := svc.Sync(context.Background())
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})
}
