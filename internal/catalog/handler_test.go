package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(store *Store) *chi.Mux {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewHandler(store, log, 2)
	r := chi.NewRouter()
	r.Get("/api/videos", h.ListVideos)
	r.Get("/api/videos/{id}", h.GetVideo)
	r.Get("/api/search", h.SearchVideos)
	r.Get("/api/categories", h.ListCategories)
	return r
}

func seededStore() *Store {
	store := NewStore()
	store.Replace(NewSnapshot([]Video{
		{ID: "a", Title: "Mountain Hike", Category: "/c/Travel-1"},
		{ID: "b", Title: "City Drive", Category: "/c/Travel-1"},
		{ID: "c", Title: "Guitar Lesson", Category: "/c/Music-2"},
	}))
	return store
}

func TestHandler_ListVideos_pagination(t *testing.T) {
	r := newTestRouter(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/videos?page=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp videosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || resp.Page != 2 || len(resp.Videos) != 1 {
		t.Errorf("page 2 of size 2: total=%d page=%d len=%d", resp.Total, resp.Page, len(resp.Videos))
	}
	if resp.Videos[0].ID != "c" {
		t.Errorf("page 2 first id = %q, want c", resp.Videos[0].ID)
	}
}

func TestHandler_ListVideos_category(t *testing.T) {
	r := newTestRouter(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/videos?category=%2Fc%2FMusic-2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp videosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Videos[0].ID != "c" {
		t.Errorf("category filter: total=%d videos=%+v", resp.Total, resp.Videos)
	}
}

func TestHandler_GetVideo(t *testing.T) {
	r := newTestRouter(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/videos/a", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/videos/zzz", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestHandler_SearchVideos(t *testing.T) {
	r := newTestRouter(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=mountain", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp videosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Videos[0].ID != "a" {
		t.Errorf("search: %+v", resp)
	}
}

func TestHandler_ListCategories(t *testing.T) {
	r := newTestRouter(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var cats []Category
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 3 || cats[0].Value != "all" {
		t.Errorf("categories = %+v", cats)
	}
}
