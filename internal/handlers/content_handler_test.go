package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/i18n"
)

func newContentRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bundle := i18n.Init()
	if err := i18n.LoadFromEmbedFS(bundle, testLogger()); err != nil {
		t.Fatalf("failed to load catalogs: %v", err)
	}

	router := gin.New()
	router.Use(i18n.Middleware())
	router.GET("/content/pages/:slug", NewContentHandler(testLogger()).GetPage)
	return router
}

func TestGetPage(t *testing.T) {
	router := newContentRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/content/pages/home", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ContentPageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Slug != "home" || resp.Language != "en" {
		t.Errorf("unexpected page envelope %+v", resp)
	}
	for _, field := range []string{"title", "subtitle", "cta"} {
		if resp.Content[field] == "" {
			t.Errorf("missing %s content", field)
		}
	}
}

func TestGetPage_Spanish(t *testing.T) {
	router := newContentRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/content/pages/about", nil)
	req.Header.Set("Accept-Language", "es-MX")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ContentPageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Language != "es" {
		t.Errorf("expected es, got %s", resp.Language)
	}
	if resp.Content["title"] == "" || resp.Content["title"] == "page.about.title" {
		t.Errorf("expected translated title, got %q", resp.Content["title"])
	}
}

func TestGetPage_UnknownSlug(t *testing.T) {
	router := newContentRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/content/pages/pricing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
