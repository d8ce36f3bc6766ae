package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amaumene/moviarr/internal/controllers"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func newTestRouter(t *testing.T) (*mux.Router, *controllers.CatalogController) {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	catalog := controllers.NewCatalogController(db, logger)
	handler := NewListsHandler(catalog, nil, logger)

	router := mux.NewRouter()
	router.HandleFunc("/api/lists", handler.Index).Methods(http.MethodGet)
	router.HandleFunc("/api/lists", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/lists/{listId}", handler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/lists/{listId}/entries", handler.AddEntry).Methods(http.MethodPost)
	router.HandleFunc("/api/lists/{listId}/import", handler.Import).Methods(http.MethodPost)
	router.HandleFunc("/api/lists/{listId}/export", handler.Export).Methods(http.MethodGet)

	return router, catalog
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateListEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/api/lists", `{"year": "2025", "title": "Horror"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doRequest(t, router, http.MethodPost, "/api/lists", `{"year": "25", "title": "Horror"}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad year, got %d", resp.Code)
	}
}

func TestGetListNotFoundEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doRequest(t, router, http.MethodGet, "/api/lists/missing", "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.Code)
	}
}

func TestImportExportRoundTripEndpoint(t *testing.T) {
	router, catalog := newTestRouter(t)

	source, err := catalog.Create("2025", "Source")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	catalog.AddEntry(source, 550)
	catalog.AddEntry(source, 551)
	catalog.ToggleWatched(source, 551)

	exportResp := doRequest(t, router, http.MethodGet, "/api/lists/"+source.ID+"/export", "")
	if exportResp.Code != http.StatusOK {
		t.Fatalf("Export failed with %d", exportResp.Code)
	}
	disposition := exportResp.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "2025_source.json") {
		t.Errorf("Unexpected Content-Disposition: %q", disposition)
	}

	target, err := catalog.Create("2026", "Target")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	importResp := doRequest(t, router, http.MethodPost,
		"/api/lists/"+target.ID+"/import", exportResp.Body.String())
	if importResp.Code != http.StatusOK {
		t.Fatalf("Import failed with %d: %s", importResp.Code, importResp.Body.String())
	}

	var importResult struct {
		Added int    `json:"added"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(importResp.Body.Bytes(), &importResult); err != nil {
		t.Fatalf("Failed to decode import response: %v", err)
	}
	if importResult.Added != 2 {
		t.Errorf("Expected 2 added, got %d", importResult.Added)
	}
	// The exported snapshot carries the source title, which renames the
	// target on import.
	if importResult.Title != "Source" {
		t.Errorf("Expected imported title to apply, got %q", importResult.Title)
	}

	reloaded, err := catalog.Load(target.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(reloaded.Entries) != 2 {
		t.Fatalf("Expected 2 entries after import, got %d", len(reloaded.Entries))
	}
	if !reloaded.Entries[1].Watched {
		t.Error("Watched state lost through export/import round trip")
	}

	// Importing the same snapshot again adds nothing.
	repeatResp := doRequest(t, router, http.MethodPost,
		"/api/lists/"+target.ID+"/import", exportResp.Body.String())
	if err := json.Unmarshal(repeatResp.Body.Bytes(), &importResult); err != nil {
		t.Fatalf("Failed to decode repeat import response: %v", err)
	}
	if importResult.Added != 0 {
		t.Errorf("Repeat import should add 0, got %d", importResult.Added)
	}
}

func TestAddEntryEndpointValidation(t *testing.T) {
	router, catalog := newTestRouter(t)

	list, err := catalog.Create("2025", "X")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := doRequest(t, router, http.MethodPost, "/api/lists/"+list.ID+"/entries", `{"id": 0}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-positive ID, got %d", resp.Code)
	}

	resp = doRequest(t, router, http.MethodPost, "/api/lists/"+list.ID+"/entries", `{"id": 550}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("AddEntry failed with %d", resp.Code)
	}
	var result struct {
		Added bool `json:"added"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Added {
		t.Error("Expected added=true")
	}
}
