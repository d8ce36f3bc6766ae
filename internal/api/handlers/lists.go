package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/amaumene/moviarr/internal/controllers"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/amaumene/moviarr/internal/utils"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ListsHandler handles movie list requests
type ListsHandler struct {
	catalog  *controllers.CatalogController
	resolver *controllers.ResolverController
	logger   *logrus.Logger
}

// NewListsHandler creates a new lists handler
func NewListsHandler(catalog *controllers.CatalogController, resolver *controllers.ResolverController, logger *logrus.Logger) *ListsHandler {
	return &ListsHandler{
		catalog:  catalog,
		resolver: resolver,
		logger:   logger,
	}
}

// storageWarning extracts the user-facing warning for a StorageError.
// The mutation already took effect in memory, so the request still
// succeeds; the caller is told the change may not survive a restart.
func storageWarning(err error) (string, bool) {
	var storage *models.StorageError
	if errors.As(err, &storage) {
		return "change applied but could not be saved; it may be lost on restart", true
	}
	return "", false
}

// listResponse is a loaded list plus its watched tally.
type listResponse struct {
	ID           string              `json:"id"`
	Year         string              `json:"year"`
	Title        string              `json:"title"`
	Movies       []models.MovieEntry `json:"movies"`
	WatchedCount int                 `json:"watched_count"`
	TotalCount   int                 `json:"total_count"`
	Warning      string              `json:"warning,omitempty"`
}

func newListResponse(list *models.MovieList, warning string) listResponse {
	return listResponse{
		ID:           list.ID,
		Year:         list.Year,
		Title:        list.Title,
		Movies:       list.Entries,
		WatchedCount: list.WatchedCount(),
		TotalCount:   len(list.Entries),
		Warning:      warning,
	}
}

// Index handles GET /api/lists
func (h *ListsHandler) Index(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.catalog.ListAll()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Create handles POST /api/lists
func (h *ListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Year  string `json:"year"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, &models.ValidationError{Field: "body", Reason: "not a valid JSON object"})
		return
	}

	list, err := h.catalog.Create(body.Year, body.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newListResponse(list, ""))
}

// Get handles GET /api/lists/{listId}
func (h *ListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Load(mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(list, ""))
}

// Update handles PATCH /api/lists/{listId} (rename title / change year)
func (h *ListsHandler) Update(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Load(mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		Year  string `json:"year"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, &models.ValidationError{Field: "body", Reason: "not a valid JSON object"})
		return
	}
	if body.Year == "" {
		body.Year = list.Year
	}
	if body.Title == "" {
		body.Title = list.Title
	}

	var warning string
	if err := h.catalog.Rename(list, body.Year, body.Title); err != nil {
		if msg, ok := storageWarning(err); ok {
			warning = msg
		} else {
			writeError(w, h.logger, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, newListResponse(list, warning))
}

// Delete handles DELETE /api/lists/{listId}
func (h *ListsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(mux.Vars(r)["listId"]); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddEntry handles POST /api/lists/{listId}/entries
func (h *ListsHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Load(mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID <= 0 {
		writeError(w, h.logger, &models.ValidationError{Field: "id", Reason: "must be a positive TMDB ID"})
		return
	}

	added, err := h.catalog.AddEntry(list, body.ID)
	warning, ok := storageWarning(err)
	if err != nil && !ok {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added":   added,
		"warning": warning,
	})
}

// RemoveEntry handles DELETE /api/lists/{listId}/entries/{tmdbId}
func (h *ListsHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	list, tmdbID, err := h.loadListEntry(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	removed, err := h.catalog.RemoveEntry(list, tmdbID)
	warning, ok := storageWarning(err)
	if err != nil && !ok {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
		"warning": warning,
	})
}

// ToggleEntry handles POST /api/lists/{listId}/entries/{tmdbId}/toggle
func (h *ListsHandler) ToggleEntry(w http.ResponseWriter, r *http.Request) {
	list, tmdbID, err := h.loadListEntry(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	watched, err := h.catalog.ToggleWatched(list, tmdbID)
	warning, ok := storageWarning(err)
	if err != nil && !ok {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"watched":       watched,
		"watched_count": list.WatchedCount(),
		"total_count":   len(list.Entries),
		"warning":       warning,
	})
}

// Import handles POST /api/lists/{listId}/import
func (h *ListsHandler) Import(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Load(mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, h.logger, &models.ValidationError{Field: "import file", Reason: "unreadable body"})
		return
	}

	file, err := controllers.ParseImport(data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// The import format may carry a title; a differing one renames the
	// target list, matching the original import behavior.
	if file.Title != "" && file.Title != list.Title {
		list.Title = file.Title
	}

	added, err := h.catalog.MergeImport(list, file.Movies)
	warning, ok := storageWarning(err)
	if err != nil && !ok {
		writeError(w, h.logger, err)
		return
	}
	if added == 0 && warning == "" {
		// Title rename alone still needs persisting.
		if err := h.catalog.Save(list); err != nil {
			warning, _ = storageWarning(err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added":   added,
		"title":   list.Title,
		"warning": warning,
	})
}

// Export handles GET /api/lists/{listId}/export
func (h *ListsHandler) Export(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Load(mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	snapshot := h.catalog.ExportData(list)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		"attachment; filename=\""+utils.ExportFilename(list.Year, list.Title)+"\"")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.Encode(snapshot)
}

// Movies handles GET /api/lists/{listId}/movies — resolves the whole
// list into enriched records, in list order, skipping entries whose
// metadata fetch failed.
func (h *ListsHandler) Movies(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Load(mux.Vars(r)["listId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resolved, diagnostics := h.resolver.Resolve(r.Context(), list.Entries)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":         list.Title,
		"year":          list.Year,
		"movies":        resolved,
		"diagnostics":   diagnostics,
		"watched_count": list.WatchedCount(),
		"total_count":   len(list.Entries),
	})
}

func (h *ListsHandler) loadListEntry(r *http.Request) (*models.MovieList, int64, error) {
	vars := mux.Vars(r)
	list, err := h.catalog.Load(vars["listId"])
	if err != nil {
		return nil, 0, err
	}
	tmdbID, err := strconv.ParseInt(vars["tmdbId"], 10, 64)
	if err != nil || tmdbID <= 0 {
		return nil, 0, &models.ValidationError{Field: "id", Reason: "must be a positive TMDB ID"}
	}
	return list, tmdbID, nil
}
