package controllers

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"

	"github.com/amaumene/moviarr/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ImportFile is the import/export interchange format: an optional title
// plus the entry snapshot. Round-trips through MergeImport.
type ImportFile struct {
	Title  string              `json:"title,omitempty"`
	Movies []models.MovieEntry `json:"movies"`
}

// CatalogController owns the movie lists: creation, deletion, entry
// mutation, and import/export. All mutations persist the full list
// representation; a failed write keeps the in-memory change and surfaces
// a StorageError so the caller can warn that it may not survive a
// restart.
type CatalogController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewCatalogController creates a new catalog controller.
func NewCatalogController(db *models.Database, logger *logrus.Logger) *CatalogController {
	return &CatalogController{
		db:     db,
		logger: logger,
	}
}

// ListAll returns the list index sorted by year descending, then title
// ascending, the deterministic order used to populate selection UI.
func (c *CatalogController) ListAll() ([]models.ListSummary, error) {
	lists, err := c.db.GetAllLists()
	if err != nil {
		return nil, err
	}

	sort.Slice(lists, func(i, j int) bool {
		if lists[i].Year != lists[j].Year {
			return lists[i].Year > lists[j].Year
		}
		return lists[i].Title < lists[j].Title
	})

	summaries := make([]models.ListSummary, 0, len(lists))
	for _, list := range lists {
		summaries = append(summaries, models.ListSummary{
			ID:    list.ID,
			Year:  list.Year,
			Title: list.Title,
		})
	}
	return summaries, nil
}

// Load retrieves a list by ID.
func (c *CatalogController) Load(listID string) (*models.MovieList, error) {
	return c.db.GetListByID(listID)
}

// Save fully overwrites the persisted representation of a list.
func (c *CatalogController) Save(list *models.MovieList) error {
	if err := c.db.SaveList(list); err != nil {
		return &models.StorageError{Op: "save list", Err: err}
	}
	return nil
}

// Create validates year and title, then persists a new empty list under
// a fresh unique ID.
func (c *CatalogController) Create(year, title string) (*models.MovieList, error) {
	if !yearPattern.MatchString(year) {
		return nil, &models.ValidationError{Field: "year", Reason: "must be a 4-digit year"}
	}
	if title == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	list := &models.MovieList{
		ID:      uuid.NewString(),
		Year:    year,
		Title:   title,
		Entries: []models.MovieEntry{},
	}
	if err := c.db.InsertList(list); err != nil {
		return nil, &models.StorageError{Op: "create list", Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"list_id": list.ID,
		"year":    year,
		"title":   title,
	}).Info("Created movie list")
	return list, nil
}

// Rename updates a list's title and year in place, with the same
// validation as Create.
func (c *CatalogController) Rename(list *models.MovieList, year, title string) error {
	if !yearPattern.MatchString(year) {
		return &models.ValidationError{Field: "year", Reason: "must be a 4-digit year"}
	}
	if title == "" {
		return &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	list.Year = year
	list.Title = title
	return c.Save(list)
}

// Delete removes a list permanently. Deleting an unknown ID is a no-op.
func (c *CatalogController) Delete(listID string) error {
	if err := c.db.DeleteList(listID); err != nil {
		return &models.StorageError{Op: "delete list", Err: err}
	}
	c.logger.WithField("list_id", listID).Info("Deleted movie list")
	return nil
}

// AddEntry appends an unwatched entry for tmdbID unless the list already
// contains it. Returns whether an entry was added.
func (c *CatalogController) AddEntry(list *models.MovieList, tmdbID int64) (bool, error) {
	if list.HasEntry(tmdbID) {
		return false, nil
	}

	list.Entries = append(list.Entries, models.MovieEntry{TMDBID: tmdbID, Watched: false})
	return true, c.Save(list)
}

// RemoveEntry removes the entry for tmdbID. Returns whether an entry was
// removed.
func (c *CatalogController) RemoveEntry(list *models.MovieList, tmdbID int64) (bool, error) {
	for i, entry := range list.Entries {
		if entry.TMDBID == tmdbID {
			list.Entries = append(list.Entries[:i], list.Entries[i+1:]...)
			return true, c.Save(list)
		}
	}
	return false, nil
}

// ToggleWatched flips the watched flag of the entry for tmdbID and
// returns the new state. Signals a NotFoundError when the entry is
// absent.
func (c *CatalogController) ToggleWatched(list *models.MovieList, tmdbID int64) (bool, error) {
	for i := range list.Entries {
		if list.Entries[i].TMDBID == tmdbID {
			list.Entries[i].Watched = !list.Entries[i].Watched
			return list.Entries[i].Watched, c.Save(list)
		}
	}
	return false, &models.NotFoundError{Resource: "entry", ID: strconv.FormatInt(tmdbID, 10)}
}

// MergeImport appends incoming entries whose TMDB ID is not already in
// the list, checking against the list's current entries plus entries
// accepted earlier in the same call, so duplicates inside incoming are
// collapsed to one. Returns how many entries were newly added.
func (c *CatalogController) MergeImport(list *models.MovieList, incoming []models.MovieEntry) (int, error) {
	seen := make(map[int64]bool, len(list.Entries))
	for _, entry := range list.Entries {
		seen[entry.TMDBID] = true
	}

	added := 0
	for _, entry := range incoming {
		if seen[entry.TMDBID] {
			continue
		}
		seen[entry.TMDBID] = true
		list.Entries = append(list.Entries, entry)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	c.logger.WithFields(logrus.Fields{
		"list_id": list.ID,
		"added":   added,
	}).Info("Merged imported entries")
	return added, c.Save(list)
}

// ExportData builds a serializable snapshot of a list suitable for
// round-tripping through MergeImport on another list.
func (c *CatalogController) ExportData(list *models.MovieList) ImportFile {
	movies := make([]models.MovieEntry, len(list.Entries))
	copy(movies, list.Entries)
	return ImportFile{
		Title:  list.Title,
		Movies: movies,
	}
}

// ParseImport decodes an import file. The file must be a JSON object
// with a movies array; individual items that are malformed (missing or
// non-numeric id, or a non-positive one) are silently dropped before the
// merge check, matching the forgiving import behavior of the UI format.
func ParseImport(data []byte) (*ImportFile, error) {
	var raw struct {
		Title  string            `json:"title"`
		Movies []json.RawMessage `json:"movies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &models.ValidationError{Field: "import file", Reason: "not a valid JSON object"}
	}
	if raw.Movies == nil {
		return nil, &models.ValidationError{Field: "import file", Reason: "missing movies array"}
	}

	file := &ImportFile{Title: raw.Title, Movies: []models.MovieEntry{}}
	for _, item := range raw.Movies {
		var entry struct {
			ID      *int64 `json:"id"`
			Watched bool   `json:"watched"`
		}
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		if entry.ID == nil || *entry.ID <= 0 {
			continue
		}
		file.Movies = append(file.Movies, models.MovieEntry{TMDBID: *entry.ID, Watched: entry.Watched})
	}
	return file, nil
}
