package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/moviarr/internal/models"
	"github.com/sirupsen/logrus"
)

// SettingsHandler handles the user preference endpoints: the last-viewed
// list and the preferred view mode.
type SettingsHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(db *models.Database, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		db:     db,
		logger: logger,
	}
}

type settingsPayload struct {
	CurrentList string `json:"current_list,omitempty"`
	ViewMode    string `json:"view_mode,omitempty"`
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	currentList, err := h.db.GetSetting(models.SettingCurrentList)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	viewMode, err := h.db.GetSetting(models.SettingViewMode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if viewMode == "" {
		viewMode = models.ViewModeCard
	}
	writeJSON(w, http.StatusOK, settingsPayload{CurrentList: currentList, ViewMode: viewMode})
}

// Put handles PUT /api/settings — only the fields present in the body
// are written.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var body settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, &models.ValidationError{Field: "body", Reason: "not a valid JSON object"})
		return
	}

	if body.ViewMode != "" && body.ViewMode != models.ViewModeCard && body.ViewMode != models.ViewModeList {
		writeError(w, h.logger, &models.ValidationError{Field: "view_mode", Reason: "must be \"card\" or \"list\""})
		return
	}

	if body.CurrentList != "" {
		if err := h.db.PutSetting(models.SettingCurrentList, body.CurrentList); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	if body.ViewMode != "" {
		if err := h.db.PutSetting(models.SettingViewMode, body.ViewMode); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	h.Get(w, r)
}
