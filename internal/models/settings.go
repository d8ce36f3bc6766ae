package models

// Setting is a single scalar preference persisted alongside the lists,
// e.g. the last-viewed list ID or the preferred view mode.
type Setting struct {
	Key   string `boltholdKey:"Key"`
	Value string
}

// Setting keys.
const (
	SettingCurrentList = "current-list"
	SettingViewMode    = "view-mode"
)

// View modes accepted for SettingViewMode.
const (
	ViewModeCard = "card"
	ViewModeList = "list"
)
