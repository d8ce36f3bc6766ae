package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFilename builds the download filename for an exported list,
// e.g. ("2025", "Spoop-a-thon!") -> "2025_spoop_a_thon_.json".
func ExportFilename(year, title string) string {
	sanitized := strings.ToLower(nonAlphanumeric.ReplaceAllString(title, "_"))
	return fmt.Sprintf("%s_%s.json", year, sanitized)
}
