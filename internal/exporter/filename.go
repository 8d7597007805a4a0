package exporter

import (
	"regexp"
	"strings"
	"time"

	"cardforge/internal/domain"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeBasename reduces a caller-supplied name to a filesystem-safe
// token. Path separators and shell-hostile characters are collapsed to
// underscores so a hostile deck name can never escape the export directory.
func sanitizeBasename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "cards"
	}
	return name
}

// artifactName builds the canonical export filename. Artifacts are never
// overwritten: each export run gets a fresh timestamped name and older
// files stay on disk for history browsing.
func artifactName(ts time.Time, suffix string, format domain.ExportFormat) string {
	return "cards_" + ts.Format("20060102_150405") + "_" + sanitizeBasename(suffix) + "." + format.Ext()
}
