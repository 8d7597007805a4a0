// Package anki writes deck packages (.apkg files) importable by the Anki
// spaced-repetition application. A package is a zip archive holding a
// collection database (SQLite, schema version 11) with embedded model,
// deck and note definitions, plus a media manifest.
//
// Identifiers are deterministic on purpose: model IDs come from the
// caller (derived from template names), deck IDs hash the deck name, and
// note IDs derive from note content. Re-exporting the same deck therefore
// merges on import instead of duplicating.
package anki
