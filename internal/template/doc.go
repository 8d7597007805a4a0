// Package template manages card template definitions: the built-in basic
// and cloze templates, templates loaded from an asset directory, and a
// read-mostly registry the rest of the core resolves templates through.
package template
