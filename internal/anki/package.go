package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cardforge/internal/domain"

	_ "modernc.org/sqlite"
)

const (
	schemaVersion = 11
	fieldSep      = "\x1f"
)

// Package is a set of decks destined for a single .anki2 collection
// wrapped in a .apkg archive.
type Package struct {
	Decks []*Deck

	// Timestamp stamps col/notes/cards modification times. A zero value
	// falls back to a fixed epoch so repeated exports of the same cards
	// produce identical archives.
	Timestamp time.Time
}

// NewPackage builds a package from one or more decks.
func NewPackage(decks ...*Deck) *Package {
	return &Package{Decks: decks}
}

// WriteTo writes the package as a .apkg archive at path. The archive
// contains the collection database plus an empty media manifest.
func (p *Package) WriteTo(path string) error {
	if len(p.Decks) == 0 {
		return ErrNoDecks
	}
	for _, d := range p.Decks {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("deck %q: %w", d.Name, err)
		}
	}

	tmpDir, err := os.MkdirTemp("", "cardforge-apkg-*")
	if err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")
	if err := p.writeCollection(dbPath); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}

	return writeArchive(path, dbPath)
}

func (p *Package) writeCollection(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Unix(1700000000, 0)
	}
	mod := ts.Unix()

	models := make(map[string]any)
	decks := map[string]any{
		"1": deckJSON(1, "Default", "", mod),
	}
	for _, d := range p.Decks {
		decks[idKey(d.ID)] = deckJSON(d.ID, d.Name, d.Description, mod)
		for _, n := range d.Notes {
			models[idKey(n.Model.ID)] = modelJSON(n.Model, mod)
		}
	}

	conf, err := json.Marshal(collectionConf())
	if err != nil {
		return err
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}
	decksJSON, err := json.Marshal(decks)
	if err != nil {
		return err
	}
	dconfJSON, err := json.Marshal(defaultDeckConf())
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		mod, mod*1000, mod*1000, schemaVersion,
		string(conf), string(modelsJSON), string(decksJSON), string(dconfJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting collection row: %w", err)
	}

	noteStmt, err := tx.Prepare(
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, ?, ?, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	// Note IDs derive from field content, so the dedupe below is global
	// across decks: a note with identical fields destined for a second
	// deck collapses into the first deck's note. Anki itself would merge
	// such notes on import, since it dedupes by guid collection-wide.
	seen := make(map[int64]bool)
	for _, d := range p.Decks {
		for _, n := range d.Notes {
			fields := renderFields(n.Fields)
			guid := noteGUID(fields)
			nid := noteID(guid)
			if seen[nid] {
				continue
			}
			seen[nid] = true

			_, err := noteStmt.Exec(
				nid, guid, n.Model.ID, mod,
				renderTags(n.Tags),
				strings.Join(fields, fieldSep),
				fields[0],
				fieldChecksum(fields[0]),
			)
			if err != nil {
				return fmt.Errorf("inserting note: %w", err)
			}

			for _, ord := range cardOrdinals(n.Model, fields) {
				_, err := cardStmt.Exec(cardID(guid, ord), nid, d.ID, ord, mod)
				if err != nil {
					return fmt.Errorf("inserting card: %w", err)
				}
			}
		}
	}

	return tx.Commit()
}

// renderFields converts note field values to their stored HTML form.
// Anki treats field content as HTML, so literal newlines become breaks.
func renderFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.ReplaceAll(f, "\n", "<br>")
	}
	return out
}

// renderTags produces the space-padded tag string Anki stores.
func renderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

// cardOrdinals picks the card templates a note generates. Standard
// models emit one card per template. Cloze models emit one card per
// distinct cloze ordinal found in the fields, or the first ordinal
// when the content carries no deletions.
func cardOrdinals(m *Model, fields []string) []int {
	if m.Type != ModelTypeCloze {
		ords := make([]int, len(m.Templates))
		for i := range m.Templates {
			ords[i] = i
		}
		return ords
	}

	distinct := make(map[int]bool)
	for _, f := range fields {
		for _, n := range domain.ClozeOrdinals(f) {
			distinct[n-1] = true
		}
	}
	if len(distinct) == 0 {
		return []int{0}
	}
	ords := make([]int, 0, len(distinct))
	for ord := range distinct {
		ords = append(ords, ord)
	}
	sort.Ints(ords)
	return ords
}

func writeArchive(path, dbPath string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	dbFile, err := os.Open(dbPath)
	if err != nil {
		zw.Close()
		return err
	}
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: "collection.anki2", Method: zip.Deflate})
	if err != nil {
		dbFile.Close()
		zw.Close()
		return err
	}
	if _, err := io.Copy(entry, dbFile); err != nil {
		dbFile.Close()
		zw.Close()
		return fmt.Errorf("copying collection into archive: %w", err)
	}
	dbFile.Close()

	media, err := zw.CreateHeader(&zip.FileHeader{Name: "media", Method: zip.Deflate})
	if err != nil {
		zw.Close()
		return err
	}
	if _, err := media.Write([]byte("{}")); err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return out.Close()
}
