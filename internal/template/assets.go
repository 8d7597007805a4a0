package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cardforge/internal/domain"
)

// Asset file names expected inside each template directory.
const (
	manifestFile = "template.json"
	frontFile    = "front.html"
	backFile     = "back.html"
	styleFile    = "style.css"
)

// manifest is the on-disk description of a template's schema.
type manifest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
	IsCloze     bool     `json:"is_cloze"`
}

// LoadDir scans an asset directory for template definitions and registers
// each one. Every immediate subdirectory containing a template.json
// manifest becomes one template; front/back markup and CSS are read from
// sibling files when present. A missing or empty directory is not an
// error: the built-ins already guarantee a usable registry.
func LoadDir(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read template directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tmpl, err := loadOne(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to load template from %s: %w", entry.Name(), err)
		}
		if tmpl == nil {
			continue
		}
		if err := reg.Register(*tmpl); err != nil {
			return err
		}
	}
	return nil
}

// loadOne reads a single template directory. Returns (nil, nil) when the
// directory carries no manifest.
func loadOne(dir string) (*domain.TemplateDefinition, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = filepath.Base(dir)
	}

	tmpl, err := domain.NewTemplateDefinition(m.Name, m.Fields)
	if err != nil {
		return nil, err
	}
	tmpl.Description = m.Description
	tmpl.IsCloze = m.IsCloze
	tmpl.FrontMarkup = readOptional(filepath.Join(dir, frontFile))
	tmpl.BackMarkup = readOptional(filepath.Join(dir, backFile))
	tmpl.CSS = readOptional(filepath.Join(dir, styleFile))

	// Markup that references clozes marks the template as cloze even when
	// the manifest forgot to say so.
	if strings.Contains(tmpl.FrontMarkup, "{{cloze:") {
		tmpl.IsCloze = true
	}

	return &tmpl, nil
}

func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
