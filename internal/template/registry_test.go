package template

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardforge/internal/domain"
)

func testRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistryBuiltins(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	basic, err := reg.Get(BasicName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Front", "Back"}, basic.Fields)
	assert.True(t, basic.HasMarkup())

	cloze, err := reg.Get(ClozeName)
	require.NoError(t, err)
	assert.True(t, cloze.IsCloze)
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	tmpl, err := domain.NewTemplateDefinition("vocab", []string{"Word", "Meaning", "Example"})
	require.NoError(t, err)
	require.NoError(t, reg.Register(tmpl))

	got, err := reg.Get("vocab")
	require.NoError(t, err)
	assert.Equal(t, tmpl.Fields, got.Fields)

	// Lookup is case-sensitive.
	_, err = reg.Get("Vocab")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRegistryIdempotentReRegister(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	tmpl, err := domain.NewTemplateDefinition("vocab", []string{"Word", "Meaning"})
	require.NoError(t, err)
	require.NoError(t, reg.Register(tmpl))

	// Same name and schema: no-op, supports idempotent startup.
	require.NoError(t, reg.Register(tmpl))

	// Same name, different schema: rejected.
	other, err := domain.NewTemplateDefinition("vocab", []string{"Word", "Meaning", "Example"})
	require.NoError(t, err)
	assert.ErrorIs(t, reg.Register(other), ErrDuplicateTemplate)
}

func TestRegistryList(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	names := reg.List()
	assert.Contains(t, names, BasicName)
	assert.Contains(t, names, ClozeName)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := testRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tmpl, err := domain.NewTemplateDefinition("concurrent", []string{"A", "B"})
			if err != nil {
				t.Error(err)
				return
			}
			_ = reg.Register(tmpl)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if tmpl, err := reg.Get("concurrent"); err == nil {
					// A lookup must never observe a torn template.
					if len(tmpl.Fields) != 2 {
						t.Errorf("observed partially registered template: %v", tmpl.Fields)
					}
				}
				_ = reg.List()
			}
		}()
	}
	wg.Wait()
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "quiz")
	require.NoError(t, os.MkdirAll(tmplDir, 0o755))

	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(tmplDir, name), []byte(content), 0o644))
	}
	writeFile("template.json", `{"name":"quiz","description":"quiz cards","fields":["Front","Back","Deck","Tags"]}`)
	writeFile("front.html", "<div class=q>{{Front}}</div>")
	writeFile("back.html", "<div class=a>{{Back}}</div>")
	writeFile("style.css", ".q { font-weight: bold; }")

	reg := testRegistry()
	require.NoError(t, LoadDir(reg, dir))

	tmpl, err := reg.Get("quiz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Front", "Back", "Deck", "Tags"}, tmpl.Fields)
	assert.Contains(t, tmpl.FrontMarkup, "{{Front}}")
	assert.Contains(t, tmpl.CSS, "font-weight")
	assert.False(t, tmpl.IsCloze)
}

func TestLoadDirMissing(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	// A missing directory is fine: built-ins still cover the registry.
	require.NoError(t, LoadDir(reg, filepath.Join(t.TempDir(), "nope")))
	assert.Len(t, reg.List(), 2)
}

func TestLoadDirDetectsClozeMarkup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "enhanced")
	require.NoError(t, os.MkdirAll(tmplDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "template.json"),
		[]byte(`{"fields":["Content","Back Extra"]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "front.html"),
		[]byte("{{cloze:Content}}"), 0o644))

	reg := testRegistry()
	require.NoError(t, LoadDir(reg, dir))

	tmpl, err := reg.Get("enhanced")
	require.NoError(t, err)
	assert.True(t, tmpl.IsCloze)
}

func TestFallback(t *testing.T) {
	t.Parallel()

	basic := Fallback(false)
	assert.Equal(t, BasicName, basic.Name)
	assert.True(t, basic.HasMarkup())

	cloze := Fallback(true)
	assert.Equal(t, ClozeName, cloze.Name)
	assert.True(t, cloze.IsCloze)
}

func TestRegisterInvalidTemplate(t *testing.T) {
	t.Parallel()

	reg := testRegistry()
	err := reg.Register(domain.TemplateDefinition{Name: "bad"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyFieldSchema))
}
