package template

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"cardforge/internal/domain"
)

// Registry holds the set of known template definitions. It is read-mostly:
// registration normally happens once during startup, while lookups run for
// every generation and export. All methods are safe for concurrent use and
// lookups always observe fully-registered templates.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]domain.TemplateDefinition
	logger    *slog.Logger
}

// NewRegistry creates a Registry pre-populated with the built-in basic and
// cloze templates, so the exporter never has a "no template" failure mode.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		templates: make(map[string]domain.TemplateDefinition),
		logger:    logger.With("component", "template_registry"),
	}
	for _, tmpl := range builtinTemplates() {
		r.templates[tmpl.Name] = tmpl
	}
	return r
}

// Register adds a template definition to the registry. Re-registering a
// name with an identical field schema is a no-op, which keeps startup
// idempotent; registering it with a different schema fails with
// ErrDuplicateTemplate.
func (r *Registry) Register(tmpl domain.TemplateDefinition) error {
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("invalid template %q: %w", tmpl.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.templates[tmpl.Name]; ok {
		if !existing.SchemaEqual(tmpl) {
			return fmt.Errorf("%w: %q", ErrDuplicateTemplate, tmpl.Name)
		}
		// Same schema: refresh markup/assets, keep the registration.
		r.templates[tmpl.Name] = tmpl
		r.logger.Debug("template re-registered", "name", tmpl.Name)
		return nil
	}

	r.templates[tmpl.Name] = tmpl
	r.logger.Info("template registered",
		"name", tmpl.Name,
		"fields", len(tmpl.Fields),
		"is_cloze", tmpl.IsCloze,
		"stable_id", tmpl.StableID)
	return nil
}

// Get returns the template registered under name. Lookup is case-sensitive.
func (r *Registry) Get(name string) (domain.TemplateDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[name]
	if !ok {
		return domain.TemplateDefinition{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return tmpl, nil
}

// List returns the names of all registered templates, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
