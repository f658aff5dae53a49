package shortcode

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Namespace is the template directory holding shortcode templates.
const Namespace = "shortcodes/"

// Registry maps shortcode names to the template that renders them.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]string),
	}
}

// NewRegistryFromNames registers every template under Namespace. Names are
// visited in sorted order so the first of two colliding templates wins; the
// collision is logged.
func NewRegistryFromNames(names []string, logger interfaces.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOp()
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	registry := NewRegistry()
	for _, name := range sorted {
		if !strings.HasPrefix(name, Namespace) {
			continue
		}
		if err := registry.Register(name); err != nil {
			existing, _ := registry.Lookup(baseName(name))
			logger.Warn("shortcode.registry.skipped", "template", name, "existing", existing, "error", err)
		}
	}
	logger.Debug("shortcode.registry.loaded", "count", registry.Len())
	return registry
}

// NewRegistryFromCatalog registers the shortcode templates a renderer
// can resolve. A nil catalog yields an empty registry.
func NewRegistryFromCatalog(catalog interfaces.TemplateCatalog, logger interfaces.Logger) *Registry {
	if catalog == nil {
		return NewRegistryFromNames(nil, logger)
	}
	return NewRegistryFromNames(catalog.TemplateNames(), logger)
}

// Register adds a template such as "shortcodes/note.html" under its base
// name ("note"). Matching is case-sensitive.
func (r *Registry) Register(templateName string) error {
	name := baseName(templateName)
	if !strings.HasPrefix(templateName, Namespace) || name == "" {
		return ErrInvalidDefinition
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[name]; exists {
		return ErrDuplicateDefinition
	}
	r.templates[name] = templateName
	return nil
}

// Lookup returns the template registered for name.
func (r *Registry) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[name]
	return tpl, ok
}

// Len reports the number of registered shortcodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// List returns the registered shortcode names in order.
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

func baseName(templateName string) string {
	rel := strings.TrimPrefix(templateName, Namespace)
	if rel == "" || strings.Contains(rel, "/") {
		return ""
	}
	return strings.TrimSuffix(rel, path.Ext(rel))
}
