package shortcode

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register("shortcodes/note.html"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	got, ok := registry.Lookup("note")
	if !ok {
		t.Fatal("Lookup() expected template")
	}
	if got != "shortcodes/note.html" {
		t.Fatalf("Lookup() wrong template, got %s", got)
	}

	if _, ok := registry.Lookup("Note"); ok {
		t.Fatal("Lookup() must be case-sensitive")
	}
}

func TestRegistryRejectsDuplicatesAndForeignTemplates(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("shortcodes/note.html"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if err := registry.Register("shortcodes/note.md"); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("expected ErrDuplicateDefinition, got %v", err)
	}
	for _, name := range []string{"page.html", "shortcodes/", "shortcodes/nested/x.html", "partials/shortcodes/x.html"} {
		if err := registry.Register(name); !errors.Is(err, ErrInvalidDefinition) {
			t.Fatalf("Register(%q) expected ErrInvalidDefinition, got %v", name, err)
		}
	}
}

func TestNewRegistryFromNamesFiltersNamespace(t *testing.T) {
	names := []string{
		"page.html",
		"shortcodes/youtube.html",
		"tags/single.html",
		"shortcodes/note.txt",
		"shortcodes/note.html",
	}
	registry := NewRegistryFromNames(names, nil)

	if got, want := registry.List(), []string{"note", "youtube"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	if tpl, _ := registry.Lookup("note"); tpl != "shortcodes/note.html" {
		t.Fatalf("expected first sorted template to win, got %s", tpl)
	}
}

type staticCatalog []string

func (c staticCatalog) TemplateNames() []string { return c }

func TestNewRegistryFromCatalog(t *testing.T) {
	registry := NewRegistryFromCatalog(staticCatalog{"index.html", "shortcodes/figure.html"}, nil)
	if got, want := registry.List(), []string{"figure"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}

	if empty := NewRegistryFromCatalog(nil, nil); empty.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", empty.Len())
	}
}
