package sitegen_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

const siteConfig = `
title = "Example"
base_url = "https://example.com/docs"

[[taxonomies]]
name = "tags"

[generator]
feeds = true
`

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		target := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func exampleSite() map[string]string {
	return map[string]string{
		"config.toml":                    siteConfig,
		"templates/page.html":            `<title>{{ config.title }}</title>{{ page.content|safe }}{% if page.summary %}<aside>{{ page.summary|safe }}</aside>{% endif %}`,
		"templates/tags/single.html":     `{{ page.term }}:{% for p in pages %}{{ p.permalink }};{% endfor %}`,
		"templates/shortcodes/note.html": `<em>{{ text }}</em>`,
		"content/index.md":               "+++\ntitle = \"Home\"\n+++\n# Welcome\n",
		"content/posts/hello.md":         "+++\ntitle = \"Hello\"\ndate = 2024-03-01\n[taxonomies]\ntags = [\"Go Lang\"]\n+++\nA <!-- more --> B {{ note(text=\"hi\") }}",
		"content/posts/cover.png":        "\x89PNG",
		"static/robots-extra.txt":        "static",
	}
}

func TestLoadAndBuild(t *testing.T) {
	root := writeSite(t, exampleSite())
	output := filepath.Join(t.TempDir(), "public")

	module, err := sitegen.Load(root,
		sitegen.WithLoggerProvider(noopProvider{}),
		sitegen.WithOutputDir(output),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := module.Shortcodes(); len(got) != 1 || got[0] != "note" {
		t.Fatalf("expected note shortcode, got %v", got)
	}

	result, err := module.Build(context.Background(), sitegen.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected 2 content pages, got %d", result.PagesBuilt)
	}
	if result.TaxonomyPages != 1 {
		t.Fatalf("expected 1 taxonomy page, got %d", result.TaxonomyPages)
	}

	read := func(rel string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read %s: %v", rel, err)
		}
		return string(data)
	}

	hello := read("posts/hello/index.html")
	if !strings.Contains(hello, "<em>hi</em>") {
		t.Fatalf("expected shortcode output, got %q", hello)
	}
	if !strings.Contains(hello, "<aside><p>A</p>") {
		t.Fatalf("expected summary, got %q", hello)
	}

	term := read("tags/go-lang/index.html")
	if term != "Go Lang:https://example.com/docs/posts/hello/;" {
		t.Fatalf("unexpected term page %q", term)
	}

	if read("posts/cover.png") != "\x89PNG" {
		t.Fatal("expected image asset to be copied")
	}
	if read("robots-extra.txt") != "static" {
		t.Fatal("expected static file to be copied")
	}
	if !strings.Contains(read("rss.xml"), "Hello") {
		t.Fatal("expected feed entry for dated page")
	}
}

func TestLoadWithLocalSwapsBaseURL(t *testing.T) {
	root := writeSite(t, exampleSite())

	module, err := sitegen.Load(root,
		sitegen.WithLoggerProvider(noopProvider{}),
		sitegen.WithLocal(true),
		sitegen.WithWorkers(2),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := module.Config()
	if cfg.BaseURL != "http://127.0.0.1:1111" {
		t.Fatalf("expected local base url, got %q", cfg.BaseURL)
	}
	if cfg.Generator.Workers != 2 {
		t.Fatalf("expected 2 workers, got %d", cfg.Generator.Workers)
	}
	if want := filepath.Join(root, "public"); cfg.Generator.OutputDir != want {
		t.Fatalf("expected output %q, got %q", want, cfg.Generator.OutputDir)
	}
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	files := exampleSite()
	files["config.toml"] = "title = \"Example\"\n"
	root := writeSite(t, files)

	_, err := sitegen.Load(root, sitegen.WithLoggerProvider(noopProvider{}))
	if !errors.Is(err, sitegen.ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

func TestLoadReportsMissingConfig(t *testing.T) {
	if _, err := sitegen.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config.toml")
	}
}

func TestServiceFactoryBuildsTarget(t *testing.T) {
	root := writeSite(t, exampleSite())
	output := filepath.Join(t.TempDir(), "out")

	factory := sitegen.ServiceFactory(sitegen.WithLoggerProvider(noopProvider{}))
	service, err := factory(context.Background(), sitegen.Target{SiteDir: root, OutputDir: output})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	result, err := service.Build(context.Background(), sitegen.BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !result.DryRun {
		t.Fatal("expected dry run result")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected no output for dry run, got %v", err)
	}
}

func TestWithOutputDirResolvesAgainstSiteDir(t *testing.T) {
	root := writeSite(t, exampleSite())

	module, err := sitegen.Load(root,
		sitegen.WithLoggerProvider(noopProvider{}),
		sitegen.WithOutputDir("out"),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(root, "out"); module.Config().Generator.OutputDir != want {
		t.Fatalf("expected output %q, got %q", want, module.Config().Generator.OutputDir)
	}

	abs := filepath.Join(t.TempDir(), "elsewhere")
	module, err = sitegen.Load(root,
		sitegen.WithLoggerProvider(noopProvider{}),
		sitegen.WithOutputDir(abs),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if module.Config().Generator.OutputDir != abs {
		t.Fatalf("expected absolute output %q kept, got %q", abs, module.Config().Generator.OutputDir)
	}
}
