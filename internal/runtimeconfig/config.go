package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// LocalBaseURL replaces the configured base URL when building for local preview.
const LocalBaseURL = "http://127.0.0.1:1111"

var (
	ErrBaseURLRequired      = errors.New("sitegen config: base_url is required")
	ErrBaseURLInvalid       = errors.New("sitegen config: base_url must be an absolute URL")
	ErrLoggingLevelInvalid  = errors.New("sitegen config: logging level is invalid")
	ErrLoggingFormatInvalid = errors.New("sitegen config: logging format is invalid")
)

var taxonomyNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config mirrors the site's config.toml.
type Config struct {
	Title       string           `toml:"title"`
	BaseURL     string           `toml:"base_url"`
	Description string           `toml:"description"`
	Taxonomies  []TaxonomyConfig `toml:"taxonomies"`
	Extra       map[string]any   `toml:"extra"`
	Markdown    MarkdownConfig   `toml:"markdown"`
	Highlight   HighlightConfig  `toml:"highlight"`
	Generator   GeneratorConfig  `toml:"generator"`
	Logging     LoggingConfig    `toml:"logging"`
}

// TaxonomyConfig declares a classification axis such as "tags".
type TaxonomyConfig struct {
	Name string `toml:"name"`
}

// MarkdownConfig selects goldmark extensions and renderer switches.
type MarkdownConfig struct {
	Extensions []string `toml:"extensions"`
	HardWraps  bool     `toml:"hard_wraps"`
	SafeMode   bool     `toml:"safe_mode"`
}

// HighlightConfig tunes the chroma formatter.
type HighlightConfig struct {
	Style       string `toml:"style"`
	TabWidth    int    `toml:"tab_width"`
	LineNumbers bool   `toml:"line_numbers"`
	SyntaxDir   string `toml:"syntax_dir"`
}

// GeneratorConfig captures behaviour for the build itself.
type GeneratorConfig struct {
	ContentDir     string `toml:"content_dir"`
	TemplateDir    string `toml:"template_dir"`
	StaticDir      string `toml:"static_dir"`
	OutputDir      string `toml:"output_dir"`
	Workers        int    `toml:"workers"`
	ParallelRender bool   `toml:"parallel_render"`
	CleanBuild     bool   `toml:"clean_build"`
	Sitemap        bool   `toml:"sitemap"`
	Robots         bool   `toml:"robots"`
	Feeds          bool   `toml:"feeds"`
	FeedLimit      int    `toml:"feed_limit"`
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// DefaultConfig returns the defaults applied before config.toml is decoded.
func DefaultConfig() Config {
	return Config{
		Highlight: HighlightConfig{
			Style:     "base16-snazzy",
			TabWidth:  4,
			SyntaxDir: "syntaxes",
		},
		Generator: GeneratorConfig{
			ContentDir:     "content",
			TemplateDir:    "templates",
			StaticDir:      "static",
			OutputDir:      "public",
			ParallelRender: true,
			CleanBuild:     true,
			Sitemap:        true,
			Robots:         true,
			FeedLimit:      20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load decodes the TOML file at path on top of DefaultConfig.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sitegen config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text on top of DefaultConfig.
func Parse(text string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, fmt.Errorf("sitegen config: decode: %w", err)
	}
	return cfg, nil
}

// UseLocal swaps the base URL for the local preview address.
func (cfg *Config) UseLocal() {
	cfg.BaseURL = LocalBaseURL
}

// ParsedBaseURL returns BaseURL as a URL whose path always ends in a slash,
// so relative joins keep any path prefix of the site.
func (cfg Config) ParsedBaseURL() (*url.URL, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, ErrBaseURLRequired
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrBaseURLInvalid, raw)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return parsed, nil
}

// TaxonomyNames lists the configured taxonomy names in declaration order.
func (cfg Config) TaxonomyNames() []string {
	names := make([]string, 0, len(cfg.Taxonomies))
	for _, taxonomy := range cfg.Taxonomies {
		if name := strings.TrimSpace(taxonomy.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// TemplateValues exposes the site configuration to templates.
func (cfg Config) TemplateValues() map[string]any {
	taxonomies := make([]map[string]any, 0, len(cfg.Taxonomies))
	for _, name := range cfg.TaxonomyNames() {
		taxonomies = append(taxonomies, map[string]any{"name": name})
	}
	extra := cfg.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	return map[string]any{
		"title":       cfg.Title,
		"base_url":    cfg.BaseURL,
		"description": cfg.Description,
		"taxonomies":  taxonomies,
		"extra":       extra,
	}
}

// Validate checks the configuration before a build starts.
func (cfg Config) Validate() error {
	if _, err := cfg.ParsedBaseURL(); err != nil {
		return err
	}
	if level := strings.ToLower(strings.TrimSpace(cfg.Logging.Level)); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Logging.Level)
	}
	if format := strings.ToLower(strings.TrimSpace(cfg.Logging.Format)); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, cfg.Logging.Format)
	}

	errs := validation.Errors{}
	seen := map[string]struct{}{}
	for _, taxonomy := range cfg.Taxonomies {
		name := strings.TrimSpace(taxonomy.Name)
		if err := validation.Validate(name, validation.Required, validation.Match(taxonomyNamePattern)); err != nil {
			errs["taxonomies"] = validation.NewError("sitegen.config.taxonomy_invalid", "taxonomy names must be non-empty identifiers")
			break
		}
		if _, ok := seen[name]; ok {
			errs["taxonomies"] = validation.NewError("sitegen.config.taxonomy_duplicate", "taxonomy names must be unique")
			break
		}
		seen[name] = struct{}{}
	}
	if err := validation.Validate(cfg.Generator.Workers, validation.Min(0)); err != nil {
		errs["generator.workers"] = err
	}
	if err := validation.Validate(cfg.Generator.FeedLimit, validation.Min(0)); err != nil {
		errs["generator.feed_limit"] = err
	}
	if err := validation.Validate(strings.TrimSpace(cfg.Generator.OutputDir), validation.Required); err != nil {
		errs["generator.output_dir"] = err
	}
	return errs.Filter()
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
