package sitegen

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	staticcmd "github.com/goliatone/go-sitegen/internal/commands/static"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/highlight"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/shortcode"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build report.
type BuildResult = generator.BuildResult

// Target identifies the site a build operates on.
type Target = staticcmd.Target

// Module holds the collaborators wired for one site.
type Module struct {
	siteDir   string
	cfg       Config
	logger    interfaces.Logger
	templates *templates.Engine
	registry  *shortcode.Registry
	generator generator.Service
}

// Option customises how a Module is wired.
type Option func(*options)

type options struct {
	provider  interfaces.LoggerProvider
	local     bool
	outputDir string
	workers   int
	logLevel  string
	logFormat string
}

// WithLoggerProvider overrides the go-logger provider built from the
// [logging] section.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithLocal builds against the local preview base URL.
func WithLocal(local bool) Option {
	return func(o *options) {
		o.local = local
	}
}

// WithOutputDir overrides generator.output_dir. Relative paths resolve
// against the site directory.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.outputDir = strings.TrimSpace(dir)
	}
}

// WithWorkers overrides generator.workers when n is positive.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogging overrides the [logging] level and format. Empty values keep
// the configured ones.
func WithLogging(level, format string) Option {
	return func(o *options) {
		o.logLevel = strings.TrimSpace(level)
		o.logFormat = strings.TrimSpace(format)
	}
}

// Load reads config.toml from siteDir and wires the site.
func Load(siteDir string, opts ...Option) (*Module, error) {
	cfg, err := LoadConfig(filepath.Join(siteDir, ConfigFileName))
	if err != nil {
		return nil, err
	}
	return New(siteDir, cfg, opts...)
}

// New wires the pipeline for the site rooted at siteDir.
func New(siteDir string, cfg Config, opts ...Option) (*Module, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.local {
		cfg.UseLocal()
	}
	if o.workers > 0 {
		cfg.Generator.Workers = o.workers
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if o.outputDir != "" {
		cfg.Generator.OutputDir = o.outputDir
	}
	outputDir := resolve(siteDir, cfg.Generator.OutputDir)
	cfg.Generator.OutputDir = outputDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := cfg.ParsedBaseURL()
	if err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
	}
	logger := logging.ModuleLogger(provider, "sitegen")

	highlighter := highlight.New(highlight.Config{
		Style:       cfg.Highlight.Style,
		TabWidth:    cfg.Highlight.TabWidth,
		LineNumbers: cfg.Highlight.LineNumbers,
	})
	if dir := strings.TrimSpace(cfg.Highlight.SyntaxDir); dir != "" {
		loaded, err := highlight.LoadSyntaxes(os.DirFS(resolve(siteDir, dir)))
		if err != nil {
			return nil, err
		}
		if len(loaded) > 0 {
			logger.Debug("sitegen.syntaxes.loaded", "syntaxes", loaded)
		}
	}

	md := markdown.New(markdown.Options{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		SafeMode:   cfg.Markdown.SafeMode,
	}, highlighter)

	engine, err := templates.New(
		os.DirFS(resolve(siteDir, cfg.Generator.TemplateDir)),
		templates.WithLogger(logging.TemplateLogger(provider)),
	)
	if err != nil {
		return nil, fmt.Errorf("sitegen: load templates: %w", err)
	}
	if err := engine.RegisterFilter("markdown", templates.MarkdownFilter(md)); err != nil {
		return nil, err
	}
	logger.Debug("sitegen.templates.loaded", "templates", engine.TemplateNames())

	shortcodeLogger := logging.ShortcodeLogger(provider)
	registry := shortcode.NewRegistryFromCatalog(engine, shortcodeLogger)
	metrics := shortcode.NewCountingMetrics()
	evaluator := shortcode.NewEvaluator(registry, engine,
		shortcode.WithLogger(shortcodeLogger),
		shortcode.WithMetrics(metrics),
	)

	builder := pages.NewBuilder(base, content.NewPipeline(md, evaluator),
		pages.WithBuilderLogger(logging.PagesLogger(provider)),
	)

	service := generator.NewService(generator.Config{
		Title:           cfg.Title,
		Description:     cfg.Description,
		BaseURL:         base,
		Taxonomies:      cfg.TaxonomyNames(),
		Site:            cfg.TemplateValues(),
		OutputDir:       outputDir,
		CleanBuild:      cfg.Generator.CleanBuild,
		GenerateSitemap: cfg.Generator.Sitemap,
		GenerateRobots:  cfg.Generator.Robots,
		GenerateFeeds:   cfg.Generator.Feeds,
		FeedLimit:       cfg.Generator.FeedLimit,
		Workers:         cfg.Generator.Workers,
		ParallelRender:  cfg.Generator.ParallelRender,
	}, generator.Dependencies{
		Content:  dirFS(resolve(siteDir, cfg.Generator.ContentDir)),
		Static:   dirFS(resolve(siteDir, cfg.Generator.StaticDir)),
		Builder:  builder,
		Renderer: engine,
		Metrics:  metrics,
		Logger:   logging.GeneratorLogger(provider),
	})

	return &Module{
		siteDir:   siteDir,
		cfg:       cfg,
		logger:    logger,
		templates: engine,
		registry:  registry,
		generator: service,
	}, nil
}

// Config returns the effective configuration after options were applied.
func (m *Module) Config() Config {
	return m.cfg
}

// SiteDir returns the site root the module was wired for.
func (m *Module) SiteDir() string {
	return m.siteDir
}

// Generator returns the build service.
func (m *Module) Generator() GeneratorService {
	return m.generator
}

// Shortcodes lists the registered shortcode names.
func (m *Module) Shortcodes() []string {
	return m.registry.List()
}

// Templates lists the loaded template names.
func (m *Module) Templates() []string {
	return m.templates.TemplateNames()
}

// Build runs one generator pass.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.generator.Build(ctx, opts)
}

// ServiceFactory loads sites for the static command handlers. Extra options
// apply to every site it loads.
func ServiceFactory(extra ...Option) staticcmd.ServiceFactory {
	return func(ctx context.Context, target Target) (generator.Service, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts := append([]Option{
			WithLocal(target.Local),
			WithOutputDir(target.OutputDir),
			WithWorkers(target.Workers),
		}, extra...)
		module, err := Load(target.SiteDir, opts...)
		if err != nil {
			return nil, err
		}
		return module.Generator(), nil
	}
}

func dirFS(dir string) fs.FS {
	if dir == "" {
		return nil
	}
	return os.DirFS(dir)
}

func resolve(root, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
