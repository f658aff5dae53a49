// Package generator builds a site: it turns the content tree into pages,
// extends the index with taxonomy pages and renders everything to the
// output directory.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/shortcode"
	"github.com/goliatone/go-sitegen/internal/site"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	// ErrPageRender wraps template failures during the site-wide render pass.
	ErrPageRender = errors.New("generator: page render failed")

	errRendererRequired = errors.New("generator: template renderer is required")
	errBuilderRequired  = errors.New("generator: page builder is required")
	errContentRequired  = errors.New("generator: content filesystem is required")
	errOutputRequired   = errors.New("generator: output directory is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	Title       string
	Description string
	BaseURL     *url.URL
	Taxonomies  []string
	// Site is exposed to templates as "config".
	Site map[string]any

	OutputDir       string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	FeedLimit       int
	Workers         int
	ParallelRender  bool
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	TaxonomyPages int
	AssetsBuilt   int
	StaticFiles   int
	Feeds         int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Shortcodes    []shortcode.Stats
	DryRun        bool
}

// PageBuilder constructs one page from a content file.
type PageBuilder interface {
	Build(rel, text string) (*pages.Page, error)
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Content  fs.FS
	Static   fs.FS
	Builder  PageBuilder
	Renderer interfaces.TemplateRenderer
	Metrics  *shortcode.CountingMetrics
	Logger   interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

func (s *service) validate() error {
	switch {
	case s.deps.Renderer == nil:
		return errRendererRequired
	case s.deps.Builder == nil:
		return errBuilderRequired
	case s.deps.Content == nil:
		return errContentRequired
	case strings.TrimSpace(s.cfg.OutputDir) == "":
		return errOutputRequired
	}
	return nil
}

// Build runs the full pipeline. No page is written unless every page built
// and rendered.
func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	generatedAt := s.now()
	logger := logging.FromContext(ctx, s.deps.Logger)
	logger.Info("generator.build.start", "output_dir", s.cfg.OutputDir, "dry_run", opts.DryRun)

	result := &BuildResult{DryRun: opts.DryRun}

	sources, err := scanContent(s.deps.Content)
	if err != nil {
		return result, err
	}

	built, err := s.buildPages(ctx, sources.pages)
	if err != nil {
		logger.Error("generator.build.failed", "phase", "pages", "error", err)
		return result, err
	}

	idx := site.NewIndex()
	for _, page := range built {
		replaced, err := idx.Insert(page)
		if err != nil {
			return result, err
		}
		if replaced {
			logger.Warn("generator.index.collision", "key", page.Name)
		}
	}
	result.PagesBuilt = len(built)

	termPages, err := site.BuildTaxonomies(idx, s.cfg.Taxonomies, site.TaxonomyOptions{
		Base:   s.cfg.BaseURL,
		Logger: logger,
	})
	if err != nil {
		return result, err
	}
	result.TaxonomyPages = len(termPages)
	idx.Freeze()

	if err := s.deps.Renderer.GlobalContext(templates.Functions(idx, s.cfg.BaseURL, s.cfg.Taxonomies)); err != nil {
		return result, fmt.Errorf("generator: bind template functions: %w", err)
	}

	rendered, diagnostics, err := s.renderPages(ctx, idx, generatedAt)
	result.Diagnostics = diagnostics
	if err != nil {
		logger.Error("generator.build.failed", "phase", "render", "error", err)
		return result, err
	}
	result.Rendered = rendered

	writer := newArtifactWriter(s.cfg.OutputDir, opts.DryRun)
	if err := s.persist(ctx, writer, idx, sources, rendered, generatedAt, result); err != nil {
		logger.Error("generator.build.failed", "phase", "write", "error", err)
		return result, err
	}

	if s.deps.Metrics != nil {
		result.Shortcodes = s.deps.Metrics.Snapshot()
	}
	result.Duration = time.Since(start)
	logger.Info("generator.build.completed",
		"pages", result.PagesBuilt,
		"taxonomy_pages", result.TaxonomyPages,
		"assets", result.AssetsBuilt,
		"static", result.StaticFiles,
		"duration", result.Duration,
	)
	return result, nil
}

// Clean removes the output directory.
func (s *service) Clean(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return errOutputRequired
	}
	return newArtifactWriter(s.cfg.OutputDir, false).RemoveAll(ctx, ".")
}

func (s *service) persist(
	ctx context.Context,
	writer artifactWriter,
	idx *site.Index,
	sources contentSources,
	rendered []RenderedPage,
	generatedAt time.Time,
	result *BuildResult,
) error {
	if s.cfg.CleanBuild {
		if err := writer.RemoveAll(ctx, "."); err != nil {
			return fmt.Errorf("generator: clean output: %w", err)
		}
	}
	if err := writer.EnsureDir(ctx, "."); err != nil {
		return fmt.Errorf("generator: create output: %w", err)
	}

	dirCache := map[string]struct{}{}

	staticSummary, err := copyTree(ctx, writer, dirCache, s.deps.Static, categoryStatic)
	if err != nil {
		return err
	}
	result.StaticFiles = staticSummary.Built

	assetSummary, err := copyAssets(ctx, writer, dirCache, s.deps.Content, sources.assets)
	if err != nil {
		return err
	}
	result.AssetsBuilt = assetSummary.Built

	if err := persistPages(ctx, writer, dirCache, rendered); err != nil {
		return err
	}

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, rendered, generatedAt); err != nil {
			return err
		}
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer); err != nil {
			return err
		}
	}
	if s.cfg.GenerateFeeds {
		count, err := s.writeFeeds(ctx, writer, idx.Dated(), generatedAt)
		if err != nil {
			return err
		}
		result.Feeds = count
	}
	return nil
}

func (s *service) writeSitemap(ctx context.Context, writer artifactWriter, rendered []RenderedPage, generatedAt time.Time) error {
	content := buildSitemap(rendered, generatedAt)
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
	})
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter) error {
	content := buildRobots(baseURLString(s.cfg), s.cfg.GenerateSitemap)
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
	})
}

func (s *service) writeFeeds(ctx context.Context, writer artifactWriter, dated []*pages.Page, generatedAt time.Time) (int, error) {
	feed := buildFeed(s.cfg, dated, generatedAt)

	rss, err := feed.ToRss()
	if err != nil {
		return 0, fmt.Errorf("generator: encode rss: %w", err)
	}
	atom, err := feed.ToAtom()
	if err != nil {
		return 0, fmt.Errorf("generator: encode atom: %w", err)
	}

	outputs := []struct {
		path        string
		content     string
		contentType string
	}{
		{rssFileName, rss, "application/rss+xml"},
		{atomFileName, atom, "application/atom+xml"},
	}
	for i, out := range outputs {
		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:        out.path,
			Content:     strings.NewReader(out.content),
			Size:        int64(len(out.content)),
			Category:    categoryFeed,
			ContentType: out.contentType,
			Checksum:    computeHashFromString(out.content),
		}); err != nil {
			return i, err
		}
	}
	return len(outputs), nil
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if jobs > 0 && workers > jobs {
		return jobs
	}
	return workers
}
