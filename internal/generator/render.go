package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/site"
)

// RenderedPage captures the rendered output for a page.
type RenderedPage struct {
	Name         string
	Output       string
	Template     string
	Permalink    string
	HTML         string
	LastModified time.Time
	Duration     time.Duration
	Checksum     string
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Page     string
	Template string
	Output   string
	Duration time.Duration
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
}

// renderPass holds what every page render shares. Everything here is read
// only once rendering starts.
type renderPass struct {
	dated       []*pages.Page
	datedValues []map[string]any
	lastUpdated string
}

// renderPages renders every page in idx in key order. The first failure
// stops the pass.
func (s *service) renderPages(ctx context.Context, idx *site.Index, generatedAt time.Time) ([]RenderedPage, []RenderDiagnostic, error) {
	all := idx.All()
	dated := idx.Dated()
	pass := &renderPass{
		dated:       dated,
		datedValues: pages.ValuesOf(dated),
		lastUpdated: generatedAt.UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, len(all))
		diagnostics = make([]RenderDiagnostic, 0, len(all))
		firstErr    error
	)
	collect := func(i int, outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		diagnostics = append(diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = outcome.err
				cancel()
			}
			return
		}
		rendered[i] = outcome.page
	}

	workers := 1
	if s.cfg.ParallelRender {
		workers = s.effectiveWorkerCount(len(all))
	}

	if workers <= 1 || len(all) <= 1 {
		for i, page := range all {
			if err := ctx.Err(); err != nil {
				break
			}
			collect(i, s.renderPage(ctx, pass, page))
		}
	} else {
		s.renderConcurrently(ctx, pass, all, workers, collect)
	}

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return nil, diagnostics, firstErr
	}
	return rendered, diagnostics, nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	pass *renderPass,
	all []*pages.Page,
	workers int,
	collect func(int, renderOutcome),
) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				if ctx.Err() != nil {
					continue
				}
				collect(index, s.renderPage(ctx, pass, all[index]))
			}
		}()
	}

	for i := range all {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

func (s *service) renderPage(ctx context.Context, pass *renderPass, page *pages.Page) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			Page:     page.Name,
			Template: page.Template,
			Output:   page.OutputPath,
		},
	}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	list := pass.datedValues
	if page.Term != nil {
		list = pages.ValuesOf(site.FilterTagged(pass.dated, page.Term.Taxonomy, page.Term.Term))
	}

	data := map[string]any{
		"config":       s.cfg.Site,
		"page":         page.Values(),
		"pages":        list,
		"current_url":  page.PermalinkString(),
		"last_updated": pass.lastUpdated,
	}

	start := time.Now()
	html, err := s.deps.Renderer.Render(page.Template, data)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("%w: template %q for %s: %w", ErrPageRender, page.Template, page.Name, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		logging.WithPageContext(s.deps.Logger, page.Name, page.Template, page.OutputPath).
			Error("generator.render.failed", "error", err)
		return outcome
	}

	outcome.page = RenderedPage{
		Name:      page.Name,
		Output:    page.OutputPath,
		Template:  page.Template,
		Permalink: page.PermalinkString(),
		HTML:      html,
		Duration:  duration,
		Checksum:  computeHashFromString(html),
	}
	if page.Date != nil {
		outcome.page.LastModified = *page.Date
	}
	return outcome
}

func persistPages(ctx context.Context, writer artifactWriter, cache map[string]struct{}, rendered []RenderedPage) error {
	for _, page := range rendered {
		req := writeFileRequest{
			Path:        page.Output,
			Content:     strings.NewReader(page.HTML),
			Size:        int64(len(page.HTML)),
			Category:    categoryPage,
			ContentType: detectAssetContentType(page.Output),
			Checksum:    page.Checksum,
		}
		if err := writeArtifact(ctx, writer, cache, req); err != nil {
			return fmt.Errorf("generator: write %s: %w", page.Output, err)
		}
	}
	return nil
}
