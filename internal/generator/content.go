package generator

import (
	"context"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-sitegen/internal/pages"
)

// contentSources partitions the content tree. Both lists are in walk order.
type contentSources struct {
	pages  []string
	assets []string
}

func scanContent(fsys fs.FS) (contentSources, error) {
	var sources contentSources
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch pages.Classify(p) {
		case pages.SourcePage:
			sources.pages = append(sources.pages, p)
		case pages.SourceAsset:
			sources.assets = append(sources.assets, p)
		}
		return nil
	})
	if err != nil {
		return sources, fmt.Errorf("generator: scan content: %w", err)
	}
	return sources, nil
}

// buildPages builds every source in parallel. The result keeps source
// order; the first failure cancels the remaining builds.
func (s *service) buildPages(ctx context.Context, sources []string) ([]*pages.Page, error) {
	built := make([]*pages.Page, len(sources))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.effectiveWorkerCount(len(sources)))

	for i, rel := range sources {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(s.deps.Content, rel)
			if err != nil {
				return fmt.Errorf("generator: read %s: %w", rel, err)
			}
			page, err := s.deps.Builder.Build(rel, string(data))
			if err != nil {
				return err
			}
			built[i] = page
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return built, nil
}
