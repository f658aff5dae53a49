package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

type assetSummary struct {
	Built int
}

// copyTree copies every regular file of fsys to the output root, keeping
// relative paths. A nil fsys or a missing root is not an error.
func copyTree(ctx context.Context, writer artifactWriter, cache map[string]struct{}, fsys fs.FS, category writeCategory) (assetSummary, error) {
	summary := assetSummary{}
	if fsys == nil {
		return summary, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyFile(ctx, writer, cache, fsys, p, category); err != nil {
			return err
		}
		summary.Built++
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return summary, nil
	}
	return summary, err
}

// copyAssets copies the named files from fsys, keeping relative paths.
func copyAssets(ctx context.Context, writer artifactWriter, cache map[string]struct{}, fsys fs.FS, files []string) (assetSummary, error) {
	summary := assetSummary{}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := copyFile(ctx, writer, cache, fsys, rel, categoryAsset); err != nil {
			return summary, err
		}
		summary.Built++
	}
	return summary, nil
}

func copyFile(ctx context.Context, writer artifactWriter, cache map[string]struct{}, fsys fs.FS, rel string, category writeCategory) error {
	data, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return fmt.Errorf("generator: read %s: %w", rel, err)
	}
	req := writeFileRequest{
		Path:        rel,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    category,
		ContentType: detectAssetContentType(rel),
		Checksum:    computeHash(data),
	}
	if err := writeArtifact(ctx, writer, cache, req); err != nil {
		return fmt.Errorf("generator: write %s: %w", rel, err)
	}
	return nil
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(asset), "."))
	switch ext {
	case "html":
		return "text/html; charset=utf-8"
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
