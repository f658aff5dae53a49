package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

// writeArtifact creates the parent directory of req.Path and writes it.
func writeArtifact(ctx context.Context, writer artifactWriter, cache map[string]struct{}, req writeFileRequest) error {
	if err := ensureDir(ctx, writer, cache, path.Dir(req.Path)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, req)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}
