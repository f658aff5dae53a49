package pages

import (
	"net/url"
	"path"
	"strings"
)

const (
	indexSegment = "index"
	indexFile    = "index.html"
)

// OutputPath derives the output path for a source path relative to the
// content root. HTML templates produce directory-style "index.html" outputs;
// other templates lend their extension to the output.
func OutputPath(rel, template string) string {
	rel = strings.TrimPrefix(path.Clean("/"+filepathToSlash(rel)), "/")
	stem := strings.TrimSuffix(rel, path.Ext(rel))

	ext := path.Ext(template)
	if ext != ".html" {
		return stem + ext
	}

	if stem == indexSegment {
		stem = ""
	} else {
		stem = strings.TrimSuffix(stem, "/"+indexSegment)
	}
	return path.Join(stem, indexFile)
}

// Permalink resolves outputPath against base, dropping a trailing
// "index.html".
func Permalink(base *url.URL, outputPath string) *url.URL {
	rel := strings.TrimSuffix(outputPath, indexFile)
	ref := &url.URL{Path: rel}
	if base == nil {
		return ref
	}
	return base.ResolveReference(ref)
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
