package pages

import (
	"path"
	"strings"
)

// SourceKind classifies a file found under the content root.
type SourceKind int

const (
	SourcePage SourceKind = iota
	SourceAsset
	SourceSkip
)

func (k SourceKind) String() string {
	switch k {
	case SourceAsset:
		return "asset"
	case SourceSkip:
		return "skip"
	default:
		return "page"
	}
}

var assetExtensions = map[string]struct{}{
	".png":  {},
	".webp": {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// Classify decides how the file at rel is handled. Files whose name starts
// with "_" are partials and never emitted; images are copied verbatim.
func Classify(rel string) SourceKind {
	base := path.Base(filepathToSlash(rel))
	if strings.HasPrefix(base, "_") {
		return SourceSkip
	}
	if _, ok := assetExtensions[strings.ToLower(path.Ext(base))]; ok {
		return SourceAsset
	}
	return SourcePage
}
