package markdown

import (
	"net/url"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var permalinkKey = parser.NewContextKey()

// ResolveImageURL resolves dest against base unless it already parses as an
// absolute URL. A destination that does not parse at all is joined as a
// literal path, so stray characters are percent-encoded.
func ResolveImageURL(dest string, base *url.URL) string {
	if base == nil {
		return dest
	}
	ref, err := url.Parse(dest)
	if err != nil {
		ref = &url.URL{Path: dest}
	}
	if ref.IsAbs() {
		return dest
	}
	return base.ResolveReference(ref).String()
}

// imageResolver rewrites image destinations using the permalink stored on
// the parser context.
type imageResolver struct{}

func (imageResolver) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	base, _ := pc.Get(permalinkKey).(*url.URL)
	if base == nil {
		return
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := node.(*ast.Image); ok {
			img.Destination = []byte(ResolveImageURL(string(img.Destination), base))
		}
		return ast.WalkContinue, nil
	})
}
