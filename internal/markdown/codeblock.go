package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrHighlight wraps failures reported by the highlighter.
var ErrHighlight = errors.New("markdown: highlight failed")

// codeBlockRenderer replaces goldmark's code block output with the
// highlighter's HTML.
type codeBlockRenderer struct {
	highlighter interfaces.Highlighter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
	reg.Register(ast.KindCodeBlock, r.render)
}

func (r *codeBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var lang string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(source))
	}

	var code bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	highlighted, err := r.highlighter.Highlight(lang, code.String())
	if err != nil {
		return ast.WalkStop, fmt.Errorf("%w: language %q: %w", ErrHighlight, lang, err)
	}
	_, _ = w.WriteString(highlighted)
	return ast.WalkSkipChildren, nil
}
