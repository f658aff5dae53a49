// Package highlight renders code blocks to HTML with chroma.
package highlight

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = "base16-snazzy"

// Config tunes the HTML formatter.
type Config struct {
	Style       string
	TabWidth    int
	LineNumbers bool
}

// Highlighter implements interfaces.Highlighter on top of chroma. It is safe
// for concurrent use.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

var _ interfaces.Highlighter = (*Highlighter)(nil)

// New constructs a highlighter. Unknown styles fall back to chroma's default.
func New(cfg Config) *Highlighter {
	name := strings.TrimSpace(cfg.Style)
	if name == "" {
		name = DefaultStyle
	}

	options := []chromahtml.Option{chromahtml.WithClasses(false)}
	if cfg.TabWidth > 0 {
		options = append(options, chromahtml.TabWidth(cfg.TabWidth))
	}
	if cfg.LineNumbers {
		options = append(options, chromahtml.WithLineNumbers(true))
	}

	return &Highlighter{
		style:     styles.Get(name),
		formatter: chromahtml.New(options...),
	}
}

// Highlight renders code using the lexer registered for lang. An empty or
// unknown language uses the plain text lexer.
func (h *Highlighter) Highlight(lang string, code string) (string, error) {
	lexer := Lexer(lang)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenise %q: %w", lang, err)
	}

	var out strings.Builder
	if err := h.formatter.Format(&out, h.style, iterator); err != nil {
		return "", fmt.Errorf("highlight: format %q: %w", lang, err)
	}
	return out.String(), nil
}

// Lexer resolves lang by name or alias, then by file extension, falling back
// to plain text.
func Lexer(lang string) chroma.Lexer {
	lang = strings.TrimSpace(lang)
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
		if lexer == nil {
			lexer = lexers.Match("file." + lang)
		}
	}
	if lexer == nil {
		lexer = plainText()
	}
	return chroma.Coalesce(lexer)
}

func plainText() chroma.Lexer {
	if lexer := lexers.Get("plaintext"); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

// LoadSyntaxes registers every *.xml lexer definition found at the root of
// fsys. A missing directory is not an error.
func LoadSyntaxes(fsys fs.FS) ([]string, error) {
	if fsys == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("highlight: read syntaxes: %w", err)
	}

	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ".xml") {
			continue
		}
		lexer, err := chroma.NewXMLLexer(fsys, entry.Name())
		if err != nil {
			return loaded, fmt.Errorf("highlight: load syntax %s: %w", entry.Name(), err)
		}
		lexers.Register(lexer)
		loaded = append(loaded, lexer.Config().Name)
	}
	return loaded, nil
}
