// Package templates renders site and shortcode templates with pongo2.
package templates

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	// ErrInvalidContext is returned when render data is not a string-keyed map.
	ErrInvalidContext = errors.New("templates: render data must be a map with string keys")
	// ErrFilterRegistration wraps failures registering a filter with pongo2.
	ErrFilterRegistration = errors.New("templates: filter registration failed")
)

// SafeHTML marks filter output that must not be escaped.
type SafeHTML string

// Engine is a pongo2 template set over an fs.FS. It implements
// interfaces.TemplateRenderer and interfaces.TemplateCatalog.
type Engine struct {
	set    *pongo2.TemplateSet
	names  []string
	logger interfaces.Logger
}

// Option customises the engine.
type Option func(*Engine)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an engine over fsys, typically the site's templates directory.
func New(fsys fs.FS, opts ...Option) (*Engine, error) {
	names, err := listTemplates(fsys)
	if err != nil {
		return nil, fmt.Errorf("templates: list: %w", err)
	}

	e := &Engine{
		set:    pongo2.NewSet("sitegen", &fsLoader{fsys: fsys}),
		names:  names,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger.Debug("templates.loaded", "count", len(names))
	return e, nil
}

// TemplateNames lists every template the engine can resolve, sorted.
func (e *Engine) TemplateNames() []string {
	return append([]string(nil), e.names...)
}

// Render executes the named template. When writers are supplied the output
// is also written to each of them.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}
	tpl, err := e.set.FromCache(cleanName(name))
	if err != nil {
		return "", fmt.Errorf("templates: load %s: %w", name, err)
	}
	return execute(tpl, name, ctx, out)
}

// RenderString executes an inline template.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}
	tpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("templates: compile inline template: %w", err)
	}
	return execute(tpl, "inline", ctx, out)
}

// GlobalContext merges data into the globals visible to every template.
// Call it before rendering starts; globals are not guarded for concurrent
// writes.
func (e *Engine) GlobalContext(data any) error {
	ctx, err := toContext(data)
	if err != nil {
		return err
	}
	e.set.Globals.Update(ctx)
	return nil
}

// RegisterFilter installs fn as a pongo2 filter. pongo2 filters are
// process-wide, so an existing filter of the same name is replaced.
// Returning SafeHTML from fn bypasses autoescaping.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		result, err := fn(in.Interface(), param.Interface())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		if safe, ok := result.(SafeHTML); ok {
			return pongo2.AsSafeValue(string(safe)), nil
		}
		return pongo2.AsValue(result), nil
	}

	var err error
	if pongo2.FilterExists(name) {
		err = pongo2.ReplaceFilter(name, filter)
	} else {
		err = pongo2.RegisterFilter(name, filter)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFilterRegistration, name, err)
	}
	return nil
}

func execute(tpl *pongo2.Template, name string, ctx pongo2.Context, out []io.Writer) (string, error) {
	rendered, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, err)
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("templates: write %s: %w", name, err)
		}
	}
	return rendered, nil
}

func toContext(data any) (pongo2.Context, error) {
	switch values := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return values, nil
	case map[string]any:
		return pongo2.Context(values), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidContext, data)
	}
}
