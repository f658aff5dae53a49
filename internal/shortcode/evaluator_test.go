package shortcode

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/shortcode/parser"
)

type recordingRenderer struct {
	calls  []string
	data   []map[string]any
	output string
	err    error
}

func (r *recordingRenderer) Render(name string, data any, _ ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	if values, ok := data.(map[string]any); ok {
		r.data = append(r.data, values)
	}
	if r.err != nil {
		return "", r.err
	}
	return r.output, nil
}

func (r *recordingRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", errors.New("not supported")
}

func (r *recordingRenderer) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

func (r *recordingRenderer) GlobalContext(any) error { return nil }

func TestEvaluatorRendersRegisteredTemplate(t *testing.T) {
	renderer := &recordingRenderer{output: "<em>hi</em>"}
	registry := NewRegistryFromNames([]string{"shortcodes/note.html"}, nil)
	metrics := NewCountingMetrics()
	evaluator := NewEvaluator(registry, renderer, WithMetrics(metrics))

	page := map[string]any{"title": "Post", "permalink": "https://example.com/post/"}
	inv := parser.Invocation{Name: "note", Args: []parser.Argument{{Name: "text", Value: "hi"}}}

	out, err := evaluator.Evaluate(inv, page)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if out != "<em>hi</em>" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(renderer.calls) != 1 || renderer.calls[0] != "shortcodes/note.html" {
		t.Fatalf("expected note template render, got %v", renderer.calls)
	}
	ctx := renderer.data[0]
	if ctx["text"] != "hi" {
		t.Fatalf("expected text argument in context, got %v", ctx)
	}
	if got, ok := ctx["page"].(map[string]any); !ok || got["title"] != "Post" {
		t.Fatalf("expected page entry in context, got %v", ctx["page"])
	}

	stats := metrics.Snapshot()
	if len(stats) != 1 || stats[0].Name != "note" || stats[0].Renders != 1 || stats[0].Errors != 0 {
		t.Fatalf("unexpected metrics %+v", stats)
	}
}

func TestEvaluatorUnknownShortcode(t *testing.T) {
	renderer := &recordingRenderer{}
	evaluator := NewEvaluator(NewRegistry(), renderer)

	_, err := evaluator.Evaluate(parser.Invocation{Name: "ghost"}, nil)
	if !errors.Is(err, ErrUnknownShortCode) {
		t.Fatalf("expected ErrUnknownShortCode, got %v", err)
	}
	if len(renderer.calls) != 0 {
		t.Fatalf("renderer must not be called for unknown shortcodes, got %v", renderer.calls)
	}
}

func TestEvaluatorWrapsRenderErrors(t *testing.T) {
	renderErr := errors.New("undefined variable")
	renderer := &recordingRenderer{err: renderErr}
	registry := NewRegistryFromNames([]string{"shortcodes/note.html"}, nil)
	metrics := NewCountingMetrics()
	evaluator := NewEvaluator(registry, renderer, WithMetrics(metrics))

	_, err := evaluator.Evaluate(parser.Invocation{Name: "note"}, nil)
	if !errors.Is(err, ErrTemplateRender) {
		t.Fatalf("expected ErrTemplateRender, got %v", err)
	}
	if !errors.Is(err, renderErr) {
		t.Fatalf("expected engine error to be preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "shortcodes/note.html") {
		t.Fatalf("expected template name in error, got %v", err)
	}
	if stats := metrics.Snapshot(); len(stats) != 1 || stats[0].Errors != 1 {
		t.Fatalf("expected one recorded error, got %+v", stats)
	}
}

func TestNoOpMetricsAcceptsObservations(t *testing.T) {
	metrics := NoOpMetrics()
	metrics.ObserveRenderDuration("note", time.Millisecond)
	metrics.IncrementRenderError("note")
}
