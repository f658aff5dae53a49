package shortcode

import (
	"fmt"
	"time"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/shortcode/parser"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Evaluator renders parsed invocations through their registered templates.
type Evaluator struct {
	registry *Registry
	renderer interfaces.TemplateRenderer
	logger   interfaces.Logger
	metrics  Metrics
}

// EvaluatorOption customises evaluator behaviour.
type EvaluatorOption func(*Evaluator)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for build summaries.
func WithMetrics(metrics Metrics) EvaluatorOption {
	return func(e *Evaluator) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

// NewEvaluator constructs an evaluator over registry and renderer.
func NewEvaluator(registry *Registry, renderer interfaces.TemplateRenderer, opts ...EvaluatorOption) *Evaluator {
	if registry == nil {
		registry = NewRegistry()
	}
	e := &Evaluator{
		registry: registry,
		renderer: renderer,
		logger:   logging.NoOp(),
		metrics:  NoOpMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate renders inv. The template context holds every argument as a
// string plus a "page" entry bound to page.
func (e *Evaluator) Evaluate(inv parser.Invocation, page map[string]any) (string, error) {
	templateName, ok := e.registry.Lookup(inv.Name)
	if !ok {
		e.metrics.IncrementRenderError(inv.Name)
		return "", fmt.Errorf("%w: %q", ErrUnknownShortCode, inv.Name)
	}

	data := make(map[string]any, len(inv.Args)+1)
	for _, arg := range inv.Args {
		data[arg.Name] = arg.Value
	}
	data["page"] = page

	start := time.Now()
	rendered, err := e.renderer.Render(templateName, data)
	if err != nil {
		e.metrics.IncrementRenderError(inv.Name)
		e.logger.Error("shortcode.evaluate.failed", "shortcode", inv.Name, "template", templateName, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateRender, templateName, err)
	}
	e.metrics.ObserveRenderDuration(inv.Name, time.Since(start))
	return rendered, nil
}
