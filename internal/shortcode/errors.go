package shortcode

import "errors"

var (
	// ErrDuplicateDefinition indicates two templates share a shortcode name.
	ErrDuplicateDefinition = errors.New("shortcode: duplicate definition")
	// ErrInvalidDefinition indicates a template name outside the shortcode namespace.
	ErrInvalidDefinition = errors.New("shortcode: invalid definition")
	// ErrUnknownShortCode indicates no template is registered for an invocation.
	ErrUnknownShortCode = errors.New("shortcode: unknown shortcode")
	// ErrTemplateRender wraps failures reported by the template engine.
	ErrTemplateRender = errors.New("shortcode: template render failed")
)
