package interfaces

import (
	"io"
)

// TemplateRenderer renders named templates against a key/value context.
// Names are slash separated paths relative to the template root.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// TemplateCatalog enumerates the template names a renderer can resolve.
type TemplateCatalog interface {
	TemplateNames() []string
}
