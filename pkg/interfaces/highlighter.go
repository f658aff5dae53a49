package interfaces

// Highlighter turns a block of source code into highlighted HTML. Unknown
// languages must fall back to plain text instead of failing.
type Highlighter interface {
	Highlight(lang string, code string) (string, error)
}
