// Package markdown converts markdown spans to HTML with goldmark. Image
// destinations are resolved against the page permalink and code blocks are
// handed to a highlighter before being emitted.
package markdown
