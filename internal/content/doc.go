// Package content splices markdown and shortcode invocations into a single
// rendered document.
//
// A body is scanned lexically for "{{" and "}}" markers. Text between markers
// is markdown, the markers and everything between them is one shortcode
// invocation. The scan does not understand nesting and has no escape: a
// literal "{{" in prose starts a shortcode range.
package content
