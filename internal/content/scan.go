package content

import (
	"errors"
	"fmt"
	"strings"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// ErrUnterminatedShortCode reports an open marker with no close marker.
var ErrUnterminatedShortCode = errors.New("content: unterminated shortcode")

// Kind tags a Range.
type Kind int

const (
	KindMarkdown Kind = iota
	KindShortCode
)

func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindShortCode:
		return "shortcode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Range is a half-open byte span [Start, End) of a body.
type Range struct {
	Kind  Kind
	Start int
	End   int
}

// Text returns the slice of body covered by r.
func (r Range) Text(body string) string {
	return body[r.Start:r.End]
}

// UnterminatedError carries the offset of the open marker that was never
// closed.
type UnterminatedError struct {
	Offset int
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("%s at offset %d", ErrUnterminatedShortCode, e.Offset)
}

func (e *UnterminatedError) Is(target error) bool {
	return target == ErrUnterminatedShortCode
}

// Scan splits body into markdown and shortcode ranges in forward order.
// Empty markdown ranges are omitted.
func Scan(body string) ([]Range, error) {
	var ranges []Range
	cursor := 0
	for cursor < len(body) {
		open := strings.Index(body[cursor:], openMarker)
		if open < 0 {
			break
		}
		open += cursor

		end := strings.Index(body[open+len(openMarker):], closeMarker)
		if end < 0 {
			return nil, &UnterminatedError{Offset: open}
		}
		end += open + len(openMarker) + len(closeMarker)

		if open > cursor {
			ranges = append(ranges, Range{Kind: KindMarkdown, Start: cursor, End: open})
		}
		ranges = append(ranges, Range{Kind: KindShortCode, Start: open, End: end})
		cursor = end
	}
	if cursor < len(body) {
		ranges = append(ranges, Range{Kind: KindMarkdown, Start: cursor, End: len(body)})
	}
	return ranges, nil
}
