package pages

import "strings"

const (
	commentOpen  = "<!--"
	commentClose = "-->"
	cutMarker    = "more"
)

// FindSummaryCut returns the offset of the first HTML comment when its
// trimmed content is "more" (case-insensitive). Only the first comment is
// considered.
func FindSummaryCut(body string) (int, bool) {
	start := strings.Index(body, commentOpen)
	if start < 0 {
		return 0, false
	}
	inner := body[start+len(commentOpen):]
	end := strings.Index(inner, commentClose)
	if end < 0 {
		return 0, false
	}
	if !strings.EqualFold(strings.TrimSpace(inner[:end]), cutMarker) {
		return 0, false
	}
	return start, true
}
