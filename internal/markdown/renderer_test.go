package markdown

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
)

type recordingHighlighter struct {
	mu    sync.Mutex
	calls []highlightCall
	err   error
}

type highlightCall struct {
	lang string
	code string
}

func (h *recordingHighlighter) Highlight(lang, code string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, highlightCall{lang: lang, code: code})
	if h.err != nil {
		return "", h.err
	}
	return `<pre class="hl">` + lang + `</pre>`, nil
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestRenderHighlightsFencedCode(t *testing.T) {
	hl := &recordingHighlighter{}
	r := New(Options{}, hl)

	out, err := r.Render("```python\nprint(1)\nprint(2)\n```\n", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<pre class="hl">python</pre>`) {
		t.Fatalf("expected highlighter output, got %q", out)
	}
	if strings.Contains(out, "<code") {
		t.Fatalf("default code block markup leaked: %q", out)
	}
	if len(hl.calls) != 1 {
		t.Fatalf("expected one highlight call, got %d", len(hl.calls))
	}
	if hl.calls[0].code != "print(1)\nprint(2)\n" {
		t.Fatalf("unexpected code passed to highlighter: %q", hl.calls[0].code)
	}
}

func TestRenderPassesUnknownLanguageThrough(t *testing.T) {
	hl := &recordingHighlighter{}
	r := New(Options{}, hl)

	if _, err := r.Render("```foobar123\nx\n```\n", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(hl.calls) != 1 || hl.calls[0].lang != "foobar123" {
		t.Fatalf("unexpected calls %+v", hl.calls)
	}
}

func TestRenderIndentedCodeHasEmptyLanguage(t *testing.T) {
	hl := &recordingHighlighter{}
	r := New(Options{}, hl)

	if _, err := r.Render("para\n\n    indented\n", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(hl.calls) != 1 || hl.calls[0].lang != "" || hl.calls[0].code != "indented\n" {
		t.Fatalf("unexpected calls %+v", hl.calls)
	}
}

func TestRenderWrapsHighlightFailure(t *testing.T) {
	boom := errors.New("boom")
	r := New(Options{}, &recordingHighlighter{err: boom})

	_, err := r.Render("```go\nx\n```\n", nil)
	if !errors.Is(err, ErrHighlight) {
		t.Fatalf("expected ErrHighlight, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestRenderResolvesRelativeImages(t *testing.T) {
	r := New(Options{}, nil)
	permalink := mustParseURL(t, "https://example.com/blog/post/")

	out, err := r.Render("![a](diagram.png) ![b](https://cdn.example.org/x.png) ![c](/abs/y.png)", permalink)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`src="https://example.com/blog/post/diagram.png"`,
		`src="https://cdn.example.org/x.png"`,
		`src="https://example.com/abs/y.png"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %q", want, out)
		}
	}
}

func TestRenderWithoutPermalinkKeepsImages(t *testing.T) {
	r := New(Options{}, nil)

	out, err := r.Render("![a](diagram.png)", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `src="diagram.png"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderKeepsRawHTMLComments(t *testing.T) {
	r := New(Options{}, nil)

	out, err := r.Render("intro\n\n<!-- more -->\n\nrest", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<!-- more -->") {
		t.Fatalf("expected comment to survive, got %q", out)
	}
}

func TestRenderPlainSkipsTransforms(t *testing.T) {
	hl := &recordingHighlighter{}
	r := New(Options{}, hl)

	out, err := r.RenderPlain("# Title\n\n```go\nx\n```\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(hl.calls) != 0 {
		t.Fatalf("plain render should not highlight, got %+v", hl.calls)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<code") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestResolveImageURL(t *testing.T) {
	base := mustParseURL(t, "https://example.com/a/b/")
	cases := []struct {
		dest string
		want string
	}{
		{"img.png", "https://example.com/a/b/img.png"},
		{"../img.png", "https://example.com/a/img.png"},
		{"mailto:x@example.com", "mailto:x@example.com"},
		{"http://other.test/i.png", "http://other.test/i.png"},
		{"%zz", "https://example.com/a/b/%25zz"},
		{"pics/100%.png", "https://example.com/a/b/pics/100%25.png"},
	}
	for _, tc := range cases {
		if got := ResolveImageURL(tc.dest, base); got != tc.want {
			t.Fatalf("ResolveImageURL(%q) = %q, want %q", tc.dest, got, tc.want)
		}
	}
	if got := ResolveImageURL("img.png", nil); got != "img.png" {
		t.Fatalf("nil base should be a no-op, got %q", got)
	}
}

func TestCollectExtensionsDefaults(t *testing.T) {
	if got := len(collectExtensions(nil)); got != 3 {
		t.Fatalf("expected 3 default extensions, got %d", got)
	}
	got := collectExtensions([]string{"Table", "table", "unknown", " footnote "})
	if len(got) != 2 {
		t.Fatalf("expected table and footnote only, got %d", len(got))
	}
}
