package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseValidInvocations(t *testing.T) {
	cases := []struct {
		input string
		want  Invocation
	}{
		{
			input: `{{ note(text="hi") }}`,
			want:  Invocation{Name: "note", Args: []Argument{{Name: "text", Value: "hi"}}},
		},
		{
			input: `{{ghost()}}`,
			want:  Invocation{Name: "ghost"},
		},
		{
			input: "{{\n  figure ( src=\"a.png\" , alt = \"An image\",caption=\"\" )\t}}",
			want: Invocation{Name: "figure", Args: []Argument{
				{Name: "src", Value: "a.png"},
				{Name: "alt", Value: "An image"},
				{Name: "caption", Value: ""},
			}},
		},
		{
			input: `{{ yt_embed_2(id="x{y}z") }}`,
			want:  Invocation{Name: "yt_embed_2", Args: []Argument{{Name: "id", Value: "x{y}z"}}},
		},
		{
			input: `{{ 引用(作者="x", café="é") }}`,
			want: Invocation{Name: "引用", Args: []Argument{
				{Name: "作者", Value: "x"},
				{Name: "café", Value: "é"},
			}},
		},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.input, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Parse(%q) = %#v, want %#v", tc.input, got, tc.want)
		}
	}
}

func TestParseMissingCloseParen(t *testing.T) {
	_, err := Parse(`{{ bad(x="1" }}`)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if syntaxErr.Offset != 13 {
		t.Fatalf("expected failure at byte 13, got %d", syntaxErr.Offset)
	}
}

func TestParseRejectsMalformedSpans(t *testing.T) {
	cases := map[string]int{
		`note(text="hi") }}`:        0,
		`{{ (text="hi") }}`:         3,
		`{{ note text="hi" }}`:      8,
		`{{ note(text=hi) }}`:       13,
		`{{ note(text="hi) }}`:      14,
		`{{ note(="hi") }}`:         8,
		`{{ note(a="1",) }}`:        14,
		`{{ note(a="1" b="2") }}`:   14,
		`{{ note(a="1") }`:          15,
		`{{ note(a="1") }} extra`:   17,
		`{{ no-dash() }}`:           5,
		`{{ note(a="say \"x\"") }}`: 17,
	}

	for input, offset := range cases {
		_, err := Parse(input)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("Parse(%q): expected *SyntaxError, got %v", input, err)
		}
		if syntaxErr.Offset != offset {
			t.Fatalf("Parse(%q): expected offset %d, got %d (%s)", input, offset, syntaxErr.Offset, syntaxErr.Reason)
		}
	}
}

func TestInvocationValues(t *testing.T) {
	inv := Invocation{Name: "n", Args: []Argument{{Name: "a", Value: "1"}, {Name: "a", Value: "2"}, {Name: "b", Value: "3"}}}
	values := inv.Values()
	if values["a"] != "2" || values["b"] != "3" || len(values) != 2 {
		t.Fatalf("unexpected values %v", values)
	}
}
