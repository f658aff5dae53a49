// Package parser reads a single shortcode invocation of the form
// {{ name(key="value", other="value") }}.
//
// Values cannot contain a double quote; there is no escape syntax.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// ErrSyntax matches every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("shortcode: syntax error")

// SyntaxError reports where a span stopped matching the grammar.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("shortcode: syntax error at byte %d: %s", e.Offset, e.Reason)
}

// Is lets errors.Is(err, ErrSyntax) match.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Argument is one key="value" pair.
type Argument struct {
	Name  string
	Value string
}

// Invocation is a parsed shortcode.
type Invocation struct {
	Name string
	Args []Argument
}

// Values returns the arguments as a map. Later duplicates win.
func (inv Invocation) Values() map[string]string {
	values := make(map[string]string, len(inv.Args))
	for _, arg := range inv.Args {
		values[arg.Name] = arg.Value
	}
	return values
}

// Parse reads span as exactly one invocation, markers included. Nothing is
// returned unless the whole span matches.
func Parse(span string) (Invocation, error) {
	c := &cursor{src: span}

	if err := c.expect(openMarker); err != nil {
		return Invocation{}, err
	}
	c.skipSpace()

	name, err := c.identifier()
	if err != nil {
		return Invocation{}, err
	}
	c.skipSpace()

	if err := c.expect("("); err != nil {
		return Invocation{}, err
	}

	args, err := c.arguments()
	if err != nil {
		return Invocation{}, err
	}

	if err := c.expect(")"); err != nil {
		return Invocation{}, err
	}
	c.skipSpace()

	if err := c.expect(closeMarker); err != nil {
		return Invocation{}, err
	}
	if c.pos != len(c.src) {
		return Invocation{}, c.fail("unexpected input after closing marker")
	}

	return Invocation{Name: name, Args: args}, nil
}

type cursor struct {
	src string
	pos int
}

func (c *cursor) fail(reason string) *SyntaxError {
	return &SyntaxError{Offset: c.pos, Reason: reason}
}

func (c *cursor) expect(token string) error {
	if !strings.HasPrefix(c.src[c.pos:], token) {
		return c.fail(fmt.Sprintf("expected %q", token))
	}
	c.pos += len(token)
	return nil
}

func (c *cursor) peek(token string) bool {
	return strings.HasPrefix(c.src[c.pos:], token)
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.src) {
		r, size := utf8.DecodeRuneInString(c.src[c.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		c.pos += size
	}
}

func (c *cursor) identifier() (string, error) {
	start := c.pos
	for c.pos < len(c.src) {
		r, size := utf8.DecodeRuneInString(c.src[c.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		c.pos += size
	}
	if c.pos == start {
		return "", c.fail("expected identifier")
	}
	return c.src[start:c.pos], nil
}

func (c *cursor) quoted() (string, error) {
	if err := c.expect(`"`); err != nil {
		return "", err
	}
	end := strings.IndexByte(c.src[c.pos:], '"')
	if end < 0 {
		return "", c.fail("unterminated string")
	}
	value := c.src[c.pos : c.pos+end]
	c.pos += end + 1
	return value, nil
}

func (c *cursor) arguments() ([]Argument, error) {
	c.skipSpace()
	if c.peek(")") {
		return nil, nil
	}

	var args []Argument
	for {
		name, err := c.identifier()
		if err != nil {
			return nil, err
		}
		c.skipSpace()
		if err := c.expect("="); err != nil {
			return nil, err
		}
		c.skipSpace()
		value, err := c.quoted()
		if err != nil {
			return nil, err
		}
		args = append(args, Argument{Name: name, Value: value})

		c.skipSpace()
		if !c.peek(",") {
			return args, nil
		}
		c.pos++
		c.skipSpace()
	}
}
