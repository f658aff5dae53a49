// Package frontmatter splits content files into their TOML metadata block and
// the markdown body that follows it.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "+++"

var (
	// ErrMalformedInput indicates the text does not start with the delimiter.
	ErrMalformedInput = errors.New("frontmatter: missing opening delimiter")
	// ErrUnterminatedBlock indicates no closing delimiter follows the opening one.
	ErrUnterminatedBlock = errors.New("frontmatter: unterminated block")
	// ErrSchema indicates the block is not valid TOML for the FrontMatter shape.
	ErrSchema = errors.New("frontmatter: schema error")
)

// FrontMatter is the metadata block of a content file. Empty strings mean
// the key was absent.
type FrontMatter struct {
	Title       string              `toml:"title,omitempty"`
	Date        *time.Time          `toml:"date,omitempty"`
	Template    string              `toml:"template,omitempty"`
	Description string              `toml:"description,omitempty"`
	Taxonomies  map[string][]string `toml:"taxonomies,omitempty"`
}

// Document is the result of splitting a content file.
type Document struct {
	FrontMatter FrontMatter
	Body        string
	// Undecoded lists keys present in the block that FrontMatter ignores.
	Undecoded []string
}

// Extract splits text into its metadata block and body.
func Extract(text string) (Document, error) {
	if !strings.HasPrefix(text, Delimiter) {
		return Document{}, ErrMalformedInput
	}

	rest := text[len(Delimiter):]
	end := strings.Index(rest, Delimiter)
	if end < 0 {
		return Document{}, ErrUnterminatedBlock
	}

	block := strings.TrimSpace(rest[:end])
	var fm FrontMatter
	meta, err := toml.Decode(block, &fm)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	undecoded := make([]string, 0, len(meta.Undecoded()))
	for _, key := range meta.Undecoded() {
		undecoded = append(undecoded, key.String())
	}

	return Document{
		FrontMatter: fm,
		Body:        strings.TrimLeftFunc(rest[end+len(Delimiter):], unicode.IsSpace),
		Undecoded:   undecoded,
	}, nil
}

// Encode serializes fm into a delimited block that Extract accepts.
func Encode(fm FrontMatter) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	if err := toml.NewEncoder(&buf).Encode(fm); err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}
	buf.WriteString(Delimiter + "\n")
	return buf.String(), nil
}
