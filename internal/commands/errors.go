package commands

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/frontmatter"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/shortcode"
	"github.com/goliatone/go-sitegen/internal/shortcode/parser"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
	configInvalidCode       = "CONFIG_INVALID"
)

// pipelineCodes maps pipeline error kinds to the text codes reported at the
// command boundary. Order matters: the first match wins.
var pipelineCodes = []struct {
	target error
	code   string
}{
	{frontmatter.ErrMalformedInput, "FRONTMATTER_MALFORMED"},
	{frontmatter.ErrUnterminatedBlock, "FRONTMATTER_UNTERMINATED"},
	{frontmatter.ErrSchema, "FRONTMATTER_SCHEMA"},
	{content.ErrUnterminatedShortCode, "SHORTCODE_UNTERMINATED"},
	{parser.ErrSyntax, "SHORTCODE_SYNTAX"},
	{shortcode.ErrUnknownShortCode, "SHORTCODE_UNKNOWN"},
	{shortcode.ErrTemplateRender, "TEMPLATE_RENDER"},
	{markdown.ErrHighlight, "HIGHLIGHT_FAILED"},
	{generator.ErrPageRender, "TEMPLATE_RENDER"},
}

var configErrors = []error{
	runtimeconfig.ErrBaseURLRequired,
	runtimeconfig.ErrBaseURLInvalid,
	runtimeconfig.ErrLoggingLevelInvalid,
	runtimeconfig.ErrLoggingFormatInvalid,
}

// ErrorCode returns the text code used when err is categorised at the
// command boundary.
func ErrorCode(err error) string {
	for _, candidate := range pipelineCodes {
		if errors.Is(err, candidate.target) {
			return candidate.code
		}
	}
	if isConfigError(err) {
		return configInvalidCode
	}
	return commandExecuteFailed
}

func isConfigError(err error) bool {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return true
	}
	for _, target := range configErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if isConfigError(err) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "site configuration invalid").
			WithTextCode(configInvalidCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "site build failed").
		WithTextCode(ErrorCode(err))
}
