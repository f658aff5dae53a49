package commands

import (
	"context"
	"errors"
	"maps"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// DefaultCommandTimeout bounds one site command. Builds are local and finite.
const DefaultCommandTimeout = 10 * time.Minute

// Status classifies how a command run ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Outcome reports one command run to an Observer. Err is already
// categorised and Code is its text code ("" on success).
type Outcome struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Status    Status
	Code      string
	Err       error
}

// Observer receives the outcome of every Execute call.
type Observer[T command.Message] func(ctx context.Context, msg T, outcome Outcome)

// LogOutcome returns an Observer that writes one log entry per run.
func LogOutcome[T command.Message](logger interfaces.Logger) Observer[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, outcome Outcome) {
		entry := logging.WithFields(logger, outcome.Fields)
		args := []any{"duration_ms", outcome.Duration.Milliseconds()}
		switch outcome.Status {
		case StatusSucceeded:
			entry.Info("command.execute.success", args...)
		case StatusCanceled:
			entry.Warn("command.execute.canceled", append(args, "error", outcome.Err)...)
		default:
			entry.Error("command.execute.failed", append(args, "code", outcome.Code, "error", outcome.Err)...)
		}
	}
}

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a site command with validation, a timeout, log fields and
// go-errors categorisation. It satisfies command.Commander[T].
type Handler[T command.Message] struct {
	exec          command.CommandFunc[T]
	logger        interfaces.Logger
	timeout       time.Duration
	operation     string
	messageFields func(T) map[string]any
	observer      Observer[T]
}

// NewHandler wraps fn. Without WithObserver, outcomes go to LogOutcome.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.observer == nil {
		h.observer = LogOutcome[T](h.logger)
	}
	return h
}

// Execute validates msg, runs it under the handler timeout and returns a
// categorised error.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := h.fields(msg)
	logging.WithFields(h.logger, fields).Debug("command.execute.start")
	ctx = logging.ContextWithFields(ctx, fields)

	start := time.Now()
	err := h.exec(ctx, msg)
	if err == nil {
		err = ctx.Err()
	}

	outcome := Outcome{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Fields:    fields,
		Duration:  time.Since(start),
		Status:    StatusSucceeded,
	}
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome.Status = StatusCanceled
		outcome.Code = commandContextCanceled
		if errors.Is(err, context.DeadlineExceeded) {
			outcome.Code = commandContextTimeout
		}
		err = wrapContextError(err)
	default:
		outcome.Status = StatusFailed
		outcome.Code = ErrorCode(err)
		err = wrapExecuteError(err)
	}
	outcome.Err = err

	h.observer(ctx, msg, outcome)
	return err
}

func (h *Handler[T]) fields(msg T) map[string]any {
	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.messageFields != nil {
		maps.Copy(fields, h.messageFields(msg))
	}
	return fields
}

// WithTimeout overrides DefaultCommandTimeout. Zero or less disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the logger used for start entries and by LogOutcome.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOperation names the operation in every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from each message.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.messageFields = fn
	}
}

// WithObserver replaces LogOutcome.
func WithObserver[T command.Message](fn Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.observer = fn
	}
}
