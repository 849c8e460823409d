package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation    = "RICHTEXT_COMMAND_VALIDATION_FAILED"
	TextCodeCanceled      = "RICHTEXT_COMMAND_CANCELED"
	TextCodeTimeout       = "RICHTEXT_COMMAND_TIMEOUT"
	TextCodeContextError  = "RICHTEXT_COMMAND_CONTEXT_ERROR"
	TextCodeExecuteFailed = "RICHTEXT_COMMAND_FAILED"
	TextCodeBadInput      = "RICHTEXT_COMMAND_BAD_INPUT"
)

// BadInput tags err as a caller mistake, such as malformed document JSON,
// so it surfaces with the bad-input category instead of a generic failure.
func BadInput(err error, message string) error {
	if err == nil {
		return nil
	}
	if message == "" {
		message = "invalid command input"
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, message).
		WithTextCode(TextCodeBadInput)
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(TextCodeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(TextCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(TextCodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(TextCodeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(TextCodeExecuteFailed)
}
