package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-richtext/internal/logging"
)

type testMessage struct{}

func (testMessage) Type() string { return "richtext.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "richtext.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

type fieldMessage struct {
	Path string
}

func (fieldMessage) Type() string { return "richtext.test.fields" }

func (fieldMessage) Validate() error { return nil }

func TestHandlerTelemetryReceivesFieldsAndStatus(t *testing.T) {
	var infos []TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg fieldMessage) error {
		if msg.Path == "broken.md" {
			return errors.New("parse failure")
		}
		return nil
	},
		WithOperation[fieldMessage]("richtext.convert"),
		WithMessageFields(func(msg fieldMessage) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		WithTelemetry(func(_ context.Context, _ fieldMessage, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), fieldMessage{Path: "ok.md"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := h.Execute(context.Background(), fieldMessage{Path: "broken.md"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}

	if len(infos) != 2 {
		t.Fatalf("expected two telemetry callbacks, got %d", len(infos))
	}
	first := infos[0]
	if first.Status != TelemetryStatusSuccess || first.Command != "richtext.test.fields" || first.Operation != "richtext.convert" {
		t.Fatalf("unexpected success telemetry: %+v", first)
	}
	if first.Fields["path"] != "ok.md" || first.Fields["operation"] != "richtext.convert" {
		t.Fatalf("expected message fields, got %v", first.Fields)
	}
	if infos[1].Status != TelemetryStatusFailed || infos[1].Error == nil {
		t.Fatalf("expected failed telemetry, got %+v", infos[1])
	}
}

func TestHandlerMergesContextFields(t *testing.T) {
	var got map[string]any
	h := NewHandler(func(context.Context, fieldMessage) error { return nil },
		WithMessageFields(func(msg fieldMessage) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		WithTelemetry(func(_ context.Context, _ fieldMessage, info TelemetryInfo) {
			got = info.Fields
		}),
	)

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"cli": "import", "path": "stale.md"})
	if err := h.Execute(ctx, fieldMessage{Path: "intro.md"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["cli"] != "import" || got["path"] != "intro.md" || got["command"] != "richtext.test.fields" {
		t.Fatalf("unexpected fields %v", got)
	}
}

func TestHandlerTimeoutReportsContextStatus(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler(func(ctx context.Context, _ testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	},
		WithTimeout[testMessage](5*time.Millisecond),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			status = info.Status
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected timeout error")
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context error status, got %q", status)
	}
}

func TestBadInputCategory(t *testing.T) {
	err := BadInput(errors.New("unexpected end of JSON input"), "")
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input category, got %v", err)
	}
	if BadInput(nil, "ignored") != nil {
		t.Fatal("expected nil for nil error")
	}
}
