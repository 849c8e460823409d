package richtextcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-richtext/internal/commands"
	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/entries"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/validation"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const (
	convertMarkdownOperation = "richtext.convert_markdown"
	convertHTMLOperation     = "richtext.convert_html"
	renderOperation          = "richtext.render_document"
	importOperation          = "richtext.import_directory"
	exportOperation          = "richtext.export_entries"
)

// ErrImporterUnavailable is returned by import and export handlers built
// without an importer.
var ErrImporterUnavailable = errors.New("richtext command: importer is not configured")

// Converter is the conversion surface the handlers depend on.
type Converter interface {
	Convert(ctx context.Context, markdown string) (document.Node, error)
	ConvertHTML(ctx context.Context, html string) (document.Node, error)
	RenderMarkdown(doc document.Node) string
	RenderHTML(doc document.Node) string
}

// Importer stores converted sources and exports stored fields.
type Importer interface {
	ImportDirectory(ctx context.Context, dir string, load interfaces.LoadOptions, opts interfaces.ImportOptions) (*interfaces.ImportResult, error)
	Export(ctx context.Context, filter entries.ListFilter) ([]interfaces.ExportedField, error)
}

var (
	_ command.Commander[ConvertMarkdownCommand] = (*ConvertMarkdownHandler)(nil)
	_ command.Commander[ConvertHTMLCommand]     = (*ConvertHTMLHandler)(nil)
	_ command.Commander[RenderDocumentCommand]  = (*RenderDocumentHandler)(nil)
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[ExportEntriesCommand]   = (*ExportEntriesHandler)(nil)
)

// ConvertMarkdownHandler converts Markdown payloads into documents.
type ConvertMarkdownHandler struct {
	inner *commands.Handler[ConvertMarkdownCommand]
}

// NewConvertMarkdownHandler creates a handler bound to converter.
func NewConvertMarkdownHandler(converter Converter, logger interfaces.Logger, opts ...commands.HandlerOption[ConvertMarkdownCommand]) *ConvertMarkdownHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ConvertMarkdownCommand) error {
		doc, err := converter.Convert(ctx, msg.Markdown)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			msg.Result.Document = doc
		}
		logging.WithFields(logger, map[string]any{
			"blocks": len(doc.Content),
		}).Debug("richtext.command.convert_markdown.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConvertMarkdownCommand]{
		commands.WithLogger[ConvertMarkdownCommand](logger),
		commands.WithOperation[ConvertMarkdownCommand](convertMarkdownOperation),
		commands.WithMessageFields(func(msg ConvertMarkdownCommand) map[string]any {
			return sourceFields(msg.Source, len(msg.Markdown))
		}),
	}
	return &ConvertMarkdownHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ConvertMarkdownCommand].
func (h *ConvertMarkdownHandler) Execute(ctx context.Context, msg ConvertMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ConvertHTMLHandler converts HTML pages into documents.
type ConvertHTMLHandler struct {
	inner *commands.Handler[ConvertHTMLCommand]
}

// NewConvertHTMLHandler creates a handler bound to converter.
func NewConvertHTMLHandler(converter Converter, logger interfaces.Logger, opts ...commands.HandlerOption[ConvertHTMLCommand]) *ConvertHTMLHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ConvertHTMLCommand) error {
		doc, err := converter.ConvertHTML(ctx, msg.HTML)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			msg.Result.Document = doc
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConvertHTMLCommand]{
		commands.WithLogger[ConvertHTMLCommand](logger),
		commands.WithOperation[ConvertHTMLCommand](convertHTMLOperation),
		commands.WithMessageFields(func(msg ConvertHTMLCommand) map[string]any {
			return sourceFields(msg.Source, len(msg.HTML))
		}),
	}
	return &ConvertHTMLHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ConvertHTMLCommand].
func (h *ConvertHTMLHandler) Execute(ctx context.Context, msg ConvertHTMLCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderDocumentHandler renders wire JSON documents.
type RenderDocumentHandler struct {
	inner *commands.Handler[RenderDocumentCommand]
}

// NewRenderDocumentHandler creates a handler bound to converter. Payloads are
// checked against the document schema unless the message skips validation.
func NewRenderDocumentHandler(converter Converter, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDocumentCommand]) *RenderDocumentHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		if !msg.SkipValidation {
			if err := validation.ValidateDocumentJSON(msg.Document); err != nil {
				return commands.BadInput(err, "document does not match the rich-text schema")
			}
		}
		doc, err := document.Decode(msg.Document)
		if err != nil {
			return commands.BadInput(err, "document could not be decoded")
		}

		var output string
		switch msg.Format {
		case FormatHTML:
			output = converter.RenderHTML(doc)
		default:
			output = converter.RenderMarkdown(doc)
		}
		if msg.Result != nil {
			msg.Result.Output = output
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDocumentCommand]{
		commands.WithLogger[RenderDocumentCommand](logger),
		commands.WithOperation[RenderDocumentCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderDocumentCommand) map[string]any {
			return map[string]any{
				"format": msg.Format,
				"bytes":  len(msg.Document),
			}
		}),
	}
	return &RenderDocumentHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[RenderDocumentCommand].
func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportDirectoryHandler runs directory imports.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to importer.
func NewImportDirectoryHandler(importer Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if importer == nil {
			return ErrImporterUnavailable
		}
		load := interfaces.LoadOptions{
			Recursive: msg.Recursive,
			Pattern:   msg.Pattern,
		}
		result, err := importer.ImportDirectory(ctx, msg.Directory, load, interfaces.ImportOptions{
			Field:  msg.Field,
			Locale: msg.Locale,
			DryRun: msg.DryRun,
			Force:  msg.Force,
		})
		if result != nil {
			if msg.Result != nil {
				*msg.Result = *result
			}
			logging.WithFields(logger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("richtext.command.import_directory.completed")
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", msg.Directory, err)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](logger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Locale != "" {
				fields["locale"] = msg.Locale
			}
			if msg.Field != "" {
				fields["field"] = msg.Field
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
	}
	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportEntriesHandler renders stored fields back to Markdown.
type ExportEntriesHandler struct {
	inner *commands.Handler[ExportEntriesCommand]
}

// NewExportEntriesHandler creates a handler bound to importer.
func NewExportEntriesHandler(importer Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ExportEntriesCommand]) *ExportEntriesHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ExportEntriesCommand) error {
		if importer == nil {
			return ErrImporterUnavailable
		}
		fields, err := importer.Export(ctx, entries.ListFilter{
			EntrySlug: msg.Entry,
			FieldID:   msg.Field,
			Locale:    msg.Locale,
			Limit:     msg.Limit,
			Offset:    msg.Offset,
		})
		if err != nil {
			return err
		}
		if msg.Result != nil {
			msg.Result.Fields = fields
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportEntriesCommand]{
		commands.WithLogger[ExportEntriesCommand](logger),
		commands.WithOperation[ExportEntriesCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportEntriesCommand) map[string]any {
			return map[string]any{
				"entry":  msg.Entry,
				"field":  msg.Field,
				"locale": msg.Locale,
			}
		}),
	}
	return &ExportEntriesHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ExportEntriesCommand].
func (h *ExportEntriesHandler) Execute(ctx context.Context, msg ExportEntriesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func sourceFields(source string, size int) map[string]any {
	fields := map[string]any{"bytes": size}
	if source != "" {
		fields["source"] = source
	}
	return fields
}
