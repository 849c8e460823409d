package richtextcmd

import (
	"errors"

	"github.com/goliatone/go-richtext/internal/commands"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterCommands.
type HandlerSet struct {
	ConvertMarkdown *ConvertMarkdownHandler
	ConvertHTML     *ConvertHTMLHandler
	Render          *RenderDocumentHandler
	Import          *ImportDirectoryHandler
	Export          *ExportEntriesHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	store   Importer
	convert []commands.HandlerOption[ConvertMarkdownCommand]
	html    []commands.HandlerOption[ConvertHTMLCommand]
	render  []commands.HandlerOption[RenderDocumentCommand]
	imports []commands.HandlerOption[ImportDirectoryCommand]
	exports []commands.HandlerOption[ExportEntriesCommand]
}

// WithImporter enables the import and export handlers.
func WithImporter(importer Importer) Option {
	return func(o *options) {
		o.store = importer
	}
}

// WithConvertHandlerOptions forwards options to the ConvertMarkdownHandler constructor.
func WithConvertHandlerOptions(opts ...commands.HandlerOption[ConvertMarkdownCommand]) Option {
	return func(o *options) {
		o.convert = append(o.convert, opts...)
	}
}

// WithHTMLHandlerOptions forwards options to the ConvertHTMLHandler constructor.
func WithHTMLHandlerOptions(opts ...commands.HandlerOption[ConvertHTMLCommand]) Option {
	return func(o *options) {
		o.html = append(o.html, opts...)
	}
}

// WithRenderHandlerOptions forwards options to the RenderDocumentHandler constructor.
func WithRenderHandlerOptions(opts ...commands.HandlerOption[RenderDocumentCommand]) Option {
	return func(o *options) {
		o.render = append(o.render, opts...)
	}
}

// WithImportHandlerOptions forwards options to the ImportDirectoryHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(o *options) {
		o.imports = append(o.imports, opts...)
	}
}

// WithExportHandlerOptions forwards options to the ExportEntriesHandler constructor.
func WithExportHandlerOptions(opts ...commands.HandlerOption[ExportEntriesCommand]) Option {
	return func(o *options) {
		o.exports = append(o.exports, opts...)
	}
}

// RegisterCommands builds the richtext handlers and registers them with reg
// when it is non-nil. Import and export handlers are only built when an
// importer is supplied through WithImporter.
func RegisterCommands(reg CommandRegistry, converter Converter, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if converter == nil {
		return nil, errors.New("richtext command registration: converter is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "richtext")
	set := &HandlerSet{
		ConvertMarkdown: NewConvertMarkdownHandler(converter, logger, cfg.convert...),
		ConvertHTML:     NewConvertHTMLHandler(converter, logger, cfg.html...),
		Render:          NewRenderDocumentHandler(converter, logger, cfg.render...),
	}
	if cfg.store != nil {
		set.Import = NewImportDirectoryHandler(cfg.store, logger, cfg.imports...)
		set.Export = NewExportEntriesHandler(cfg.store, logger, cfg.exports...)
	}

	if reg == nil {
		return set, nil
	}
	for _, handler := range set.handlers() {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *HandlerSet) handlers() []any {
	out := []any{s.ConvertMarkdown, s.ConvertHTML, s.Render}
	if s.Import != nil {
		out = append(out, s.Import)
	}
	if s.Export != nil {
		out = append(out, s.Export)
	}
	return out
}
