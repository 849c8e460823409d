// Package richtext converts Markdown into the typed rich-text document model
// used by CMS formatted fields and renders documents back to Markdown or HTML.
//
// The package-level helpers run the conversion pipeline with defaults. Module
// wires the same pipeline from a Config together with the entry field store
// and the command handlers used by the richtext CLI.
package richtext

import (
	"context"

	richtextcmd "github.com/goliatone/go-richtext/internal/commands/richtext"
	"github.com/goliatone/go-richtext/internal/di"
	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/entries"
	"github.com/goliatone/go-richtext/internal/htmlimport"
	"github.com/goliatone/go-richtext/internal/markdown"
	"github.com/goliatone/go-richtext/internal/render"
	"github.com/goliatone/go-richtext/internal/transform"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

type (
	// Node is a rich-text document node.
	Node = document.Node
	Kind = document.Kind
	Mark = document.Mark
	Link = document.Link

	// FallbackResolver handles Markdown nodes the built-in rules cannot map.
	FallbackResolver = transform.FallbackResolver
	// RenderOptions overrides renderers per node kind or mark.
	RenderOptions = render.Options

	// Service converts sources and renders documents.
	Service = *markdown.Service
	// Importer stores converted sources as entry fields.
	Importer = *markdown.Importer
	// EntryRepository persists rich-text fields.
	EntryRepository = entries.Repository
	// Commands groups the command handlers.
	Commands = *richtextcmd.HandlerSet
)

// FromMarkdown converts markdown into a document with the default goldmark
// parser. resolver may be nil.
func FromMarkdown(ctx context.Context, markdownText string, resolver FallbackResolver) (Node, error) {
	return newTransformer(resolver).FromMarkdown(ctx, markdown.NewGoldmarkParser(interfaces.ParseOptions{}), markdownText)
}

// FromHTML extracts the main content of an HTML page and converts it through
// the Markdown pipeline.
func FromHTML(ctx context.Context, html string, resolver FallbackResolver) (Node, error) {
	return htmlimport.New().FromHTML(ctx, html, newTransformer(resolver), markdown.NewGoldmarkParser(interfaces.ParseOptions{}))
}

// ToMarkdown renders doc as Markdown.
func ToMarkdown(doc Node) string {
	return render.ToMarkdown(doc)
}

// ToHTML renders doc as an HTML fragment with optional renderer overrides.
func ToHTML(doc Node, overrides RenderOptions) string {
	return render.ToHTML(doc, overrides)
}

func newTransformer(resolver FallbackResolver) *transform.Transformer {
	if resolver == nil {
		return transform.New()
	}
	return transform.New(transform.WithResolver(resolver))
}

// ModuleOption customises the module wiring.
type ModuleOption = di.Option

var (
	// WithLoggerProvider overrides the provider selected by Config.Logging.
	WithLoggerProvider = di.WithLoggerProvider
	// WithFilesystem reads Markdown sources from an fs.FS instead of the content directory.
	WithFilesystem = di.WithFilesystem
	// WithResolver appends a fallback resolver to the transformer.
	WithResolver = di.WithResolver
	// WithMarkdownRenderers overrides Markdown renderers.
	WithMarkdownRenderers = di.WithMarkdownRenderers
	// WithHTMLRenderers overrides HTML renderers.
	WithHTMLRenderers = di.WithHTMLRenderers
	// WithEntryRepository replaces the configured entry store.
	WithEntryRepository = di.WithEntryRepository
	// WithBunDB stores entry fields through an existing bun database.
	WithBunDB = di.WithBunDB
	// WithDocxConverter replaces the pandoc-backed docx converter.
	WithDocxConverter = di.WithDocxConverter
	// WithCommandRegistry registers the command handlers with a go-command registry.
	WithCommandRegistry = di.WithCommandRegistry
)

// Module is the configured richtext runtime.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional container overrides.
func New(cfg Config, opts ...ModuleOption) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Service returns the conversion service.
func (m *Module) Service() Service {
	return m.container.MarkdownService()
}

// Importer returns the entry importer.
func (m *Module) Importer() Importer {
	return m.container.Importer()
}

// Entries returns the entry field store.
func (m *Module) Entries() EntryRepository {
	return m.container.EntryRepository()
}

// Commands returns the command handlers.
func (m *Module) Commands() Commands {
	return m.container.Commands()
}

// Logger returns a logger scoped to module under the configured provider.
func (m *Module) Logger(module string) interfaces.Logger {
	return loggerFor(m.container.LoggerProvider(), module)
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	return m.container.Close()
}
