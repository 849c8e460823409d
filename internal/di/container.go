package di

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-richtext/internal/commands"
	richtextcmd "github.com/goliatone/go-richtext/internal/commands/richtext"
	"github.com/goliatone/go-richtext/internal/docximport"
	"github.com/goliatone/go-richtext/internal/entries"
	"github.com/goliatone/go-richtext/internal/identity"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/logging/gologger"
	"github.com/goliatone/go-richtext/internal/markdown"
	"github.com/goliatone/go-richtext/internal/render"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
	"github.com/goliatone/go-richtext/internal/transform"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// Container wires the conversion pipeline, the entry store and the command
// handlers from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	filesystem     fs.FS
	parser         markdown.Parser
	resolvers      []transform.FallbackResolver
	markdownRender render.Options
	htmlRender     render.Options
	registry       richtextcmd.CommandRegistry
	docx           *docximport.Converter

	bunDB      *bun.DB
	store      entries.Repository
	closeStore func() error

	assets      *identity.AssetRegistry
	transformer *transform.Transformer
	service     *markdown.Service
	importer    *markdown.Importer
	handlers    *richtextcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithFilesystem reads Markdown sources from filesystem instead of the content directory.
func WithFilesystem(filesystem fs.FS) Option {
	return func(c *Container) {
		c.filesystem = filesystem
	}
}

// WithParser replaces the goldmark parser.
func WithParser(parser markdown.Parser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithResolver appends a fallback resolver consulted after the built-in rules.
func WithResolver(resolver transform.FallbackResolver) Option {
	return func(c *Container) {
		if resolver != nil {
			c.resolvers = append(c.resolvers, resolver)
		}
	}
}

// WithMarkdownRenderers overrides Markdown renderers per node kind or mark.
func WithMarkdownRenderers(overrides render.Options) Option {
	return func(c *Container) {
		c.markdownRender = overrides
	}
}

// WithHTMLRenderers overrides HTML renderers per node kind or mark.
func WithHTMLRenderers(overrides render.Options) Option {
	return func(c *Container) {
		c.htmlRender = overrides
	}
}

// WithEntryRepository replaces the store selected by Config.Storage.
func WithEntryRepository(store entries.Repository) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithBunDB stores entry fields through db. The schema is created on startup.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCommandRegistry registers the command handlers with reg.
func WithCommandRegistry(reg richtextcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithDocxConverter replaces the pandoc-backed docx converter.
func WithDocxConverter(converter *docximport.Converter) Option {
	return func(c *Container) {
		c.docx = converter
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		assets: identity.NewAssetRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStore(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		c.Close()
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "richtext").Debug("container.configured",
		"storage", c.storageDriver(),
		"resolve_images", cfg.RichText.ResolveImages,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	if strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) != "gologger" {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: configure logging: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStore() error {
	switch {
	case c.store != nil:
		return nil
	case c.bunDB != nil:
		if err := entries.CreateSchema(context.Background(), c.bunDB); err != nil {
			return fmt.Errorf("di: prepare entry schema: %w", err)
		}
		c.store = entries.NewBunRepository(c.bunDB)
		return nil
	}

	store, closer, err := entries.Open(context.Background(), c.Config.Storage.Driver, c.Config.Storage.DSN)
	if err != nil {
		return fmt.Errorf("di: open entry store: %w", err)
	}
	c.store = store
	c.closeStore = closer
	return nil
}

func (c *Container) configureServices() error {
	resolvers := append([]transform.FallbackResolver(nil), c.resolvers...)
	if c.Config.RichText.ResolveImages {
		resolvers = append(resolvers, identity.ImageResolver(c.assets))
	}

	transformOpts := []transform.Option{
		transform.WithLogger(logging.TransformLogger(c.loggerProvider)),
	}
	if len(resolvers) > 0 {
		transformOpts = append(transformOpts, transform.WithResolver(transform.Chain(resolvers...)))
	}
	c.transformer = transform.New(transformOpts...)

	markdownCfg := c.Config.Markdown
	serviceOpts := []markdown.ServiceOption{
		markdown.WithTransformer(c.transformer),
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
		markdown.WithMarkdownRenderers(c.markdownRender),
		markdown.WithHTMLRenderers(c.htmlRender),
	}
	if c.parser != nil {
		serviceOpts = append(serviceOpts, markdown.WithParser(c.parser))
	}
	if c.filesystem != nil {
		serviceOpts = append(serviceOpts, markdown.WithFilesystem(c.filesystem))
	}
	docx := c.docx
	if docx == nil {
		docx = docximport.New(docximport.WithBinary(c.Config.RichText.Pandoc))
	}
	serviceOpts = append(serviceOpts, markdown.WithDocxConverter(docx))

	service, err := markdown.NewService(markdown.Config{
		BasePath:       markdownCfg.ContentDir,
		DefaultLocale:  c.Config.DefaultLocale,
		Locales:        markdownCfg.Locales,
		LocalePatterns: markdownCfg.LocalePatterns,
		Pattern:        markdownCfg.Pattern,
		Recursive:      markdownCfg.Recursive,
		Parser:         markdownCfg.Parser.ParseOptions(),
	}, serviceOpts...)
	if err != nil {
		return fmt.Errorf("di: configure markdown service: %w", err)
	}
	c.service = service

	c.importer = markdown.NewImporter(markdown.ImporterConfig{
		Service: service,
		Store:   c.store,
		Logger:  logging.EntriesLogger(c.loggerProvider),
	})
	return nil
}

func (c *Container) configureCommands() error {
	timeout := c.Config.Commands.Timeout
	handlers, err := richtextcmd.RegisterCommands(c.registry, c.service, c.loggerProvider,
		richtextcmd.WithImporter(c.importer),
		richtextcmd.WithConvertHandlerOptions(commands.WithTimeout[richtextcmd.ConvertMarkdownCommand](timeout)),
		richtextcmd.WithHTMLHandlerOptions(commands.WithTimeout[richtextcmd.ConvertHTMLCommand](timeout)),
		richtextcmd.WithRenderHandlerOptions(commands.WithTimeout[richtextcmd.RenderDocumentCommand](timeout)),
		richtextcmd.WithImportHandlerOptions(commands.WithTimeout[richtextcmd.ImportDirectoryCommand](timeout)),
		richtextcmd.WithExportHandlerOptions(commands.WithTimeout[richtextcmd.ExportEntriesCommand](timeout)),
	)
	if err != nil {
		return fmt.Errorf("di: register commands: %w", err)
	}
	c.handlers = handlers
	return nil
}

func (c *Container) storageDriver() string {
	switch {
	case c.bunDB != nil:
		return "bun"
	case strings.TrimSpace(c.Config.Storage.Driver) == "":
		return entries.DriverMemory
	default:
		return c.Config.Storage.Driver
	}
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Transformer returns the configured Markdown to document transformer.
func (c *Container) Transformer() *transform.Transformer {
	return c.transformer
}

// MarkdownService returns the conversion service.
func (c *Container) MarkdownService() *markdown.Service {
	return c.service
}

// Importer returns the entry importer.
func (c *Container) Importer() *markdown.Importer {
	return c.importer
}

// EntryRepository returns the entry field store.
func (c *Container) EntryRepository() entries.Repository {
	return c.store
}

// Assets returns the registry filled by the image resolver.
func (c *Container) Assets() *identity.AssetRegistry {
	return c.assets
}

// Commands returns the command handlers.
func (c *Container) Commands() *richtextcmd.HandlerSet {
	return c.handlers
}

// Close releases the entry store connection opened by the container.
// Stores supplied through options are left open.
func (c *Container) Close() error {
	if c == nil || c.closeStore == nil {
		return nil
	}
	closer := c.closeStore
	c.closeStore = nil
	return closer()
}
