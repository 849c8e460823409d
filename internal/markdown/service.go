package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/docximport"
	"github.com/goliatone/go-richtext/internal/htmlimport"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/render"
	"github.com/goliatone/go-richtext/internal/transform"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// ErrDocumentRequired is returned when a nil source document is converted.
var ErrDocumentRequired = errors.New("markdown service: document is required")

// Config controls how the service discovers and parses files.
type Config struct {
	BasePath       string
	DefaultLocale  string
	Locales        []string
	LocalePatterns map[string]string
	Pattern        string
	Recursive      bool
	Parser         interfaces.ParseOptions
}

// Conversion pairs a loaded source with the rich-text document built from it.
type Conversion struct {
	Source   *interfaces.Document
	Document document.Node
}

// Service converts Markdown sources into rich-text documents and renders
// documents back to Markdown or HTML.
type Service struct {
	cfg         Config
	filesystem  fs.FS
	parser      Parser
	transformer *transform.Transformer
	markdown    render.Options
	html        render.Options
	pages       *htmlimport.Converter
	docx        *docximport.Converter
	logger      interfaces.Logger
	loader      *Loader
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithParser replaces the goldmark parser.
func WithParser(parser Parser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithTransformer replaces the default transformer, typically to install a
// fallback resolver.
func WithTransformer(transformer *transform.Transformer) ServiceOption {
	return func(s *Service) {
		if transformer != nil {
			s.transformer = transformer
		}
	}
}

// WithFilesystem reads sources from filesystem instead of BasePath on disk.
func WithFilesystem(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		s.filesystem = filesystem
	}
}

// WithMarkdownRenderers overrides Markdown renderers per node kind or mark.
func WithMarkdownRenderers(overrides render.Options) ServiceOption {
	return func(s *Service) {
		s.markdown = overrides
	}
}

// WithHTMLRenderers overrides HTML renderers per node kind or mark.
func WithHTMLRenderers(overrides render.Options) ServiceOption {
	return func(s *Service) {
		s.html = overrides
	}
}

// WithHTMLConverter replaces the HTML page converter used by ConvertHTML.
func WithHTMLConverter(converter *htmlimport.Converter) ServiceOption {
	return func(s *Service) {
		if converter != nil {
			s.pages = converter
		}
	}
}

// WithDocxConverter replaces the pandoc-backed converter used by the docx
// operations.
func WithDocxConverter(converter *docximport.Converter) ServiceOption {
	return func(s *Service) {
		if converter != nil {
			s.docx = converter
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a conversion service. Without WithFilesystem the
// sources are read from cfg.BasePath, which must exist.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	svc := &Service{
		cfg:    cfg,
		logger: logging.MarkdownLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if svc.filesystem == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		svc.filesystem = filesystem
	}
	if svc.parser == nil {
		svc.parser = NewGoldmarkParser(cfg.Parser)
	}
	if svc.transformer == nil {
		svc.transformer = transform.New(transform.WithLogger(svc.logger))
	}
	if svc.pages == nil {
		svc.pages = htmlimport.New()
	}
	if svc.docx == nil {
		svc.docx = docximport.New()
	}

	svc.loader = NewLoader(svc.filesystem, LoaderConfig{
		BasePath:       cfg.BasePath,
		DefaultLocale:  cfg.DefaultLocale,
		Locales:        cfg.Locales,
		LocalePatterns: cfg.LocalePatterns,
		Pattern:        cfg.Pattern,
		Recursive:      cfg.Recursive,
	})
	return svc, nil
}

// Convert turns a Markdown string into a rich-text document.
func (s *Service) Convert(ctx context.Context, markdown string) (document.Node, error) {
	return s.transformer.FromMarkdown(ctx, s.parser, markdown)
}

// ConvertHTML extracts the main content of an HTML page and converts it
// through the Markdown pipeline.
func (s *Service) ConvertHTML(ctx context.Context, html string) (document.Node, error) {
	return s.pages.FromHTML(ctx, html, s.transformer, s.parser)
}

// ConvertDocx converts a Word document on disk into a rich-text document.
func (s *Service) ConvertDocx(ctx context.Context, filename string) (document.Node, error) {
	return s.docx.FromDocx(ctx, filename, s.transformer, s.parser)
}

// DocxMarkdown converts a Word document on disk into Markdown.
func (s *Service) DocxMarkdown(ctx context.Context, filename string) (string, error) {
	return s.docx.ToMarkdown(ctx, filename)
}

// DocxText converts a Word document on disk into plain text.
func (s *Service) DocxText(ctx context.Context, filename string) (string, error) {
	return s.docx.ToText(ctx, filename)
}

// ConvertDocument converts the body of a loaded source.
func (s *Service) ConvertDocument(ctx context.Context, doc *interfaces.Document) (document.Node, error) {
	if doc == nil {
		return document.Node{}, ErrDocumentRequired
	}
	logger := logging.WithMarkdownContext(s.logger, doc.FilePath, doc.Locale, "convert")
	converted, err := s.Convert(ctx, string(doc.Body))
	if err != nil {
		logger.Error("markdown.convert.failed", "error", err)
		return document.Node{}, fmt.Errorf("markdown convert %s: %w", doc.FilePath, err)
	}
	logger.Debug("markdown.convert.completed", "blocks", len(converted.Content))
	return converted, nil
}

// ConvertFile loads and converts a single source relative to the base path.
func (s *Service) ConvertFile(ctx context.Context, name string, opts interfaces.LoadOptions) (*Conversion, error) {
	source, err := s.loader.LoadFile(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	converted, err := s.ConvertDocument(ctx, source.Document)
	if err != nil {
		return nil, err
	}
	return &Conversion{Source: source.Document, Document: converted}, nil
}

// ConvertDirectory loads and converts every matching source below dir.
func (s *Service) ConvertDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*Conversion, error) {
	sources, err := s.LoadDirectory(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*Conversion, 0, len(sources))
	for _, doc := range sources {
		converted, err := s.ConvertDocument(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, &Conversion{Source: doc, Document: converted})
	}
	return out, nil
}

// LoadDirectory loads the sources below dir without converting them.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	sources, err := s.loader.LoadDirectory(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.Document, 0, len(sources))
	for _, source := range sources {
		docs = append(docs, source.Document)
	}
	return docs, nil
}

// RenderMarkdown renders doc as Markdown.
func (s *Service) RenderMarkdown(doc document.Node) string {
	return render.ToMarkdownWith(doc, s.markdown)
}

// RenderHTML renders doc as an HTML fragment.
func (s *Service) RenderHTML(doc document.Node) string {
	return render.ToHTML(doc, s.html)
}

// Preview renders Markdown straight to HTML with goldmark, bypassing the
// rich-text model.
func (s *Service) Preview(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	result.Sanitize = result.Sanitize || override.Sanitize
	result.HardWraps = result.HardWraps || override.HardWraps
	result.SafeMode = result.SafeMode || override.SafeMode
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
