package richtextcmd

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const (
	convertMarkdownMessageType = "richtext.convert_markdown"
	convertHTMLMessageType     = "richtext.convert_html"
	renderDocumentMessageType  = "richtext.render_document"
	importDirectoryMessageType = "richtext.import_directory"
	exportEntriesMessageType   = "richtext.export_entries"
)

// MaxSourceBytes bounds the Markdown and HTML payloads accepted by commands.
const MaxSourceBytes = 8 << 20

const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ConversionResult receives the document built by a conversion command.
type ConversionResult struct {
	Document document.Node
}

// RenderResult receives the output of RenderDocumentCommand.
type RenderResult struct {
	Output string
}

// ExportResult receives the fields rendered by ExportEntriesCommand.
type ExportResult struct {
	Fields []interfaces.ExportedField
}

// ConvertMarkdownCommand converts a Markdown string into a rich-text document.
type ConvertMarkdownCommand struct {
	// Markdown is the source text. An empty string yields an empty document.
	Markdown string `json:"markdown"`
	// Source labels the input in logs, typically a file path.
	Source string `json:"source,omitempty"`
	// Result is filled on success when non-nil.
	Result *ConversionResult `json:"-"`
}

// Type implements command.Message.
func (ConvertMarkdownCommand) Type() string { return convertMarkdownMessageType }

// Validate bounds the payload size.
func (cmd ConvertMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Markdown, validation.By(maxBytes("richtext.convert_markdown.markdown_too_large"))),
	)
}

// ConvertHTMLCommand converts an HTML page into a rich-text document.
type ConvertHTMLCommand struct {
	HTML   string            `json:"html"`
	Source string            `json:"source,omitempty"`
	Result *ConversionResult `json:"-"`
}

// Type implements command.Message.
func (ConvertHTMLCommand) Type() string { return convertHTMLMessageType }

// Validate requires a non-blank page within the size limit.
func (cmd ConvertHTMLCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.HTML,
			validation.By(notBlank("richtext.convert_html.html_required", "html is required")),
			validation.By(maxBytes("richtext.convert_html.html_too_large")),
		),
	)
}

// RenderDocumentCommand renders a JSON-encoded document as Markdown or HTML.
type RenderDocumentCommand struct {
	// Document holds the wire JSON of the rich-text document.
	Document json.RawMessage `json:"document"`
	// Format selects the output, FormatMarkdown or FormatHTML.
	Format string `json:"format"`
	// SkipValidation renders without checking the document against the schema.
	SkipValidation bool          `json:"skip_validation,omitempty"`
	Result         *RenderResult `json:"-"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate requires a document payload and a supported format.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Document, validation.Required),
		validation.Field(&cmd.Format, validation.Required, validation.In(FormatMarkdown, FormatHTML)),
	)
}

// ImportDirectoryCommand converts every Markdown source below Directory and
// stores the documents as entry fields.
type ImportDirectoryCommand struct {
	// Directory selects the path, relative to the content root, to walk.
	Directory string `json:"directory"`
	// Pattern overrides the configured file glob.
	Pattern string `json:"pattern,omitempty"`
	// Recursive overrides the configured traversal depth when set.
	Recursive *bool `json:"recursive,omitempty"`
	// Field and Locale override front matter and path detection.
	Field  string `json:"field,omitempty"`
	Locale string `json:"locale,omitempty"`
	// DryRun reports what would change without writing.
	DryRun bool `json:"dry_run,omitempty"`
	// Force rewrites fields whose source checksum is unchanged.
	Force  bool                     `json:"force,omitempty"`
	Result *interfaces.ImportResult `json:"-"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory,
			validation.By(notBlank("richtext.import_directory.directory_required", "directory is required")),
		),
	)
}

// ExportEntriesCommand renders stored fields back to Markdown.
type ExportEntriesCommand struct {
	Entry  string        `json:"entry,omitempty"`
	Field  string        `json:"field,omitempty"`
	Locale string        `json:"locale,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
	Result *ExportResult `json:"-"`
}

// Type implements command.Message.
func (ExportEntriesCommand) Type() string { return exportEntriesMessageType }

// Validate rejects negative paging values.
func (cmd ExportEntriesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Limit, validation.Min(0)),
		validation.Field(&cmd.Offset, validation.Min(0)),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if text, _ := value.(string); strings.TrimSpace(text) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

func maxBytes(code string) validation.RuleFunc {
	return func(value any) error {
		if text, _ := value.(string); len(text) > MaxSourceBytes {
			return validation.NewError(code, "payload exceeds the size limit")
		}
		return nil
	}
}
