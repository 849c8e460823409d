package interfaces

import (
	"time"
)

// MarkdownParser defines how raw Markdown bytes are rendered into preview HTML.
// Implementations should be reusable across goroutines.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string `json:"extensions"`
	Sanitize   bool     `json:"sanitize"`
	HardWraps  bool     `json:"hard_wraps"`
	SafeMode   bool     `json:"safe_mode"`
}

// Document represents a Markdown source file with parsed metadata.
type Document struct {
	FilePath     string
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the original file content so
	// imports can skip fields whose source did not change.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Slug names the
// entry the body belongs to and Field the rich-text field it fills.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Field   string         `yaml:"field" json:"field"`
	Locale  string         `yaml:"locale" json:"locale"`
	Summary string         `yaml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive      *bool
	Pattern        string
	LocalePatterns map[string]string
}

// ImportOptions controls how Markdown documents are stored as rich-text fields.
type ImportOptions struct {
	// Field overrides the front matter field id.
	Field string
	// Locale overrides the detected locale.
	Locale string
	// DryRun converts every document but writes nothing.
	DryRun bool
	// Force rewrites fields whose stored checksum matches the source.
	Force bool
}

// ImportResult reports the outcome of an import run by field key
// (entry/field/locale).
type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
	Errors  []error
}

// ExportedField is one stored rich-text field rendered back to Markdown.
type ExportedField struct {
	Key      string
	Locale   string
	Markdown string
}
