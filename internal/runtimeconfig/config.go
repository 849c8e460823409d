package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-richtext/internal/entries"
	"github.com/goliatone/go-richtext/internal/markdown"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

var ErrDefaultLocaleRequired = errors.New("richtext config: default locale is required")
var ErrMarkdownPatternInvalid = errors.New("richtext config: markdown pattern is invalid")
var ErrMarkdownExtensionUnknown = errors.New("richtext config: markdown extension is not supported")
var ErrStorageDriverUnknown = errors.New("richtext config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("richtext config: storage dsn is required for database drivers")
var ErrCommandTimeoutInvalid = errors.New("richtext config: command timeout must be zero or positive")
var ErrLoggingProviderUnknown = errors.New("richtext config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("richtext config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("richtext config: logging format is invalid")

// Config aggregates the options of the conversion pipeline, the entry store
// and the ambient runtime.
type Config struct {
	DefaultLocale string
	Markdown      MarkdownConfig
	RichText      RichTextConfig
	Storage       StorageConfig
	Commands      CommandsConfig
	Logging       LoggingConfig
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown sources.
type MarkdownConfig struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	LocalePatterns map[string]string
	Locales        []string
	Parser         MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// ParseOptions converts the parser configuration into interfaces.ParseOptions.
func (c MarkdownParserConfig) ParseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), c.Extensions...),
		Sanitize:   c.Sanitize,
		HardWraps:  c.HardWraps,
		SafeMode:   c.SafeMode,
	}
}

// RichTextConfig toggles optional conversion behaviour.
type RichTextConfig struct {
	// ResolveImages turns plain Markdown images into embedded assets with
	// deterministic ids instead of dropping them.
	ResolveImages bool
	// ValidateDocuments checks documents read from JSON against the wire schema.
	ValidateDocuments bool
	// Pandoc names the executable used for docx conversion.
	Pandoc string
}

// StorageConfig selects the entry field store.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CommandsConfig captures command-layer behaviour.
type CommandsConfig struct {
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults suited to offline conversion runs.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: entries.DefaultLocale,
		Markdown: MarkdownConfig{
			ContentDir:     "content",
			Pattern:        "*.md",
			Recursive:      true,
			LocalePatterns: map[string]string{},
		},
		RichText: RichTextConfig{
			ValidateDocuments: true,
			Pandoc:            "pandoc",
		},
		Storage: StorageConfig{
			Driver: entries.DriverMemory,
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "none",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if pattern := strings.TrimSpace(cfg.Markdown.Pattern); pattern != "" && !validPattern(pattern) {
		return fmt.Errorf("%w: %s", ErrMarkdownPatternInvalid, pattern)
	}
	supported := markdown.SupportedExtensions()
	for _, ext := range cfg.Markdown.Parser.Extensions {
		if !slices.Contains(supported, strings.ToLower(strings.TrimSpace(ext))) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext)
		}
	}

	switch driver := normalize(cfg.Storage.Driver); driver {
	case "", entries.DriverMemory:
	case entries.DriverSQLite, entries.DriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}

	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if provider == "gologger" {
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func validPattern(pattern string) bool {
	_, err := path.Match(pattern, "")
	return err == nil
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "", "none", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
