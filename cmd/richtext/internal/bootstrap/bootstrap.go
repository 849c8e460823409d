// Package bootstrap builds the richtext module used by the CLI from flag values.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-richtext"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// Options captures configuration collected from CLI flags.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	DefaultLocale  string
	Locales        []string
	LocalePatterns map[string]string
	Extensions     []string
	ResolveImages  bool
	SkipValidation bool
	StorageDriver  string
	StorageDSN     string
	LogLevel       string
	LogFormat      string
	LoggerProvider interfaces.LoggerProvider
	ModuleOptions  []richtext.ModuleOption
}

// Module pairs the richtext module with the logger used by CLI commands.
type Module struct {
	Module *richtext.Module
	Logger interfaces.Logger
}

// Config translates opts into a richtext configuration.
func Config(opts Options) richtext.Config {
	cfg := richtext.DefaultConfig()

	cfg.Markdown.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.Markdown.ContentDir == "" {
		cfg.Markdown.ContentDir = "."
	}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		cfg.Markdown.Pattern = pattern
	}
	cfg.Markdown.Recursive = opts.Recursive
	if len(opts.Locales) > 0 {
		cfg.Markdown.Locales = cloneStrings(opts.Locales)
	}
	if len(opts.LocalePatterns) > 0 {
		cfg.Markdown.LocalePatterns = opts.LocalePatterns
	}
	cfg.Markdown.Parser.Extensions = cloneStrings(opts.Extensions)
	if locale := strings.TrimSpace(opts.DefaultLocale); locale != "" {
		cfg.DefaultLocale = locale
	}

	cfg.RichText.ResolveImages = opts.ResolveImages
	cfg.RichText.ValidateDocuments = !opts.SkipValidation

	if driver := strings.TrimSpace(opts.StorageDriver); driver != "" {
		cfg.Storage.Driver = driver
	}
	cfg.Storage.DSN = strings.TrimSpace(opts.StorageDSN)

	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Level = level
		cfg.Logging.Format = strings.TrimSpace(opts.LogFormat)
	}
	return cfg
}

// BuildModule constructs a richtext module configured from opts.
func BuildModule(opts Options) (*Module, error) {
	var diOpts []richtext.ModuleOption
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, richtext.WithLoggerProvider(opts.LoggerProvider))
	}
	diOpts = append(diOpts, opts.ModuleOptions...)

	module, err := richtext.New(Config(opts), diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise richtext module: %w", err)
	}
	return &Module{
		Module: module,
		Logger: module.Logger("cli"),
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
