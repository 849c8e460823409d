package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-richtext/cmd/richtext/internal/bootstrap"
	"github.com/goliatone/go-richtext/internal/logging"
)

type rootFlags struct {
	contentDir     string
	pattern        string
	recursive      bool
	locales        string
	defaultLocale  string
	extensions     string
	resolveImages  bool
	skipValidation bool
	storage        string
	dsn            string
	logLevel       string
	logFormat      string
}

func (f rootFlags) options() bootstrap.Options {
	return bootstrap.Options{
		ContentDir:     f.contentDir,
		Pattern:        f.pattern,
		Recursive:      f.recursive,
		DefaultLocale:  f.defaultLocale,
		Locales:        bootstrap.SplitList(f.locales),
		Extensions:     bootstrap.SplitList(f.extensions),
		ResolveImages:  f.resolveImages,
		SkipValidation: f.skipValidation,
		StorageDriver:  f.storage,
		StorageDSN:     f.dsn,
		LogLevel:       f.logLevel,
		LogFormat:      f.logFormat,
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "richtext",
		Short: "Convert between Markdown, HTML and rich-text documents",
		Long: `richtext converts Markdown into the rich-text document model used by CMS
formatted fields and renders documents back to Markdown or HTML.

Usage:
  richtext from-markdown notes.md --out notes.json
  richtext to-markdown notes.json
  richtext from-docx report.docx --to markdown
  richtext import docs --storage sqlite --dsn file:fields.db`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(logging.ContextWithFields(cmd.Context(), map[string]any{"cli": cmd.Name()}))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.contentDir, "content-dir", ".", "Root directory for Markdown sources")
	pf.StringVar(&flags.pattern, "pattern", "*.md", "Glob pattern applied when discovering Markdown files")
	pf.BoolVar(&flags.recursive, "recursive", true, "Walk sub-directories when importing")
	pf.StringVar(&flags.locales, "locales", "", "Comma separated locales detected from paths")
	pf.StringVar(&flags.defaultLocale, "default-locale", "en-US", "Locale used when none is detected")
	pf.StringVar(&flags.extensions, "extensions", "", "Comma separated goldmark extensions (default gfm,linkify,tasklist)")
	pf.BoolVar(&flags.resolveImages, "resolve-images", false, "Turn Markdown images into embedded asset blocks")
	pf.BoolVar(&flags.skipValidation, "skip-validation", false, "Render documents without checking them against the schema")
	pf.StringVar(&flags.storage, "storage", "memory", "Entry store driver: memory, sqlite or postgres")
	pf.StringVar(&flags.dsn, "dsn", "", "Entry store connection string")
	pf.StringVar(&flags.logLevel, "log-level", "", "Enable go-logger output at the given level")
	pf.StringVar(&flags.logFormat, "log-format", "console", "go-logger format: json, console or pretty")

	root.AddCommand(
		newFromMarkdownCommand(flags),
		newFromHTMLCommand(flags),
		newFromDocxCommand(flags),
		newRenderCommand(flags, "to-markdown", "markdown"),
		newRenderCommand(flags, "to-html", "html"),
		newASTCommand(flags),
		newPreviewCommand(flags),
		newImportCommand(flags),
		newExportCommand(flags),
	)
	return root
}

func buildModule(flags *rootFlags) (*bootstrap.Module, error) {
	module, err := moduleBuilder(flags.options())
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Module == nil {
		return nil, fmt.Errorf("bootstrap module: richtext module not configured")
	}
	return module, nil
}

// readInput reads name, or standard input when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// writeOutput writes data to out, or to standard output when out is empty.
// File writes report their size on standard error.
func writeOutput(cmd *cobra.Command, data []byte, out string) error {
	if strings.TrimSpace(out) == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s to %s\n", humanize.Bytes(uint64(len(data))), out)
	return nil
}
