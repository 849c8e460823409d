// Package docximport converts Word documents into Markdown, plain text and
// rich-text documents through the pandoc executable.
package docximport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/transform"
)

// ErrPandocMissing is returned when the pandoc executable cannot be found.
var ErrPandocMissing = errors.New("docximport: pandoc is required to convert docx files; see https://pandoc.org/installing.html")

// ErrFileRequired is returned when no source file name is given.
var ErrFileRequired = errors.New("docximport: file name is required")

const (
	formatRichText = "markdown_mmd+hard_line_breaks+startnum"
	formatMarkdown = "markdown_mmd+hard_line_breaks+startnum-raw_html"
	formatText     = "plain"
)

// Runner executes name with args and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Converter shells out to pandoc.
type Converter struct {
	binary   string
	run      Runner
	lookPath func(string) (string, error)
}

// Option customises a Converter.
type Option func(*Converter)

// WithBinary overrides the pandoc executable name or path.
func WithBinary(binary string) Option {
	return func(c *Converter) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithRunner replaces process execution.
func WithRunner(run Runner) Option {
	return func(c *Converter) {
		if run != nil {
			c.run = run
		}
	}
}

// WithLookPath replaces the executable lookup used by Check.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(c *Converter) {
		if lookPath != nil {
			c.lookPath = lookPath
		}
	}
}

// New constructs a converter using the pandoc found on PATH.
func New(opts ...Option) *Converter {
	c := &Converter{
		binary:   "pandoc",
		run:      execRunner,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Check reports ErrPandocMissing when the executable is not available.
func (c *Converter) Check() error {
	if _, err := c.lookPath(c.binary); err != nil {
		return ErrPandocMissing
	}
	return nil
}

// ToMarkdown converts filename to MultiMarkdown without raw HTML.
func (c *Converter) ToMarkdown(ctx context.Context, filename string) (string, error) {
	return c.convert(ctx, filename, formatMarkdown)
}

// ToText converts filename to plain text.
func (c *Converter) ToText(ctx context.Context, filename string) (string, error) {
	return c.convert(ctx, filename, formatText)
}

// FromDocx converts filename to Markdown that keeps raw HTML (underline and
// anchor tags) and runs it through the transformer.
func (c *Converter) FromDocx(ctx context.Context, filename string, transformer *transform.Transformer, parser transform.Parser) (document.Node, error) {
	markdown, err := c.convert(ctx, filename, formatRichText)
	if err != nil {
		return document.Node{}, err
	}
	if transformer == nil {
		transformer = transform.New()
	}
	return transformer.FromMarkdown(ctx, parser, markdown)
}

func (c *Converter) convert(ctx context.Context, filename, format string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", ErrFileRequired
	}
	if err := c.Check(); err != nil {
		return "", err
	}
	out, err := c.run(ctx, c.binary, "-f", "docx", "-t", format, filename)
	if err != nil {
		return "", fmt.Errorf("docximport: convert %s: %w", filename, err)
	}
	return string(out), nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
