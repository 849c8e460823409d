// Package htmlimport turns HTML pages into rich-text documents by isolating
// the main content, converting it to Markdown and running the Markdown
// pipeline on the result.
package htmlimport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/transform"
)

// ErrNoContent is returned when a page has no usable content container.
var ErrNoContent = errors.New("htmlimport: no content container found")

// DefaultNoiseSelectors lists the elements removed before conversion.
var DefaultNoiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

var contentContainers = []string{"main", "article", "body"}

// Converter extracts and converts HTML content.
type Converter struct {
	noise []string
}

// Option configures a Converter.
type Option func(*Converter)

// WithNoiseSelectors replaces the removed selectors.
func WithNoiseSelectors(selectors ...string) Option {
	return func(c *Converter) {
		c.noise = append([]string(nil), selectors...)
	}
}

// New constructs a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{noise: append([]string(nil), DefaultNoiseSelectors...)}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Extract strips noise elements and returns the inner HTML of the first
// main, article or body element.
func (c *Converter) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("htmlimport: parse html: %w", err)
	}

	for _, selector := range c.noise {
		doc.Find(selector).Remove()
	}

	for _, tag := range contentContainers {
		if sel := doc.Find(tag); sel.Length() > 0 {
			content, err := sel.First().Html()
			if err != nil {
				return "", fmt.Errorf("htmlimport: serialize %s: %w", tag, err)
			}
			return content, nil
		}
	}
	return "", ErrNoContent
}

// ToMarkdown extracts the page content and converts it to Markdown.
func (c *Converter) ToMarkdown(html string) (string, error) {
	content, err := c.Extract(html)
	if err != nil {
		return "", err
	}
	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("htmlimport: convert to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// FromHTML converts an HTML page into a rich-text document through the
// Markdown pipeline.
func (c *Converter) FromHTML(ctx context.Context, html string, transformer *transform.Transformer, parser transform.Parser) (document.Node, error) {
	markdown, err := c.ToMarkdown(html)
	if err != nil {
		return document.Node{}, err
	}
	if transformer == nil {
		transformer = transform.New()
	}
	return transformer.FromMarkdown(ctx, parser, markdown)
}
