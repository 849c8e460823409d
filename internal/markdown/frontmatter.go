package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// DefaultField is the rich-text field a source file fills when its front
// matter names none.
const DefaultField = "body"

// ParseFrontMatter splits source into its YAML/TOML/JSON metadata and the
// Markdown body. Sources without front matter yield empty metadata and the
// whole input as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta.frontMatter(), body, nil
}

// BuildDocument assembles an interfaces.Document from a file path, the
// detected locale, the raw file content and its modification time. A locale
// declared in the front matter wins over the detected one.
func BuildDocument(path string, locale string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	if declared := strings.TrimSpace(meta.Locale); declared != "" {
		locale = declared
	}

	return &interfaces.Document{
		FilePath:     path,
		Locale:       locale,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title" toml:"title" json:"title"`
	Slug    string         `yaml:"slug" toml:"slug" json:"slug"`
	Field   string         `yaml:"field" toml:"field" json:"field"`
	Locale  string         `yaml:"locale" toml:"locale" json:"locale"`
	Summary string         `yaml:"summary" toml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" toml:"tags" json:"tags"`
	Draft   bool           `yaml:"draft" toml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" toml:"-" json:"-"`
}

func (env frontMatterEnvelope) frontMatter() interfaces.FrontMatter {
	raw := cloneMap(env.Custom)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			raw[key] = value
		}
	}
	set("title", env.Title)
	set("slug", env.Slug)
	set("field", env.Field)
	set("locale", env.Locale)
	set("summary", env.Summary)
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:   strings.TrimSpace(env.Title),
		Slug:    strings.TrimSpace(env.Slug),
		Field:   strings.TrimSpace(env.Field),
		Locale:  strings.TrimSpace(env.Locale),
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Draft:   env.Draft,
		Custom:  cloneMap(env.Custom),
		Raw:     raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
