package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-richtext/internal/entries"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

var (
	ErrServiceRequired = errors.New("markdown importer: conversion service is required")
	ErrStoreRequired   = errors.New("markdown importer: entry store is required")
	ErrSlugMissing     = errors.New("markdown importer: entry slug could not be determined")
)

// ImporterConfig encapsulates the dependencies required to store converted sources.
type ImporterConfig struct {
	Service *Service
	Store   entries.Repository
	Logger  interfaces.Logger
}

// Importer converts Markdown sources and stores them as entry fields.
type Importer struct {
	service *Service
	store   entries.Repository
	logger  interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.MarkdownLogger(nil)
	}
	return &Importer{
		service: cfg.Service,
		store:   cfg.Store,
		logger:  logger,
	}
}

// ImportDirectory loads every source below dir and imports it.
func (i *Importer) ImportDirectory(ctx context.Context, dir string, load interfaces.LoadOptions, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	docs, err := i.service.LoadDirectory(ctx, dir, load)
	if err != nil {
		return nil, err
	}
	return i.ImportDocuments(ctx, docs, opts)
}

// ImportDocuments imports docs in order. A failing document is recorded and
// the run continues; the first failure is returned alongside the result.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	acc := newImportAccumulator()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			acc.addError(err)
			break
		}
		if err := i.importDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

func (i *Importer) importDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	if doc == nil {
		return ErrDocumentRequired
	}
	key, err := fieldKey(doc, opts)
	if err != nil {
		return fmt.Errorf("markdown importer %s: %w", doc.FilePath, err)
	}
	logger := logging.WithMarkdownContext(i.logger, doc.FilePath, key.Locale, "import")
	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := i.store.Get(ctx, key)
	switch {
	case err == nil:
		if !opts.Force && checksum != "" && existing.Checksum == checksum {
			logger.Debug("markdown.import.skip", "key", key.String(), "reason", "unchanged")
			acc.skip(key)
			return nil
		}
	case errors.Is(err, entries.ErrFieldNotFound):
		existing = nil
	default:
		return fmt.Errorf("markdown importer: lookup %s: %w", key, err)
	}

	converted, err := i.service.ConvertDocument(ctx, doc)
	if err != nil {
		return err
	}

	if opts.DryRun {
		logger.Info("markdown.import.dry_run", "key", key.String(), "exists", existing != nil)
		if existing == nil {
			acc.created(key)
		} else {
			acc.updated(key)
		}
		return nil
	}

	_, created, err := i.store.Upsert(ctx, key, &entries.Field{
		Document:   entries.Body{Node: converted},
		Checksum:   checksum,
		SourcePath: doc.FilePath,
	})
	if err != nil {
		logger.Error("markdown.import.failed", "key", key.String(), "error", err)
		return fmt.Errorf("markdown importer: store %s: %w", key, err)
	}
	if created {
		acc.created(key)
	} else {
		acc.updated(key)
	}
	logger.Info("markdown.import.stored", "key", key.String(), "created", created)
	return nil
}

// Export renders the stored fields matching filter back to Markdown.
func (i *Importer) Export(ctx context.Context, filter entries.ListFilter) ([]interfaces.ExportedField, error) {
	if err := i.ready(); err != nil {
		return nil, err
	}
	fields, err := i.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]interfaces.ExportedField, 0, len(fields))
	for _, field := range fields {
		out = append(out, interfaces.ExportedField{
			Key:      field.Key,
			Locale:   field.Locale,
			Markdown: i.service.RenderMarkdown(field.Document.Node),
		})
	}
	return out, nil
}

func (i *Importer) ready() error {
	if i.service == nil {
		return ErrServiceRequired
	}
	if i.store == nil {
		return ErrStoreRequired
	}
	return nil
}

// fieldKey resolves the entry slug from front matter slug, title or file
// name, the field from options or front matter, and the locale from options
// or the loaded document.
func fieldKey(doc *interfaces.Document, opts interfaces.ImportOptions) (entries.Key, error) {
	entry := firstNonEmpty(doc.FrontMatter.Slug, doc.FrontMatter.Title, fileStem(doc.FilePath))
	if entry == "" {
		return entries.Key{}, ErrSlugMissing
	}
	field := firstNonEmpty(opts.Field, doc.FrontMatter.Field, DefaultField)
	locale := firstNonEmpty(opts.Locale, doc.Locale)
	return entries.NewKey(entry, field, locale)
}

func fileStem(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	base := path.Base(name)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if dot := strings.Index(stem, "."); dot > 0 {
		stem = stem[:dot]
	}
	return stem
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type importAccumulator struct {
	createdKeys []string
	updatedKeys []string
	skippedKeys []string
	errors      []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdKeys: []string{},
		updatedKeys: []string{},
		skippedKeys: []string{},
		errors:      []error{},
	}
}

func (a *importAccumulator) created(key entries.Key) {
	a.createdKeys = append(a.createdKeys, key.String())
}

func (a *importAccumulator) updated(key entries.Key) {
	a.updatedKeys = append(a.updatedKeys, key.String())
}

func (a *importAccumulator) skip(key entries.Key) {
	a.skippedKeys = append(a.skippedKeys, key.String())
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		Created: a.createdKeys,
		Updated: a.updatedKeys,
		Skipped: a.skippedKeys,
		Errors:  a.errors,
	}
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
