package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// LoaderConfig configures how Markdown sources are discovered below a base directory.
type LoaderConfig struct {
	// BasePath is the directory the filesystem is rooted at. Absolute paths
	// passed to the loader are made relative to it.
	BasePath string
	// DefaultLocale is used when no locale can be inferred from the file path.
	DefaultLocale string
	// Locales enumerates known locales matched against the first path segment
	// (content/es/intro.md) or a file name suffix (intro.es.md).
	Locales []string
	// LocalePatterns maps locales to globs relative to BasePath.
	LocalePatterns map[string]string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Markdown documents with metadata.
type Loader struct {
	fs  fs.FS
	cfg LoaderConfig
}

// Source is a loaded document together with its raw bytes.
type Source struct {
	Document *interfaces.Document
	Raw      []byte
}

// NewLoader constructs a Loader reading from filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = "*.md"
	}
	if cfg.BasePath != "" {
		cfg.BasePath = filepath.Clean(cfg.BasePath)
	}
	cfg.Locales = append([]string(nil), cfg.Locales...)
	cfg.LocalePatterns = cloneStringMap(cfg.LocalePatterns)
	return &Loader{fs: filesystem, cfg: cfg}
}

// LoadFile reads and parses a single Markdown source.
func (l *Loader) LoadFile(ctx context.Context, name string, opts interfaces.LoadOptions) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.relative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, l.locale(rel, opts.LocalePatterns), data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &Source{Document: doc, Raw: data}, nil
}

// LoadDirectory loads every matching source under dir, ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*Source, error) {
	root, err := l.relative(dir)
	if err != nil {
		return nil, err
	}

	recursive := l.cfg.Recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}
	pattern := l.cfg.Pattern
	if strings.TrimSpace(opts.Pattern) != "" {
		pattern = opts.Pattern
	}

	var sources []*Source
	err = fs.WalkDir(l.fs, root, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if current != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !matchPattern(pattern, current) {
			return nil
		}
		source, err := l.LoadFile(ctx, current, opts)
		if err != nil {
			return err
		}
		sources = append(sources, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Document.FilePath < sources[j].Document.FilePath
	})
	return sources, nil
}

// locale resolves, in order: call patterns, configured patterns, a known
// locale as first path segment, a known locale as file name suffix, and the
// default locale.
func (l *Loader) locale(rel string, overrides map[string]string) string {
	if locale := matchLocalePattern(rel, overrides); locale != "" {
		return locale
	}
	if locale := matchLocalePattern(rel, l.cfg.LocalePatterns); locale != "" {
		return locale
	}

	first, _, _ := strings.Cut(rel, "/")
	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	for _, locale := range l.cfg.Locales {
		if first == locale || strings.HasSuffix(stem, "."+locale) {
			return locale
		}
	}
	return l.cfg.DefaultLocale
}

func (l *Loader) relative(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return ".", nil
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.cfg.BasePath == "" {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.cfg.BasePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}

// matchPattern matches slash-separated fs paths. Patterns without a slash
// match the base name; "**/" segments are treated as optional directories.
func matchPattern(pattern, name string) bool {
	pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

func matchLocalePattern(name string, patterns map[string]string) string {
	locales := make([]string, 0, len(patterns))
	for locale := range patterns {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		pattern := strings.TrimSpace(patterns[locale])
		if pattern == "" {
			continue
		}
		pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return locale
		}
	}
	return ""
}

func cloneStringMap(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
