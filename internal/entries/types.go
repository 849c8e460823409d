// Package entries stores converted rich-text fields keyed by entry slug,
// field id and locale, standing in for the CMS entry API in offline runs.
package entries

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-richtext/internal/document"
)

var (
	// ErrFieldNotFound is returned when no field matches the lookup.
	ErrFieldNotFound = errors.New("entries: field not found")
	// ErrInvalidKey is returned when an entry slug or field id is empty.
	ErrInvalidKey = errors.New("entries: entry slug and field id are required")
)

// DefaultLocale is used when a key carries no locale.
const DefaultLocale = "en-US"

// Key addresses one localized rich-text field of an entry.
type Key struct {
	EntrySlug string
	FieldID   string
	Locale    string
}

// NewKey normalizes the entry slug with go-slug and fills the default locale.
func NewKey(entry, field, locale string) (Key, error) {
	entry = strings.TrimSpace(entry)
	field = strings.TrimSpace(field)
	if entry == "" || field == "" {
		return Key{}, ErrInvalidKey
	}
	normalized, err := slug.Normalize(entry)
	if err != nil {
		return Key{}, fmt.Errorf("entries: normalize slug %q: %w", entry, err)
	}
	if normalized == "" {
		return Key{}, ErrInvalidKey
	}
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	return Key{EntrySlug: normalized, FieldID: field, Locale: locale}, nil
}

// String renders the key as entry/field/locale.
func (k Key) String() string {
	return k.EntrySlug + "/" + k.FieldID + "/" + k.Locale
}

// Field is one stored rich-text value.
type Field struct {
	bun.BaseModel `bun:"table:richtext_fields,alias:rf"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key        string    `bun:"key,notnull,unique" json:"key"`
	EntrySlug  string    `bun:"entry_slug,notnull" json:"entry_slug"`
	FieldID    string    `bun:"field_id,notnull" json:"field_id"`
	Locale     string    `bun:"locale,notnull" json:"locale"`
	Document   Body      `bun:"document,type:jsonb" json:"document"`
	Checksum   string    `bun:"checksum" json:"checksum,omitempty"`
	SourcePath string    `bun:"source_path" json:"source_path,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// FieldKey returns the key the field is stored under.
func (f *Field) FieldKey() Key {
	return Key{EntrySlug: f.EntrySlug, FieldID: f.FieldID, Locale: f.Locale}
}

func (f *Field) applyKey(key Key) {
	f.Key = key.String()
	f.EntrySlug = key.EntrySlug
	f.FieldID = key.FieldID
	f.Locale = key.Locale
}

func (f *Field) clone() *Field {
	if f == nil {
		return nil
	}
	copied := *f
	copied.Document = Body{Node: f.Document.Node.Clone()}
	return &copied
}

// Body wraps a document so it is stored as its JSON wire shape.
type Body struct {
	document.Node
}

// Value implements driver.Valuer.
func (b Body) Value() (driver.Value, error) {
	data, err := json.Marshal(b.Node)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (b *Body) Scan(src any) error {
	var data []byte
	switch value := src.(type) {
	case nil:
		b.Node = document.NewDocument()
		return nil
	case []byte:
		data = value
	case string:
		data = []byte(value)
	default:
		return fmt.Errorf("entries: unsupported document column type %T", src)
	}
	node, err := document.Decode(data)
	if err != nil {
		return err
	}
	b.Node = node
	return nil
}

// MarshalJSON encodes the wrapped document.
func (b Body) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Node)
}

// UnmarshalJSON decodes the wrapped document.
func (b *Body) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.Node)
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	EntrySlug string
	FieldID   string
	Locale    string
	Limit     int
	Offset    int
}

func (f ListFilter) matches(field *Field) bool {
	if f.EntrySlug != "" && field.EntrySlug != f.EntrySlug {
		return false
	}
	if f.FieldID != "" && field.FieldID != f.FieldID {
		return false
	}
	if f.Locale != "" && field.Locale != f.Locale {
		return false
	}
	return true
}

// ChangeType enumerates field change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports a stored field mutation.
type ChangeEvent struct {
	Type  ChangeType
	Key   Key
	Field *Field
}
