package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// FieldUUID identifies a stored rich-text field by its entry/field/locale key.
func FieldUUID(fieldKey string) uuid.UUID {
	return UUID("richtext:field:" + strings.TrimSpace(fieldKey))
}

// AssetID derives the link id of an asset from its source URL.
func AssetID(source string) string {
	return compact(UUID("richtext:asset:" + strings.TrimSpace(source)))
}

// EntryID derives the link id of an entry from a stable reference such as its slug.
func EntryID(ref string) string {
	return compact(UUID("richtext:entry:" + strings.ToLower(strings.TrimSpace(ref))))
}

// compact renders id without dashes, matching the opaque ids CMS links carry.
func compact(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return strings.ReplaceAll(id.String(), "-", "")
}
