package entries

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists rich-text fields and emits change notifications.
type Repository interface {
	Get(ctx context.Context, key Key) (*Field, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Field, error)
	List(ctx context.Context, filter ListFilter) ([]*Field, error)
	// Upsert stores field under key, reporting whether it created a record.
	Upsert(ctx context.Context, key Key, field *Field) (*Field, bool, error)
	Delete(ctx context.Context, key Key) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}
