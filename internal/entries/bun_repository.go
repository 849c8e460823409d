package entries

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-richtext/internal/identity"
	"github.com/uptrace/bun"
)

// NewFieldRepository creates the go-repository-bun repository for fields,
// using the composed key column as identifier.
func NewFieldRepository(db *bun.DB) repository.Repository[*Field] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Field]{
		NewRecord: func() *Field { return &Field{} },
		GetID: func(field *Field) uuid.UUID {
			return field.ID
		},
		SetID: func(field *Field, id uuid.UUID) {
			field.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(field *Field) string {
			return field.Key
		},
	})
}

// BunRepository persists fields through go-repository-bun.
type BunRepository struct {
	repo   repository.Repository[*Field]
	events *broadcaster
	now    func() time.Time
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository wraps db. The richtext_fields table must exist; see
// CreateSchema.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		repo:   NewFieldRepository(db),
		events: newBroadcaster(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateSchema creates the fields table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Field)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("entries: create schema: %w", err)
	}
	return nil
}

func (r *BunRepository) Get(ctx context.Context, key Key) (*Field, error) {
	record, err := r.repo.GetByIdentifier(ctx, key.String())
	if err != nil {
		return nil, mapRepositoryError(err, key.String())
	}
	return record, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Field, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, filter ListFilter) ([]*Field, error) {
	filtered := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if filter.EntrySlug != "" {
			q = q.Where("?TableAlias.entry_slug = ?", filter.EntrySlug)
		}
		if filter.FieldID != "" {
			q = q.Where("?TableAlias.field_id = ?", filter.FieldID)
		}
		if filter.Locale != "" {
			q = q.Where("?TableAlias.locale = ?", filter.Locale)
		}
		return q.Order("key ASC")
	})

	var (
		records []*Field
		err     error
	)
	if filter.Limit > 0 {
		records, _, err = r.repo.List(ctx, filtered, repository.SelectPaginate(filter.Limit, filter.Offset))
	} else {
		records, _, err = r.repo.List(ctx, filtered)
	}
	if err != nil {
		return nil, fmt.Errorf("entries: list fields: %w", err)
	}
	return records, nil
}

func (r *BunRepository) Upsert(ctx context.Context, key Key, field *Field) (*Field, bool, error) {
	if key.EntrySlug == "" || key.FieldID == "" {
		return nil, false, ErrInvalidKey
	}
	record := field.clone()
	if record == nil {
		record = &Field{}
	}
	record.applyKey(key)
	now := r.now()
	record.UpdatedAt = now

	existing, err := r.Get(ctx, key)
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		updated, updateErr := r.repo.Update(ctx, record,
			repository.UpdateByID(record.ID.String()),
			repository.UpdateColumns("document", "checksum", "source_path", "updated_at"),
		)
		if updateErr != nil {
			return nil, false, fmt.Errorf("entries: update %s: %w", key, updateErr)
		}
		r.events.publish(ChangeUpdated, key, updated)
		return updated, false, nil
	case errors.Is(err, ErrFieldNotFound):
		if record.ID == uuid.Nil {
			record.ID = identity.FieldUUID(key.String())
		}
		record.CreatedAt = now
		created, createErr := r.repo.Create(ctx, record)
		if createErr != nil {
			return nil, false, fmt.Errorf("entries: create %s: %w", key, createErr)
		}
		r.events.publish(ChangeCreated, key, created)
		return created, true, nil
	default:
		return nil, false, err
	}
}

func (r *BunRepository) Delete(ctx context.Context, key Key) error {
	existing, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, existing); err != nil {
		return fmt.Errorf("entries: delete %s: %w", key, err)
	}
	r.events.publish(ChangeDeleted, key, existing)
	return nil
}

func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	return fmt.Errorf("entries: repository error: %w", err)
}
