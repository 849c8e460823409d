package entries

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-richtext/internal/identity"
)

// MemoryRepository keeps fields in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	fields map[string]*Field
	events *broadcaster
	now    func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		fields: make(map[string]*Field),
		events: newBroadcaster(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Get(_ context.Context, key Key) (*Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	field, ok := r.fields[key.String()]
	if !ok {
		return nil, ErrFieldNotFound
	}
	return field.clone(), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, field := range r.fields {
		if field.ID == id {
			return field.clone(), nil
		}
	}
	return nil, ErrFieldNotFound
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]*Field, error) {
	r.mu.RLock()
	out := make([]*Field, 0, len(r.fields))
	for _, field := range r.fields {
		if filter.matches(field) {
			out = append(out, field.clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []*Field{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, key Key, field *Field) (*Field, bool, error) {
	if key.EntrySlug == "" || key.FieldID == "" {
		return nil, false, ErrInvalidKey
	}
	stored := field.clone()
	if stored == nil {
		stored = &Field{}
	}
	stored.applyKey(key)
	now := r.now()

	r.mu.Lock()
	existing, found := r.fields[key.String()]
	if found {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		if stored.ID == uuid.Nil {
			stored.ID = identity.FieldUUID(key.String())
		}
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.fields[key.String()] = stored
	r.mu.Unlock()

	changeType := ChangeUpdated
	if !found {
		changeType = ChangeCreated
	}
	r.events.publish(changeType, key, stored)
	return stored.clone(), !found, nil
}

func (r *MemoryRepository) Delete(_ context.Context, key Key) error {
	r.mu.Lock()
	field, ok := r.fields[key.String()]
	if ok {
		delete(r.fields, key.String())
	}
	r.mu.Unlock()

	if !ok {
		return ErrFieldNotFound
	}
	r.events.publish(ChangeDeleted, key, field)
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx)
}
