package entries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-richtext/internal/document"
	"github.com/goliatone/go-richtext/internal/identity"
	"github.com/goliatone/go-richtext/pkg/testsupport"
)

func newTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	db, err := testsupport.NewSQLiteMemoryDB(name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"bun":    NewBunRepository(newTestDB(t, "entries_"+t.Name())),
	}
}

func assertEvent(t *testing.T, events <-chan ChangeEvent, want ChangeType) ChangeEvent {
	t.Helper()
	select {
	case evt := <-events:
		if evt.Type != want {
			t.Fatalf("expected %s event, got %s", want, evt.Type)
		}
		return evt
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s event", want)
	}
	return ChangeEvent{}
}

func TestRepositoriesCRUDAndEvents(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			key, err := NewKey("Getting Started", "body", "")
			if err != nil {
				t.Fatalf("NewKey: %v", err)
			}
			if _, err := repo.Get(ctx, key); !errors.Is(err, ErrFieldNotFound) {
				t.Fatalf("expected ErrFieldNotFound, got %v", err)
			}

			events, err := repo.Subscribe(ctx)
			if err != nil {
				t.Fatalf("Subscribe: %v", err)
			}

			doc := document.NewDocument(document.Paragraph(document.Text("hello", document.MarkBold)))
			created, isNew, err := repo.Upsert(ctx, key, &Field{Document: Body{Node: doc}, Checksum: "a"})
			if err != nil || !isNew {
				t.Fatalf("create: new=%v err=%v", isNew, err)
			}
			evt := assertEvent(t, events, ChangeCreated)
			if evt.Key != key {
				t.Fatalf("unexpected event key %v", evt.Key)
			}

			updated, isNew, err := repo.Upsert(ctx, key, &Field{Document: Body{Node: doc}, Checksum: "b"})
			if err != nil || isNew {
				t.Fatalf("update: new=%v err=%v", isNew, err)
			}
			assertEvent(t, events, ChangeUpdated)
			if updated.ID != created.ID {
				t.Fatalf("update must keep the record id")
			}
			if created.ID != identity.FieldUUID(key.String()) {
				t.Fatalf("expected a deterministic field id, got %s", created.ID)
			}

			fetched, err := repo.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if fetched.Checksum != "b" || fetched.EntrySlug != "getting-started" || fetched.Locale != DefaultLocale {
				t.Fatalf("unexpected field %+v", fetched)
			}
			if got := fetched.Document.PlainText(); got != "hello" {
				t.Fatalf("unexpected document text %q", got)
			}
			if !fetched.Document.Content[0].Content[0].HasMark(document.MarkBold) {
				t.Fatalf("expected marks to survive storage")
			}

			byID, err := repo.GetByID(ctx, created.ID)
			if err != nil || byID.Key != key.String() {
				t.Fatalf("GetByID: %v %+v", err, byID)
			}

			if err := repo.Delete(ctx, key); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			assertEvent(t, events, ChangeDeleted)
			if err := repo.Delete(ctx, key); !errors.Is(err, ErrFieldNotFound) {
				t.Fatalf("expected ErrFieldNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestRepositoriesListFilters(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed := []Key{
				{EntrySlug: "alpha", FieldID: "body", Locale: "en-US"},
				{EntrySlug: "alpha", FieldID: "body", Locale: "es-ES"},
				{EntrySlug: "alpha", FieldID: "intro", Locale: "en-US"},
				{EntrySlug: "beta", FieldID: "body", Locale: "en-US"},
			}
			for _, key := range seed {
				if _, _, err := repo.Upsert(ctx, key, &Field{Document: Body{Node: document.NewDocument()}}); err != nil {
					t.Fatalf("seed %s: %v", key, err)
				}
			}

			all, err := repo.List(ctx, ListFilter{})
			if err != nil || len(all) != 4 {
				t.Fatalf("expected 4 fields, got %d (%v)", len(all), err)
			}
			if all[0].Key != "alpha/body/en-US" {
				t.Fatalf("expected key ordering, got %s", all[0].Key)
			}

			alphaBody, err := repo.List(ctx, ListFilter{EntrySlug: "alpha", FieldID: "body"})
			if err != nil || len(alphaBody) != 2 {
				t.Fatalf("expected 2 alpha body fields, got %d (%v)", len(alphaBody), err)
			}

			page, err := repo.List(ctx, ListFilter{Limit: 2, Offset: 1})
			if err != nil || len(page) != 2 || page[0].Key != "alpha/body/es-ES" {
				t.Fatalf("unexpected page %v (%v)", page, err)
			}
		})
	}
}

func TestUpsertRejectsEmptyKey(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			if _, _, err := repo.Upsert(context.Background(), Key{}, &Field{}); !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestNewKey(t *testing.T) {
	if _, err := NewKey(" ", "body", ""); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	key, err := NewKey("Release Notes", "body", "fr-FR")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if key.String() != "release-notes/body/fr-FR" {
		t.Fatalf("unexpected key %s", key)
	}
}

func TestBodyScan(t *testing.T) {
	var body Body
	if err := body.Scan(`{"nodeType":"document","data":{},"content":[]}`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if body.Kind != document.KindDocument {
		t.Fatalf("unexpected kind %v", body.Kind)
	}
	if err := body.Scan(42); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	value, err := Body{Node: document.NewDocument()}.Value()
	if err != nil || value.(string) != `{"content":[],"data":{},"nodeType":"document"}` {
		t.Fatalf("unexpected value %v (%v)", value, err)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	repo, closeFn, err := Open(context.Background(), "", "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	defer closeFn()
	if _, ok := repo.(*MemoryRepository); !ok {
		t.Fatalf("expected memory repository, got %T", repo)
	}

	sqliteRepo, closeSQLite, err := Open(context.Background(), DriverSQLite, "file:entries_open?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer closeSQLite()
	if _, ok := sqliteRepo.(*BunRepository); !ok {
		t.Fatalf("expected bun repository, got %T", sqliteRepo)
	}

	if _, _, err := Open(context.Background(), "mongo", "x"); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, _, err := Open(context.Background(), DriverSQLite, ""); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}
