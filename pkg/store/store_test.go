package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "patterns.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var backends = []struct {
	name string
	open func(t *testing.T) Store
}{
	{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
	{"sqlite", newSQLiteStore},
}

func scarf() *Document {
	return &Document{
		Owner:    "maker@example.com",
		Name:     "Ribbed Scarf",
		Yarn:     "worsted wool",
		HookSize: "5mm",
	}
}

func TestStoreCreateGet(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			created, err := s.Create(ctx, scarf())
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if created.ID == "" {
				t.Fatal("Create() returned empty ID")
			}
			if err := errors.ValidatePatternID(created.ID); err != nil {
				t.Errorf("Create() ID %q is not a valid pattern id: %v", created.ID, err)
			}
			if created.CurrentRow != 1 {
				t.Errorf("CurrentRow = %d, want 1", created.CurrentRow)
			}
			if created.CreatedAt.IsZero() {
				t.Error("CreatedAt not set")
			}

			got, err := s.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.Name != "Ribbed Scarf" || got.Yarn != "worsted wool" || got.HookSize != "5mm" {
				t.Errorf("Get() = %+v", got)
			}
		})
	}
}

func TestStoreCreateRejectsDuplicateName(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			if _, err := s.Create(ctx, scarf()); err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			_, err := s.Create(ctx, scarf())
			if !errors.Is(err, errors.ErrCodeAlreadyExists) {
				t.Errorf("second Create() error = %v, want ALREADY_EXISTS", err)
			}

			other := scarf()
			other.Owner = "someone-else"
			if _, err := s.Create(ctx, other); err != nil {
				t.Errorf("Create() for another owner error: %v", err)
			}
		})
	}
}

func TestStoreCreateValidates(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			doc := scarf()
			doc.Name = "  "
			_, err := b.open(t).Create(context.Background(), doc)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Create() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			_, err := b.open(t).Get(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ")
			if !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Get() error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			created, _ := s.Create(ctx, scarf())
			created.Description = "two by two rib"
			if err := created.SetRowStitches(3, 12); err != nil {
				t.Fatalf("SetRowStitches() error: %v", err)
			}

			updated, err := s.Update(ctx, created)
			if err != nil {
				t.Fatalf("Update() error: %v", err)
			}
			if !updated.CreatedAt.Equal(created.CreatedAt) {
				t.Errorf("Update() changed CreatedAt")
			}

			got, _ := s.Get(ctx, created.ID)
			if got.Description != "two by two rib" || got.CurrentRow != 3 {
				t.Errorf("Get() after Update = %+v", got)
			}
			if len(got.RowData) != 1 || got.RowData[0] != (RowProgress{RowNumber: 3, Stitches: 12}) {
				t.Errorf("RowData = %+v", got.RowData)
			}

			missing := scarf()
			missing.ID = "01HZZZZZZZZZZZZZZZZZZZZZZZ"
			missing.CurrentRow = 1
			if _, err := s.Update(ctx, missing); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("Update(missing) error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestStoreSaveVisualization(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)
			created, _ := s.Create(ctx, scarf())

			img := []byte{0x89, 'P', 'N', 'G'}
			if _, err := s.SaveVisualization(ctx, created.ID, "Row 1: 10 ch\n", img); err != nil {
				t.Fatalf("SaveVisualization() error: %v", err)
			}
			// Empty values keep what is stored.
			got, err := s.SaveVisualization(ctx, created.ID, "", nil)
			if err != nil {
				t.Fatalf("SaveVisualization() error: %v", err)
			}
			if got.Instructions != "Row 1: 10 ch\n" {
				t.Errorf("Instructions = %q", got.Instructions)
			}
			if !bytes.Equal(got.Visualization, img) {
				t.Errorf("Visualization = %v, want %v", got.Visualization, img)
			}

			if _, err := s.SaveVisualization(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", "x", nil); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("SaveVisualization(missing) error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestStoreListDelete(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			names := []string{"Granny Square", "Beanie", "Market Bag"}
			var ids []string
			for _, n := range names {
				doc := scarf()
				doc.Name = n
				created, err := s.Create(ctx, doc)
				if err != nil {
					t.Fatalf("Create(%q) error: %v", n, err)
				}
				ids = append(ids, created.ID)
			}

			list, err := s.List(ctx, "maker@example.com")
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(list) != 3 {
				t.Fatalf("len(List()) = %d, want 3", len(list))
			}

			empty, err := s.List(ctx, "nobody")
			if err != nil || len(empty) != 0 {
				t.Errorf("List(nobody) = %v, %v; want empty", empty, err)
			}

			if err := s.Delete(ctx, ids[1]); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if err := s.Delete(ctx, ids[1]); !errors.Is(err, errors.ErrCodeNotFound) {
				t.Errorf("second Delete() error = %v, want NOT_FOUND", err)
			}
			list, _ = s.List(ctx, "maker@example.com")
			if len(list) != 2 {
				t.Errorf("len(List()) after Delete = %d, want 2", len(list))
			}
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created, _ := s.Create(ctx, scarf())

	created.Name = "changed"
	created.AddRow()

	got, _ := s.Get(ctx, created.ID)
	if got.Name != "Ribbed Scarf" || len(got.RowData) != 0 {
		t.Errorf("stored document modified through returned copy: %+v", got)
	}
}

func TestObjectID(t *testing.T) {
	if _, err := objectID("not-an-object-id"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("objectID(invalid) error = %v, want NOT_FOUND", err)
	}
	oid, err := objectID("65a1b2c3d4e5f60718293a4b")
	if err != nil {
		t.Fatalf("objectID(valid) error: %v", err)
	}
	if oid.Hex() != "65a1b2c3d4e5f60718293a4b" {
		t.Errorf("objectID().Hex() = %q", oid.Hex())
	}
}
