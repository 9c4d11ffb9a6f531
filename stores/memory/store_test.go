package memory

import (
	"context"
	"errors"
	"testing"

	"love-booth/core"
)

func testSession(id string) *core.Session {
	layout := core.Layout{ID: "strip-3", PhotoCount: 3, Kind: core.VerticalStrip}
	return core.NewSession(id, layout)
}

func TestCreateAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Create(ctx, testSession("s1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "s1" || got.Layout.ID != "strip-3" {
		t.Fatalf("got session %q layout %q", got.ID, got.Layout.ID)
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Create(ctx, testSession("s1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Create(ctx, testSession("s1")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("duplicate create err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRejectsEmptyID(t *testing.T) {
	store := NewStore()
	if err := store.Create(context.Background(), testSession("")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("empty ID err = %v, want ErrInvalidInput", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := NewStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDiscardsSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Create(ctx, testSession("s1")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted session still retrievable: %v", err)
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
