package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/storage"
)

func TestSavePendingDeduplicates(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewStore(db)
	first, err := store.SavePending("Leche Gloria Entera 400gr", "Leche Gloria Entera 400g", 3.10, 3.50, 80)
	if err != nil {
		t.Fatal(err)
	}

	// Cache hit: same row back, no second insert.
	again, err := store.SavePending("Leche Gloria Entera 400gr", "Leche Gloria Entera 400g", 3.10, 3.50, 80)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID {
		t.Fatalf("cache miss: %d != %d", again.ID, first.ID)
	}

	// A fresh store has an empty cache; the persisted row must still win.
	fresh := NewStore(db)
	survived, err := fresh.SavePending("Leche Gloria Entera 400gr", "Leche Gloria Entera 400g", 3.10, 3.50, 80)
	if err != nil {
		t.Fatal(err)
	}
	if survived.ID != first.ID {
		t.Fatalf("duplicate inserted across cache reset: %d != %d", survived.ID, first.ID)
	}

	rows, err := store.PendingRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("pending rows: %+v", rows)
	}
}

func TestPromoteAndAnnul(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewStore(db)
	pending, err := store.SavePending("Leche Gloria Entera 400gr", "Leche Gloria Entera 400g", 3.10, 3.50, 80)
	if err != nil {
		t.Fatal(err)
	}

	confirmed, err := store.Promote(pending.ID)
	if err != nil {
		t.Fatal(err)
	}
	if confirmed.ProductA != pending.ProductA || confirmed.Similarity != pending.Similarity {
		t.Fatalf("promoted row differs: %+v", confirmed)
	}

	if rows, _ := store.PendingRows(); len(rows) != 0 {
		t.Fatalf("pending row survived promotion: %+v", rows)
	}
	if store.LookupConfirmed("Leche Gloria Entera 400g") == nil {
		t.Fatal("promoted row not visible in confirmed cache")
	}

	back, err := store.Annul(confirmed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if back.ProductA != confirmed.ProductA || back.Status != "pending" {
		t.Fatalf("annulled row: %+v", back)
	}
	if rows, _ := store.ConfirmedRows(); len(rows) != 0 {
		t.Fatalf("confirmed row survived annulment: %+v", rows)
	}
	if store.LookupConfirmed("Leche Gloria Entera 400g") != nil {
		t.Fatal("confirmed cache still holds annulled row")
	}
}

func TestClearPending(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewStore(db)
	if _, err := store.SavePending("A", "B", 1, 2, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SavePending("C", "D", 3, 4, 20); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearPending(); err != nil {
		t.Fatal(err)
	}
	if rows, _ := store.PendingRows(); len(rows) != 0 {
		t.Fatalf("rows after clear: %+v", rows)
	}

	// The cleared cache must not resurrect stale rows.
	fresh, err := store.SavePending("A", "B", 1, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.ID == 0 {
		t.Fatalf("expected a new insert, got %+v", fresh)
	}
}
