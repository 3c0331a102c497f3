package memory

import (
	"testing"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
)

func record(id int, name string) player.Player {
	return player.Player{ID: id, Name: name, AgeThatYear: "25", Hits: 100, Year: 1990, Bats: "R", Rank: "1"}
}

func TestPlayerRepository_ListPreservesInsertionOrder(t *testing.T) {
	repo := NewPlayerRepository()

	for _, id := range []int{3, 1, 2} {
		if err := repo.Insert(t.Context(), record(id, "p")); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	records, err := repo.List(t.Context(), 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != 3 || records[1].ID != 1 || records[2].ID != 2 {
		t.Fatalf("unexpected order: %+v", records)
	}

	capped, err := repo.List(t.Context(), 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected limit to cap at 2, got %d", len(capped))
	}
}

func TestPlayerRepository_ReplaceCounts(t *testing.T) {
	repo := NewPlayerRepository()

	modified, err := repo.Replace(t.Context(), 1, record(1, "p"))
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if modified != 0 {
		t.Fatalf("expected no modification for a missing record, got %d", modified)
	}

	if err := repo.Insert(t.Context(), record(1, "p")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	modified, err = repo.Replace(t.Context(), 1, record(99, "q"))
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if modified != 1 {
		t.Fatalf("expected one modification, got %d", modified)
	}

	stored, ok, err := repo.GetByID(t.Context(), 1)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if stored.ID != 1 || stored.Name != "q" {
		t.Fatalf("replace must keep the keyed id, got %+v", stored)
	}
}

func TestPlayerRepository_DeleteCounts(t *testing.T) {
	repo := NewPlayerRepository()

	deleted, err := repo.Delete(t.Context(), 1)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected no deletion for a missing record, got %d", deleted)
	}

	if err := repo.Insert(t.Context(), record(1, "p")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	deleted, err = repo.Delete(t.Context(), 1)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one deletion, got %d", deleted)
	}

	count, err := repo.Count(t.Context())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store, got %d", count)
	}
}

func TestPlayerRepository_InsertMany(t *testing.T) {
	repo := NewPlayerRepository()

	inserted, err := repo.InsertMany(t.Context(), []player.Player{
		record(1, "a"),
		record(2, "b"),
	})
	if err != nil {
		t.Fatalf("insert many failed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserts, got %d", inserted)
	}

	count, err := repo.Count(t.Context())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}
}
