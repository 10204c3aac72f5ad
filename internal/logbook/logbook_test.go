package logbook

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "logbook.db"), "Tester", "localhost:8000")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndTail(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first line", "second line", "third line"} {
		if err := store.Append(ctx, "main", text); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := store.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("tail = %d entries, want 2", len(entries))
	}
	if entries[0].Text != "second line" || entries[1].Text != "third line" {
		t.Errorf("tail = [%q, %q], want oldest first", entries[0].Text, entries[1].Text)
	}
	if entries[0].Destination != "main" {
		t.Errorf("destination = %q", entries[0].Destination)
	}
}

func TestSearchFindsAcrossDestinations(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	lines := []struct{ dest, text string }{
		{"main", "You swing a broadsword at the orc"},
		{"thoughts", "someone thinks about dinner"},
		{"main", "The orc falls to the ground"},
	}
	for _, l := range lines {
		if err := store.Append(ctx, l.dest, l.text); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := store.Search(ctx, "orc", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("search = %d entries, want 2: %#v", len(entries), entries)
	}
	if entries[0].Text != "The orc falls to the ground" {
		t.Errorf("newest match first, got %q", entries[0].Text)
	}
}

func TestSearchNoMatches(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "main", "quiet day in town"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err := store.Search(ctx, "dragon", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("search = %#v, want none", entries)
	}
}
