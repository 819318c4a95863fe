package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"crossgrid/internal/clue"
	"crossgrid/internal/grid"
)

func openTestSession(t *testing.T) *SessionStore {
	t.Helper()
	s, err := OpenSession(context.Background(), filepath.Join(t.TempDir(), "state", "session.db"), discardLogger())
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionStore_KV(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get on empty store = %v, %v", ok, err)
	}
	if err := s.Set(ctx, "k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", "two"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("key still present after Delete")
	}
}

func TestSessionStore_SnapshotRoundTrip(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()

	size := grid.Size{Rows: 4, Cols: 6}
	g := grid.New(size)
	g[0][0].Char = "Z"
	g[2][3].IsBlack = true
	snap := Snapshot{
		Size:  size,
		Grid:  grid.Number(g, size).Grid,
		Clues: clue.Map{"1-across": "Buzz", "40-down": "orphan"},
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := s.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("Restore = %v, %v", ok, err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("snapshot mismatch (-saved +restored):\n%s", diff)
	}
}

func TestSessionStore_RestoreEmptyOrDamaged(t *testing.T) {
	s := openTestSession(t)
	ctx := context.Background()

	if _, ok, err := s.Restore(ctx); ok || err != nil {
		t.Fatalf("Restore on empty store = %v, %v", ok, err)
	}

	s.Set(ctx, KeySize, `{"rows":5,"cols":5}`)
	s.Set(ctx, KeyGrid, `[[]]`)
	s.Set(ctx, KeyClues, `{}`)
	if _, ok, err := s.Restore(ctx); ok || err != nil {
		t.Errorf("grid that does not fit its size should be ignored: %v, %v", ok, err)
	}

	s.Set(ctx, KeyGrid, `not json`)
	if _, ok, err := s.Restore(ctx); ok || err != nil {
		t.Errorf("damaged value should be ignored: %v, %v", ok, err)
	}
}

func TestSessionStore_Memory(t *testing.T) {
	s, err := OpenSession(context.Background(), ":memory:", discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Set(context.Background(), "a", "b"); err != nil {
		t.Fatal(err)
	}
}
