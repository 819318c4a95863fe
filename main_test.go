package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"crossgrid/internal/clue"
	"crossgrid/internal/grid"
	"crossgrid/internal/storage"
)

func seedStore(t *testing.T) *storage.ProjectStore {
	t.Helper()
	store := storage.NewProjectStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	size := grid.Size{Rows: 3, Cols: 3}
	g := grid.New(size)
	g[0][0].Char, g[0][1].Char, g[0][2].Char = "C", "A", "T"
	g[2][2].IsBlack = true
	n := grid.Number(g, size)
	data := storage.NewData(size, n.Grid, clue.Export(n.Entries, clue.Map{"1-across": "Pet"}))
	if err := store.Save(context.Background(), storage.NewProject("Kitten", data)); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestRunList(t *testing.T) {
	var out bytes.Buffer
	if err := runList(context.Background(), &out, seedStore(t)); err != nil {
		t.Fatalf("runList failed: %v", err)
	}
	if !strings.Contains(out.String(), "Kitten") || !strings.Contains(out.String(), "3x3") {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}

func TestRunShow(t *testing.T) {
	var out bytes.Buffer
	if err := runShow(context.Background(), &out, seedStore(t), "kitten"); err != nil {
		t.Fatalf("runShow failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"  C  A  T", "  .  . ##", "1. Pet", "Down"} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
}

func TestRunShowMissing(t *testing.T) {
	var out bytes.Buffer
	if err := runShow(context.Background(), &out, seedStore(t), "nothing"); err == nil {
		t.Error("expected an error for an unknown project")
	}
}
