package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"crossgrid/internal/grid"
)

func TestCSVRoundTrip(t *testing.T) {
	size := grid.Size{Rows: 3, Cols: 4}
	g := grid.New(size)
	g[0][0].Char = "Q"
	g[0][1].Char = ","
	g[1][2].IsBlack = true
	g[2][3].Char = "é"

	path := filepath.Join(t.TempDir(), "grid.csv")
	if err := SaveCSV(g, path); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}
	gotSize, got, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if gotSize != size {
		t.Errorf("size = %v, want %v", gotSize, size)
	}
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("grid mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadCSV_RaggedAndInvalid(t *testing.T) {
	dir := t.TempDir()

	ragged := filepath.Join(dir, "ragged.csv")
	os.WriteFile(ragged, []byte("A,B,C\n#\nD,,E\n"), 0o644)
	size, g, err := LoadCSV(ragged)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if size != (grid.Size{Rows: 3, Cols: 3}) || !g[1][0].IsBlack || g[1][2].Char != "" {
		t.Errorf("ragged load = %v %+v", size, g)
	}

	tiny := filepath.Join(dir, "tiny.csv")
	os.WriteFile(tiny, []byte("A,B\n"), 0o644)
	if _, _, err := LoadCSV(tiny); !errors.Is(err, ErrInvalidProject) {
		t.Errorf("expected ErrInvalidProject for a 1x2 grid, got %v", err)
	}
}

func TestProjectStore_Watch(t *testing.T) {
	store := setupProjectStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 1)
	err := store.Watch(ctx, func() {
		calls.Add(1)
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := store.Save(ctx, NewProject("watched", sampleData())); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification after save")
	}
	if calls.Load() == 0 {
		t.Error("callback not counted")
	}
}
