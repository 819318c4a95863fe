package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocate(t *testing.T) {
	g, size := parse(
		"..#..",
		".....",
		"#....",
		"...#.",
		".....",
	)
	g = Number(g, size).Grid

	tests := []struct {
		name   string
		cursor *Pos
		dir    Direction
		want   Span
		ok     bool
	}{
		{"nil cursor", nil, Across, Span{}, false},
		{"black cursor", &Pos{0, 2}, Across, Span{}, false},
		{"out of bounds", &Pos{5, 0}, Down, Span{}, false},
		{"across left of block", &Pos{0, 1}, Across, Span{Across, 0, 0, 1}, true},
		{"across right of block", &Pos{0, 4}, Across, Span{Across, 0, 3, 4}, true},
		{"across full row", &Pos{1, 2}, Across, Span{Across, 1, 0, 4}, true},
		{"down from top", &Pos{3, 1}, Down, Span{Down, 1, 0, 4}, true},
		{"down below block", &Pos{4, 0}, Down, Span{Down, 0, 3, 4}, true},
		{"down stops at block", &Pos{1, 3}, Down, Span{Down, 3, 0, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(g, size, tt.cursor, tt.dir)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("span = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpan_KeyAndCells(t *testing.T) {
	g, size := parse(
		"..#",
		"...",
		"#..",
	)
	g = Number(g, size).Grid

	span, ok := Locate(g, size, &Pos{1, 2}, Down)
	if !ok {
		t.Fatal("expected a span")
	}
	key, ok := span.Key(g)
	if !ok || key != "4-down" {
		t.Errorf("Key = %q, %v; want 4-down", key, ok)
	}
	if diff := cmp.Diff([]Pos{{1, 2}, {2, 2}}, span.Cells()); diff != "" {
		t.Errorf("cells mismatch:\n%s", diff)
	}
	if !span.Contains(Pos{2, 2}) || span.Contains(Pos{0, 2}) {
		t.Error("Contains disagrees with Cells")
	}
}

func TestSpan_SingleCellHasNoKey(t *testing.T) {
	g, size := parse(
		"...",
		"#.#",
		"...",
	)
	g = Number(g, size).Grid
	span, ok := Locate(g, size, &Pos{1, 1}, Across)
	if !ok || span.Len() != 1 {
		t.Fatalf("span = %+v, %v", span, ok)
	}
	if _, ok := span.Key(g); ok {
		t.Error("single cell run should not have a clue key")
	}
}
