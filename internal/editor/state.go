// Package editor implements the cursor and input state machine of the
// crossword editor as a pure reducer: Reduce takes a State and an Event
// and returns the next State plus the side effects the UI should apply.
package editor

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"crossgrid/internal/clue"
	"crossgrid/internal/grid"
)

// Mode selects what a cell click does.
type Mode int

const (
	// ModeInput places the cursor and accepts typed characters.
	ModeInput Mode = iota
	// ModeEditBlack toggles black squares.
	ModeEditBlack
)

func (m Mode) String() string {
	if m == ModeEditBlack {
		return "edit_black"
	}
	return "input"
}

// ParseMode accepts "input", "edit_black" and the short form "black".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "i":
		return ModeInput, nil
	case "edit_black", "black", "b":
		return ModeEditBlack, nil
	}
	return ModeInput, fmt.Errorf("unknown mode %q", s)
}

// State is the complete editor state. Grid is replaced, never modified in
// place, so a State value can be kept as a snapshot.
type State struct {
	Size      grid.Size
	Grid      grid.Grid
	Keys      mapset.Set[grid.WordKey]
	Entries   []grid.Entry
	Mode      Mode
	Direction grid.Direction
	// Cursor is nil when nothing is selected. When set it points at an
	// in-bounds, non-black cell.
	Cursor *grid.Pos
	Clues  clue.Map
	// Last is the cell most recently written by typing. A combining mark
	// typed on its own is appended to it.
	Last *grid.Pos
}

// New returns an empty session of the given size.
func New(size grid.Size) State {
	size = grid.ClampSize(size.Rows, size.Cols)
	s := State{Size: size, Clues: clue.Map{}}
	return s.withGrid(grid.New(size))
}

// Restore builds a state from a persisted document. A grid that does not
// fit size is replaced by an empty one.
func Restore(size grid.Size, g grid.Grid, clues clue.Map) State {
	if !size.Valid() || !g.Fits(size) {
		s := New(size)
		if clues != nil {
			s.Clues = clues
		}
		return s
	}
	if clues == nil {
		clues = clue.Map{}
	}
	s := State{Size: size, Clues: clues}
	return s.withGrid(g)
}

// withGrid installs g after renumbering it.
func (s State) withGrid(g grid.Grid) State {
	n := grid.Number(g, s.Size)
	s.Grid = n.Grid
	s.Keys = n.Keys
	s.Entries = n.Entries
	return s
}

// CellAt returns the cell at p.
func (s State) CellAt(p grid.Pos) grid.Cell {
	return s.Grid[p.R][p.C]
}

// ActiveWord returns the span under the cursor along the current direction.
func (s State) ActiveWord() (grid.Span, bool) {
	return grid.Locate(s.Grid, s.Size, s.Cursor, s.Direction)
}

// ActiveKey returns the clue key of the active word, if it has one.
func (s State) ActiveKey() (grid.WordKey, bool) {
	span, ok := s.ActiveWord()
	if !ok {
		return "", false
	}
	key, ok := span.Key(s.Grid)
	if !ok || !s.Keys.Has(key) {
		return "", false
	}
	return key, true
}

// ActiveClue returns the clue text of the active word.
func (s State) ActiveClue() string {
	key, ok := s.ActiveKey()
	if !ok {
		return ""
	}
	return s.Clues[key]
}

// ExportClues lists the clues of the active words in entry order.
func (s State) ExportClues() []clue.Clue {
	return clue.Export(s.Entries, s.Clues)
}

// Orphans lists clue keys whose word no longer exists.
func (s State) Orphans() []grid.WordKey {
	return clue.Orphans(s.Clues, s.Keys)
}

// Word returns the letters of the active word, with '_' for blanks.
func (s State) Word() string {
	span, ok := s.ActiveWord()
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, p := range span.Cells() {
		if ch := s.CellAt(p).Char; ch != "" {
			b.WriteString(ch)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
