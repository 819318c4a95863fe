package editor

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"crossgrid/internal/grid"
)

// Reduce applies ev to s. It never fails: an event that does not apply to
// the current state leaves it unchanged.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Click:
		return s.click(ev.Pos)
	case ToggleBlack:
		return s.toggleBlack(ev.Pos)
	case Select:
		if !s.Grid.IsOpen(s.Size, ev.Pos) {
			return s, Effect{}
		}
		if ev.Direction != nil {
			s.Direction = *ev.Direction
		}
		return s.moveTo(ev.Pos)
	case ClickOutside:
		s.Cursor, s.Last = nil, nil
		return s, Effect{}
	case Input:
		return s.fill(ev.Text)
	case Compose:
		return s.fill(ev.Text)
	case Key:
		return s.key(ev.Code)
	case Resize:
		return s.resize(ev.Rows, ev.Cols)
	case Clear:
		next := New(grid.DefaultSize())
		next.Mode = s.Mode
		next.Direction = s.Direction
		return next, Effect{Changed: true}
	case SetMode:
		s.Mode = ev.Mode
		return s, Effect{}
	case ToggleMode:
		if s.Mode == ModeInput {
			s.Mode = ModeEditBlack
		} else {
			s.Mode = ModeInput
		}
		return s, Effect{}
	case SetClue:
		if s.Clues[ev.Key] == ev.Text {
			return s, Effect{}
		}
		s.Clues = s.Clues.With(ev.Key, ev.Text)
		return s, Effect{Changed: true}
	case Replace:
		if !ev.Size.Valid() || !ev.Grid.Fits(ev.Size) {
			return s, Effect{}
		}
		next := Restore(ev.Size, ev.Grid, ev.Clues.Clone())
		next.Mode = s.Mode
		next.Direction = s.Direction
		return next, Effect{Changed: true}
	}
	return s, Effect{}
}

func (s State) click(p grid.Pos) (State, Effect) {
	if !s.Size.InBounds(p) {
		return s, Effect{}
	}
	if s.Mode == ModeEditBlack {
		return s.toggleBlack(p)
	}
	if s.CellAt(p).IsBlack {
		return s, Effect{}
	}
	if s.Cursor != nil && *s.Cursor == p {
		s.Direction = s.Direction.Toggle()
		return s, Effect{Focus: &p}
	}
	return s.moveTo(p)
}

func (s State) toggleBlack(p grid.Pos) (State, Effect) {
	if !s.Size.InBounds(p) {
		return s, Effect{}
	}
	g := s.Grid.Clone()
	cell := &g[p.R][p.C]
	cell.IsBlack = !cell.IsBlack
	if cell.IsBlack {
		cell.Char = ""
		// The cursor may not rest on a black square.
		if s.Cursor != nil && *s.Cursor == p {
			s.Cursor = nil
		}
	}
	return s.withGrid(g), Effect{Changed: true}
}

func (s State) moveTo(p grid.Pos) (State, Effect) {
	s.Cursor, s.Last = &p, nil
	return s, Effect{Focus: &p}
}

// fill writes one grapheme per cell from the cursor along the current
// direction, stopping at the first black square or the grid edge. Extra
// graphemes are dropped. A combining mark with no base of its own joins the
// previously written cell.
func (s State) fill(text string) (State, Effect) {
	if s.Mode != ModeInput || s.Cursor == nil || !s.Grid.IsOpen(s.Size, *s.Cursor) {
		return s, Effect{}
	}
	g := s.Grid.Clone()
	cur := *s.Cursor
	prev := s.Last
	var last *grid.Pos
	changed := false

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		ch := gr.Str()
		if combining(ch) {
			if prev != nil && g.IsOpen(s.Size, *prev) && g[prev.R][prev.C].Char != "" {
				g[prev.R][prev.C].Char += ch
				changed = true
			}
			continue
		}
		if !printable(ch) {
			continue
		}
		if !g.IsOpen(s.Size, cur) {
			break
		}
		g[cur.R][cur.C].Char = ch
		p := cur
		last, prev = &p, &p
		changed = true
		cur = cur.Step(s.Direction, true)
	}
	if !changed {
		return s, Effect{}
	}
	s.Grid = g
	if last == nil {
		focus := *s.Cursor
		return s, Effect{Focus: &focus, Changed: true}
	}

	next := last.Step(s.Direction, true)
	if !g.IsOpen(s.Size, next) {
		next = *last
	}
	s.Cursor, s.Last = &next, last
	return s, Effect{Focus: &next, Changed: true}
}

// combining reports whether ch starts with a nonspacing or enclosing mark.
func combining(ch string) bool {
	for _, r := range ch {
		return unicode.In(r, unicode.Mn, unicode.Me)
	}
	return false
}

func printable(ch string) bool {
	if strings.TrimSpace(ch) == "" {
		return false
	}
	for _, r := range ch {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (s State) key(code KeyCode) (State, Effect) {
	if s.Mode != ModeInput {
		return s, Effect{}
	}
	if code == KeySpace {
		s.Direction = s.Direction.Toggle()
		return s, Effect{}
	}
	if s.Cursor == nil {
		switch code {
		case KeyUp, KeyDown, KeyLeft, KeyRight:
			if p, ok := s.firstOpen(); ok {
				return s.moveTo(p)
			}
		}
		return s, Effect{}
	}

	switch code {
	case KeyBackspace:
		cur := *s.Cursor
		if s.CellAt(cur).Char == "" {
			return s.move(s.Direction, false)
		}
		g := s.Grid.Clone()
		g[cur.R][cur.C].Char = ""
		s.Grid = g
		return s, Effect{Focus: &cur, Changed: true}
	case KeyUp:
		return s.move(grid.Down, false)
	case KeyDown:
		return s.move(grid.Down, true)
	case KeyLeft:
		return s.move(grid.Across, false)
	case KeyRight:
		return s.move(grid.Across, true)
	}
	return s, Effect{}
}

// move steps the cursor along d, skipping black squares. It does not wrap:
// if the edge comes first the cursor stays put.
func (s State) move(d grid.Direction, forward bool) (State, Effect) {
	for p := s.Cursor.Step(d, forward); s.Size.InBounds(p); p = p.Step(d, forward) {
		if !s.CellAt(p).IsBlack {
			return s.moveTo(p)
		}
	}
	return s, Effect{}
}

func (s State) firstOpen() (grid.Pos, bool) {
	for r := 0; r < s.Size.Rows; r++ {
		for c := 0; c < s.Size.Cols; c++ {
			if !s.Grid[r][c].IsBlack {
				return grid.Pos{R: r, C: c}, true
			}
		}
	}
	return grid.Pos{}, false
}

func (s State) resize(rows, cols int) (State, Effect) {
	to := grid.ClampSize(rows, cols)
	g := grid.Resize(s.Grid, s.Size, to)
	s.Size = to
	s.Cursor, s.Last = nil, nil
	return s.withGrid(g), Effect{Changed: true}
}
