package grid

// Span is the inclusive run of cells making up a word. Fixed is the row
// for an across span and the column for a down span.
type Span struct {
	Axis  Direction
	Fixed int
	Start int
	End   int
}

// Locate returns the maximal run of non-black cells through cursor along d.
// It reports false when there is no cursor or the cursor cell is black.
func Locate(g Grid, size Size, cursor *Pos, d Direction) (Span, bool) {
	if cursor == nil || !g.IsOpen(size, *cursor) {
		return Span{}, false
	}
	start, end := *cursor, *cursor
	for prev := start.Step(d, false); g.IsOpen(size, prev); prev = prev.Step(d, false) {
		start = prev
	}
	for next := end.Step(d, true); g.IsOpen(size, next); next = next.Step(d, true) {
		end = next
	}
	if d == Across {
		return Span{Axis: Across, Fixed: cursor.R, Start: start.C, End: end.C}, true
	}
	return Span{Axis: Down, Fixed: cursor.C, Start: start.R, End: end.R}, true
}

// StartPos is the first cell of the span.
func (s Span) StartPos() Pos {
	return s.at(s.Start)
}

// Len is the number of cells in the span.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Cells lists the span's positions from start to end.
func (s Span) Cells() []Pos {
	out := make([]Pos, 0, s.Len())
	for i := s.Start; i <= s.End; i++ {
		out = append(out, s.at(i))
	}
	return out
}

// Contains reports whether p lies on the span.
func (s Span) Contains(p Pos) bool {
	if s.Axis == Across {
		return p.R == s.Fixed && p.C >= s.Start && p.C <= s.End
	}
	return p.C == s.Fixed && p.R >= s.Start && p.R <= s.End
}

// Key returns the clue key of the span, read from the number on its start
// cell in g. It reports false for single cells and unnumbered starts.
func (s Span) Key(g Grid) (WordKey, bool) {
	if s.Len() < 2 {
		return "", false
	}
	p := s.StartPos()
	if p.R < 0 || p.R >= len(g) || p.C < 0 || p.C >= len(g[p.R]) {
		return "", false
	}
	n := g[p.R][p.C].Number
	if n == 0 {
		return "", false
	}
	return KeyFor(n, s.Axis), true
}

func (s Span) at(i int) Pos {
	if s.Axis == Across {
		return Pos{R: s.Fixed, C: i}
	}
	return Pos{R: i, C: s.Fixed}
}
