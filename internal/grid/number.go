package grid

import "github.com/zyedidia/generic/mapset"

// Entry is one numbered word of the grid.
type Entry struct {
	Number    int
	Direction Direction
	Start     Pos
	Length    int
}

// Key returns the entry's WordKey.
func (e Entry) Key() WordKey {
	return KeyFor(e.Number, e.Direction)
}

// Numbering is the result of running Number over a grid.
type Numbering struct {
	Grid Grid
	// Keys holds every active WordKey.
	Keys mapset.Set[WordKey]
	// Entries lists the same words in scan order, across before down for
	// a shared number.
	Entries []Entry
}

// Number assigns crossword numbers. A non-black cell is numbered iff it
// starts a word of length >= 2 across or down; one counter is shared by
// both directions and advances in row-major order. g is not modified.
func Number(g Grid, size Size) Numbering {
	out := g.Clone()
	for r := range out {
		for c := range out[r] {
			out[r][c].Number = 0
		}
	}
	keys := mapset.New[WordKey]()
	var entries []Entry

	black := func(r, c int) bool { return out[r][c].IsBlack }

	n := 1
	for r := 0; r < size.Rows; r++ {
		for c := 0; c < size.Cols; c++ {
			if black(r, c) {
				continue
			}
			startAcross := c == 0 || black(r, c-1)
			startDown := r == 0 || black(r-1, c)
			hasNextAcross := c+1 < size.Cols && !black(r, c+1)
			hasNextDown := r+1 < size.Rows && !black(r+1, c)

			across := startAcross && hasNextAcross
			down := startDown && hasNextDown
			if !across && !down {
				continue
			}

			out[r][c].Number = n
			p := Pos{R: r, C: c}
			if across {
				keys.Put(KeyFor(n, Across))
				entries = append(entries, Entry{Number: n, Direction: Across, Start: p, Length: runLength(out, size, p, Across)})
			}
			if down {
				keys.Put(KeyFor(n, Down))
				entries = append(entries, Entry{Number: n, Direction: Down, Start: p, Length: runLength(out, size, p, Down)})
			}
			n++
		}
	}

	return Numbering{Grid: out, Keys: keys, Entries: entries}
}

func runLength(g Grid, size Size, start Pos, d Direction) int {
	n := 0
	for p := start; g.IsOpen(size, p); p = p.Step(d, true) {
		n++
	}
	return n
}
