package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinSize = 3
	MaxSize = 10

	DefaultRows = 5
	DefaultCols = 5
)

// Size is the grid dimensions.
type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DefaultSize is the size of a fresh session.
func DefaultSize() Size {
	return Size{Rows: DefaultRows, Cols: DefaultCols}
}

// ClampSize bounds rows and cols to [MinSize, MaxSize].
func ClampSize(rows, cols int) Size {
	return Size{Rows: clamp(rows), Cols: clamp(cols)}
}

// Valid reports whether both dimensions are within bounds.
func (s Size) Valid() bool {
	return s.Rows >= MinSize && s.Rows <= MaxSize && s.Cols >= MinSize && s.Cols <= MaxSize
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

func clamp(n int) int {
	if n < MinSize {
		return MinSize
	}
	if n > MaxSize {
		return MaxSize
	}
	return n
}

// Cell represents a single grid square. Number is derived by Number and
// 0 means the cell carries no number.
type Cell struct {
	Char    string
	IsBlack bool
	Number  int
}

type cellJSON struct {
	Char    string `json:"char"`
	IsBlack bool   `json:"isBlack"`
	Number  *int   `json:"number"`
}

// MarshalJSON writes an unnumbered cell with "number": null.
func (c Cell) MarshalJSON() ([]byte, error) {
	out := cellJSON{Char: c.Char, IsBlack: c.IsBlack}
	if c.Number > 0 {
		n := c.Number
		out.Number = &n
	}
	return json.Marshal(out)
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var in cellJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Char = in.Char
	c.IsBlack = in.IsBlack
	c.Number = 0
	if in.Number != nil {
		c.Number = *in.Number
	}
	return nil
}

// Grid is a row-major matrix of cells. Functions in this package never
// modify a Grid they are given; they return a fresh copy instead.
type Grid [][]Cell

// New returns an all-white, empty grid.
func New(size Size) Grid {
	g := make(Grid, size.Rows)
	for r := range g {
		g[r] = make([]Cell, size.Cols)
	}
	return g
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = make([]Cell, len(row))
		copy(out[r], row)
	}
	return out
}

// Fits reports whether g has exactly the given dimensions.
func (g Grid) Fits(size Size) bool {
	if len(g) != size.Rows {
		return false
	}
	for _, row := range g {
		if len(row) != size.Cols {
			return false
		}
	}
	return true
}

// InBounds reports whether p addresses a cell of a grid of the given size.
func (s Size) InBounds(p Pos) bool {
	return p.R >= 0 && p.R < s.Rows && p.C >= 0 && p.C < s.Cols
}

// IsOpen reports whether p is in bounds and not black.
func (g Grid) IsOpen(size Size, p Pos) bool {
	return size.InBounds(p) && !g[p.R][p.C].IsBlack
}

// Resize builds a grid of size to and copies the overlapping top-left
// rectangle of g into it. Numbers are dropped; callers renumber.
func Resize(g Grid, from, to Size) Grid {
	out := New(to)
	rows := min(from.Rows, to.Rows, len(g))
	for r := 0; r < rows; r++ {
		cols := min(from.Cols, to.Cols, len(g[r]))
		for c := 0; c < cols; c++ {
			cell := g[r][c]
			cell.Number = 0
			out[r][c] = cell
		}
	}
	return out
}

// Pos is a cell coordinate.
type Pos struct {
	R int `json:"r"`
	C int `json:"c"`
}

// Step returns the neighbour of p along d, forward or backward.
func (p Pos) Step(d Direction, forward bool) Pos {
	delta := 1
	if !forward {
		delta = -1
	}
	if d == Across {
		return Pos{R: p.R, C: p.C + delta}
	}
	return Pos{R: p.R + delta, C: p.C}
}

// String returns the spreadsheet-style label, e.g. {0,0} -> "A1".
func (p Pos) String() string {
	return ColRowToName(p.C, p.R)
}

// Direction is the orientation of a word.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

// Toggle returns the other direction.
func (d Direction) Toggle() Direction {
	if d == Across {
		return Down
	}
	return Across
}

// ParseDirection accepts "across" and "down" (any case).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "across":
		return Across, nil
	case "down":
		return Down, nil
	}
	return Across, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// WordKey identifies a numbered word, e.g. "3-down".
type WordKey string

// KeyFor builds the WordKey of number n in direction d.
func KeyFor(n int, d Direction) WordKey {
	return WordKey(strconv.Itoa(n) + "-" + d.String())
}

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	result := ""
	n := col + 1
	for n > 0 {
		n--
		result = string(rune('A'+(n%26))) + result
		n /= 26
	}
	return result
}

// ColRowToName builds cell name from 0-based col,row -> e.g., col 0,row0 -> "A1"
func ColRowToName(col, row int) string {
	return fmt.Sprintf("%s%d", ColToName(col), row+1)
}

// ParseCellRef parses names like A1 or c10 into a Pos.
func ParseCellRef(name string) (Pos, bool) {
	name = strings.TrimSpace(name)
	i := 0
	for i < len(name) && isLetter(name[i]) {
		i++
	}
	if i == 0 || i >= len(name) {
		return Pos{}, false
	}
	colPart := strings.ToUpper(name[:i])
	col := 0
	for j := 0; j < len(colPart); j++ {
		col = col*26 + int(colPart[j]-'A') + 1
	}
	rowNum, err := strconv.Atoi(name[i:])
	if err != nil || rowNum < 1 {
		return Pos{}, false
	}
	return Pos{R: rowNum - 1, C: col - 1}, true
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
