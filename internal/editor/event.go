package editor

import (
	"crossgrid/internal/clue"
	"crossgrid/internal/grid"
)

// Event is an input to Reduce.
type Event interface {
	event()
}

// Click is a primary click on a cell.
type Click struct {
	Pos grid.Pos
}

// ToggleBlack flips a cell between black and white in any mode.
type ToggleBlack struct {
	Pos grid.Pos
}

// Select moves the cursor to a cell without the click semantics. A non-nil
// Direction also points the cursor along it, in either mode.
type Select struct {
	Pos       grid.Pos
	Direction *grid.Direction
}

// ClickOutside clears the selection.
type ClickOutside struct{}

// Input is a single typed character.
type Input struct {
	Text string
}

// Compose is a multi-character text submitted at once, from an input
// method or a paste.
type Compose struct {
	Text string
}

// KeyCode names the non-text keys the editor reacts to.
type KeyCode int

const (
	KeyBackspace KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
)

// Key is a non-text key press.
type Key struct {
	Code KeyCode
}

// Resize changes the grid dimensions; values are clamped.
type Resize struct {
	Rows int
	Cols int
}

// Clear resets grid, size and clues to defaults.
type Clear struct{}

// SetMode switches the edit mode.
type SetMode struct {
	Mode Mode
}

// ToggleMode flips between input and black editing.
type ToggleMode struct{}

// SetClue writes the text of one clue. Empty text removes it.
type SetClue struct {
	Key  grid.WordKey
	Text string
}

// Replace installs a loaded or restored document.
type Replace struct {
	Size  grid.Size
	Grid  grid.Grid
	Clues clue.Map
}

func (Click) event()        {}
func (ToggleBlack) event()  {}
func (Select) event()       {}
func (ClickOutside) event() {}
func (Input) event()        {}
func (Compose) event()      {}
func (Key) event()          {}
func (Resize) event()       {}
func (Clear) event()        {}
func (SetMode) event()      {}
func (ToggleMode) event()   {}
func (SetClue) event()      {}
func (Replace) event()      {}

// Effect reports what the UI has to do after a transition.
type Effect struct {
	// Focus is the cell that should receive focus, if any.
	Focus *grid.Pos
	// Changed is set when size, grid or clue texts changed and the session
	// snapshot needs to be written.
	Changed bool
}
