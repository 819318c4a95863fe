package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"

	"crossgrid/internal/editor"
	"crossgrid/internal/grid"
)

var (
	whiteStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	blackStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	wordStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightSkyBlue)
	cursorStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	headerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	errorStyle  = tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const superscripts = "⁰¹²³⁴⁵⁶⁷⁸⁹"

func superscript(n int) string {
	digits := []rune(superscripts)
	var b strings.Builder
	for _, d := range fmt.Sprint(n) {
		b.WriteRune(digits[d-'0'])
	}
	return b.String()
}

// ----------------------------- Drawing -----------------------------

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	a.drawGrid(s)
	a.drawClues(s, w, h)
	a.drawStatus(s, w, h)

	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}

	if c := a.State.Cursor; c != nil && a.State.Mode == editor.ModeInput && !a.HelpVisible {
		x, y := a.cellOrigin(*c)
		s.ShowCursor(x+a.CellWidth/2, y+a.CellHeight-1)
	} else {
		s.HideCursor()
	}

	s.Show()
}

func (a *App) cellOrigin(p grid.Pos) (int, int) {
	return a.LeftGutter + p.C*a.CellWidth, a.TopMargin + p.R*a.CellHeight
}

// hitCell maps a screen position to the grid cell drawn there.
func (a *App) hitCell(x, y int) (grid.Pos, bool) {
	if x < a.LeftGutter || y < a.TopMargin {
		return grid.Pos{}, false
	}
	p := grid.Pos{R: (y - a.TopMargin) / a.CellHeight, C: (x - a.LeftGutter) / a.CellWidth}
	return p, a.State.Size.InBounds(p)
}

// hitClue maps a screen position in the clue panel to its entry.
func (a *App) hitClue(x, y int) (grid.Entry, bool) {
	if x < a.clueLeft {
		return grid.Entry{}, false
	}
	e, ok := a.clueRows[y]
	return e, ok
}

func (a *App) drawGrid(s tcell.Screen) {
	st := a.State
	cur := st.Cursor
	word, hasWord := st.ActiveWord()

	// column letters and row numbers
	for c := 0; c < st.Size.Cols; c++ {
		x, _ := a.cellOrigin(grid.Pos{C: c})
		style := headerStyle
		if cur != nil && cur.C == c {
			style = cursorStyle
		}
		a.printCentered(s, x, 0, grid.ColToName(c), style, a.CellWidth)
	}
	for r := 0; r < st.Size.Rows; r++ {
		_, y := a.cellOrigin(grid.Pos{R: r})
		style := headerStyle
		if cur != nil && cur.R == r {
			style = cursorStyle
		}
		a.printTextFixedWidth(s, 0, y+a.CellHeight-1, fmt.Sprintf("%*d", a.LeftGutter-1, r+1), style, a.LeftGutter-1)
	}

	for r := 0; r < st.Size.Rows; r++ {
		for c := 0; c < st.Size.Cols; c++ {
			p := grid.Pos{R: r, C: c}
			cell := st.CellAt(p)
			x, y := a.cellOrigin(p)

			style := whiteStyle
			switch {
			case cell.IsBlack:
				style = blackStyle
			case cur != nil && *cur == p:
				style = cursorStyle
			case hasWord && word.Contains(p):
				style = wordStyle
			}

			for dy := 0; dy < a.CellHeight; dy++ {
				for dx := 0; dx < a.CellWidth; dx++ {
					s.SetContent(x+dx, y+dy, ' ', nil, style)
				}
			}
			if cell.IsBlack {
				continue
			}
			if cell.Number > 0 {
				a.printTextFixedWidth(s, x, y, superscript(cell.Number), style, a.CellWidth)
			}
			if cell.Char != "" {
				a.printCentered(s, x, y+a.CellHeight-1, cell.Char, style.Bold(true), a.CellWidth)
			}
		}
	}
}

func (a *App) drawClues(s tcell.Screen, w, h int) {
	st := a.State
	a.clueRows = map[int]grid.Entry{}
	a.clueLeft = a.LeftGutter + st.Size.Cols*a.CellWidth + 3
	width := w - a.clueLeft - 1
	if width < 16 {
		return
	}
	bottom := h - a.StatusLines
	active, _ := st.ActiveKey()

	y := a.TopMargin
	for _, dir := range []grid.Direction{grid.Across, grid.Down} {
		if y >= bottom {
			return
		}
		a.printTextFixedWidth(s, a.clueLeft, y, strings.ToUpper(dir.String()), headerStyle.Bold(true), width)
		y++
		for _, e := range st.Entries {
			if e.Direction != dir {
				continue
			}
			prefix := fmt.Sprintf("%3d ", e.Number)
			text, style := st.Clues[e.Key()], tcell.StyleDefault
			if text == "" {
				text, style = "…", dimStyle
			}
			if e.Key() == active {
				style = wordStyle
			}
			lines := strings.Split(wordwrap.String(text, width-len(prefix)), "\n")
			for i, ln := range lines {
				if y >= bottom {
					return
				}
				lead := strings.Repeat(" ", len(prefix))
				if i == 0 {
					lead = prefix
				}
				a.printTextFixedWidth(s, a.clueLeft, y, lead+ln, style, width)
				a.clueRows[y] = e
				y++
			}
		}
		y++
	}

	if n := len(st.Orphans()); n > 0 && y < bottom {
		a.printTextFixedWidth(s, a.clueLeft, y, fmt.Sprintf("%d unused clue(s) kept", n), dimStyle, width)
	}
}

func (a *App) drawStatus(s tcell.Screen, w, h int) {
	statusY := maxInt(0, h-a.StatusLines)
	st := a.State

	label := "--"
	if st.Cursor != nil {
		label = st.Cursor.String()
	}
	name := "(unsaved)"
	if a.Project != nil {
		name = a.Project.Name
	}
	if a.Dirty {
		name += " *"
	}
	left := fmt.Sprintf(" %s  %s  %s  %s  %s  %s", modeLabel(st.Mode), strings.ToUpper(st.Direction.String()), label, st.Size, st.Word(), name)
	a.printTextFixedWidth(s, 0, statusY, left, statusStyle, w)

	if msg, ok := a.currentMessage(); ok {
		style := statusStyle
		if a.MessageErr {
			style = errorStyle
		}
		a.printTextFixedWidth(s, 0, statusY+1, " "+msg, style, w)
		return
	}
	a.printTextFixedWidth(s, 0, statusY+1, " F1 help  F2 save  F3 open  F10 command  Tab mode  Ctrl+Q quit", dimStyle, w)
}

// ----------------------------- Helpers -----------------------------

// printTextFixedWidth writes str from x, one grapheme per cell group,
// and pads with spaces to width columns.
func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	col := 0
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		cluster := g.Str()
		cw := runewidth.StringWidth(cluster)
		if cw == 0 {
			continue
		}
		if col+cw > width {
			break
		}
		runes := g.Runes()
		if x+col >= 0 && y >= 0 {
			s.SetContent(x+col, y, runes[0], runes[1:], style)
		}
		col += cw
	}
	for ; col < width; col++ {
		if x+col >= 0 && y >= 0 {
			s.SetContent(x+col, y, ' ', nil, style)
		}
	}
}

// printCentered centres str within width columns.
func (a *App) printCentered(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	off := maxInt(0, (width-runewidth.StringWidth(str))/2)
	a.printTextFixedWidth(s, x, y, strings.Repeat(" ", off)+str, style, width)
}

const helpText = `Arrows - move   Space - switch across/down
Type letters to fill the active word, Backspace to erase
Enter - edit the clue of the active word
Tab / F6 - toggle black square editing
Right click - toggle a black square   Esc - clear selection
F2 - save   F3 - open projects   F4 - resize   F5 - clear
F7 - copy clues   F10 - command line   Ctrl+Q - quit

Commands: w [name], saveas name, o name, rm name, size R C, clear, mode input|black, black A1 ..., csv file, csvload file, yank, q`

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	padding := 2
	maxPW := w - 4
	maxPH := h - 4

	innerW := minInt(maxPW-padding*2, 64)
	if innerW < 20 {
		return
	}

	lines := wrapText(help, innerW)
	if len(lines) > maxPH-padding*2 {
		lines = lines[:maxInt(0, maxPH-padding*2)]
	}

	pw := innerW + padding*2
	ph := len(lines) + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	a.drawBox(s, left, top, pw, ph, tcell.StyleDefault)
	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+i, ln, tcell.StyleDefault, innerW)
	}
}

// drawBox clears a rectangle and frames it.
func (a *App) drawBox(s tcell.Screen, left, top, bw, bh int, style tcell.Style) {
	for y := top; y < top+bh; y++ {
		for x := left; x < left+bw; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	for x := left; x < left+bw; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+bh-1, tcell.RuneHLine, nil, style)
	}
	for y := top; y < top+bh; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+bw-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+bw-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+bh-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+bw-1, top+bh-1, tcell.RuneLRCorner, nil, style)
}

func wrapText(s string, max int) []string {
	return strings.Split(wordwrap.String(s, max), "\n")
}
