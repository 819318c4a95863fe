package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const maxInputRunes = 4096

// PopupInput shows a modal input box with prompt and initial text. It
// returns the entered string and true on Enter, or false when the user
// cancels with Esc. The box runs its own event loop and redraws the app
// underneath with a.Draw.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	style := tcell.StyleDefault

	promptW := runewidth.StringWidth(prompt)
	buf := []rune(initial)
	pos := len(buf)

	w, h := s.Size()
	contentW := maxInt(30, promptW+len(buf)+2)
	boxW := minInt(contentW+4, w-2)
	boxH := 3

	drawBox := func() {
		left := (w - boxW) / 2
		top := (h - boxH) / 2
		a.drawBox(s, left, top, boxW, boxH, style)

		x := left + 2
		y := top + 1
		a.printTextFixedWidth(s, x, y, prompt, style.Bold(true), promptW)
		x += promptW + 1

		maxField := maxInt(1, boxW-5-promptW)
		start := 0
		if pos > maxField {
			start = pos - maxField
		}
		end := minInt(len(buf), start+maxField)
		a.printTextFixedWidth(s, x, y, string(buf[start:end]), style, maxField)
		s.ShowCursor(x+runewidth.StringWidth(string(buf[start:pos])), y)
	}

	redraw := func() {
		a.Draw(s)
		drawBox()
		s.Show()
	}
	done := func() {
		s.HideCursor()
		a.Draw(s)
	}

	redraw()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return "", false
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				done()
				return "", false
			case tcell.KeyEnter:
				done()
				return string(buf), true
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if pos > 0 {
					buf = append(buf[:pos-1], buf[pos:]...)
					pos--
				}
			case tcell.KeyDelete:
				if pos < len(buf) {
					buf = append(buf[:pos], buf[pos+1:]...)
				}
			case tcell.KeyCtrlU:
				buf, pos = buf[:0], 0
			case tcell.KeyLeft:
				if pos > 0 {
					pos--
				}
			case tcell.KeyRight:
				if pos < len(buf) {
					pos++
				}
			case tcell.KeyHome, tcell.KeyCtrlA:
				pos = 0
			case tcell.KeyEnd, tcell.KeyCtrlE:
				pos = len(buf)
			case tcell.KeyRune:
				if len(buf) < maxInputRunes {
					buf = append(buf[:pos], append([]rune{ev.Rune()}, buf[pos:]...)...)
					pos++
				}
			}
			redraw()
		case *tcell.EventResize:
			s.Sync()
			w, h = s.Size()
			boxW = minInt(boxW, w-2)
			redraw()
		}
	}
}

// Confirm asks a yes/no question. Only y or Y confirms.
func (a *App) Confirm(s tcell.Screen, question string) bool {
	msg := question + " [y/N]"
	for {
		w, h := s.Size()
		bw := minInt(runewidth.StringWidth(msg)+6, w-2)
		left, top := (w-bw)/2, (h-3)/2
		a.Draw(s)
		a.drawBox(s, left, top, bw, 3, tcell.StyleDefault)
		a.printTextFixedWidth(s, left+2, top+1, msg, tcell.StyleDefault.Bold(true), bw-4)
		s.Show()

		switch ev := s.PollEvent().(type) {
		case nil:
			return false
		case *tcell.EventKey:
			a.Draw(s)
			return ev.Key() == tcell.KeyRune && strings.EqualFold(string(ev.Rune()), "y")
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
