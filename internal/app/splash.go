package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// SplashScreen spells out the app name on an empty crossword row, one
// square at a time, then waits for any key.
func SplashScreen(s tcell.Screen, step time.Duration) {
	title := []rune("CROSS GRID")
	width, height := s.Size()

	drawFrame := func(reveal int) {
		s.Clear()
		startX := (width - len(title)*3) / 2
		y := height / 2

		for i, ch := range title {
			style := whiteStyle
			if ch == ' ' {
				style = blackStyle
			} else if i >= reveal {
				ch = ' '
			}
			x := startX + i*3
			s.SetContent(x, y, ' ', nil, style)
			s.SetContent(x+1, y, ch, nil, style.Bold(true))
			s.SetContent(x+2, y, ' ', nil, style)
		}

		hint := "Press any key to start"
		startHintX := (width - len(hint)) / 2
		for i, ch := range hint {
			s.SetContent(startHintX+i, y+2, ch, nil, headerStyle)
		}
		s.Show()
	}

	for reveal := 1; reveal <= len(title); reveal++ {
		drawFrame(reveal)
		time.Sleep(step)
	}

	for {
		switch s.PollEvent().(type) {
		case nil, *tcell.EventKey, *tcell.EventMouse:
			return
		case *tcell.EventResize:
			s.Sync()
			width, height = s.Size()
			drawFrame(len(title))
		}
	}
}
