package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"crossgrid/internal/storage"
)

// openPicker lists saved projects in a modal. Typing filters by name,
// Enter loads, Ctrl+D deletes after confirmation and Esc closes. The list
// reloads when the project directory changes.
func (a *App) openPicker(s tcell.Screen) {
	var (
		all      []*storage.Project
		filter   []rune
		selected int
	)
	reload := func() {
		list, err := a.Projects.List(a.ctx)
		if err != nil {
			a.Log.Error("listing projects failed", "err", err)
			a.setError("Cannot list projects: %v", err)
		}
		all = list
	}
	visible := func() []*storage.Project {
		needle := strings.ToLower(string(filter))
		var out []*storage.Project
		for _, p := range all {
			if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
				out = append(out, p)
			}
		}
		return out
	}

	reload()
	for {
		items := visible()
		selected = maxInt(0, minInt(selected, len(items)-1))
		a.drawPicker(s, items, string(filter), selected)

		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(projectsChanged); ok {
				reload()
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc, tcell.KeyF3:
				a.Draw(s)
				return
			case tcell.KeyUp:
				selected--
			case tcell.KeyDown:
				selected++
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(filter) > 0 {
					filter = filter[:len(filter)-1]
				}
			case tcell.KeyEnter:
				if len(items) > 0 {
					a.load(items[selected].ID)
					a.Draw(s)
					return
				}
			case tcell.KeyCtrlD:
				if len(items) > 0 && a.deleteProject(s, items[selected]) {
					reload()
				}
			case tcell.KeyRune:
				filter = append(filter, ev.Rune())
				selected = 0
			}
		}
	}
}

func (a *App) drawPicker(s tcell.Screen, items []*storage.Project, filter string, selected int) {
	a.Draw(s)
	w, h := s.Size()

	bw := minInt(72, w-4)
	bh := minInt(maxInt(len(items), 1)+4, h-4)
	if bw < 20 || bh < 5 {
		s.Show()
		return
	}
	left, top := (w-bw)/2, (h-bh)/2
	a.drawBox(s, left, top, bw, bh, tcell.StyleDefault)

	inner := bw - 4
	a.printTextFixedWidth(s, left+2, top+1, "Open: "+filter, tcell.StyleDefault.Bold(true), inner)

	rows := bh - 4
	first := 0
	if selected >= rows {
		first = selected - rows + 1
	}
	if len(items) == 0 {
		a.printTextFixedWidth(s, left+2, top+2, "no saved projects", dimStyle, inner)
	}
	for i := 0; i < rows && first+i < len(items); i++ {
		p := items[first+i]
		style := tcell.StyleDefault
		if first+i == selected {
			style = cursorStyle
		}
		size := "?"
		if p.Data.Size != nil {
			size = p.Data.Size.String()
		}
		meta := fmt.Sprintf("%5s  %s", size, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
		nameW := maxInt(1, inner-len(meta)-1)
		a.printTextFixedWidth(s, left+2, top+2+i, p.Name, style, nameW)
		a.printTextFixedWidth(s, left+2+nameW, top+2+i, " "+meta, style, inner-nameW)
	}
	a.printTextFixedWidth(s, left+2, top+bh-2, "Enter open  Ctrl+D delete  Esc close", dimStyle, inner)
	s.Show()
}
