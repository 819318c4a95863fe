package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"crossgrid/internal/clue"
	"crossgrid/internal/editor"
	"crossgrid/internal/grid"
	"crossgrid/internal/storage"
)

// ----------------------------- Commands -----------------------------

// ExecuteCommand runs one command-line command.
func (a *App) ExecuteCommand(s tcell.Screen, cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cmd), parts[0]))

	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "w", "write", "save":
		a.save(s, arg, false)
	case "saveas":
		if arg == "" {
			a.setError("usage: saveas NAME")
			return
		}
		a.save(s, arg, true)
	case "o", "open":
		if arg == "" {
			a.openPicker(s)
			return
		}
		p, err := a.Projects.Find(a.ctx, arg)
		if err != nil {
			a.setError("%v", err)
			return
		}
		a.load(p.ID)
	case "rm", "delete":
		if arg == "" {
			a.setError("usage: rm NAME|ID")
			return
		}
		p, err := a.Projects.Find(a.ctx, arg)
		if err != nil {
			a.setError("%v", err)
			return
		}
		a.deleteProject(s, p)
	case "size", "resize":
		if arg == "" {
			a.promptResize(s)
			return
		}
		a.resize(arg)
	case "clear", "new":
		a.clear(s)
	case "mode":
		if arg == "" {
			a.Dispatch(editor.ToggleMode{})
		} else {
			m, err := editor.ParseMode(arg)
			if err != nil {
				a.setError("%v", err)
				return
			}
			a.Dispatch(editor.SetMode{Mode: m})
		}
		a.setMessage("Mode: %s", modeLabel(a.State.Mode))
	case "black":
		for _, ref := range parts[1:] {
			p, ok := grid.ParseCellRef(ref)
			if !ok || !a.State.Size.InBounds(p) {
				a.setError("no cell %s", ref)
				return
			}
			a.Dispatch(editor.ToggleBlack{Pos: p})
		}
	case "csv":
		if arg == "" {
			a.setError("usage: csv FILE")
			return
		}
		filename := withExt(arg, ".csv")
		if err := storage.SaveCSV(a.State.Grid, filename); err != nil {
			a.Log.Error("csv export failed", "file", filename, "err", err)
			a.setError("Export failed: %v", err)
			return
		}
		a.setMessage("Wrote %s", filename)
	case "csvload":
		if arg == "" {
			a.setError("usage: csvload FILE")
			return
		}
		filename := withExt(arg, ".csv")
		size, g, err := storage.LoadCSV(filename)
		if err != nil {
			a.Log.Error("csv import failed", "file", filename, "err", err)
			a.setError("Import failed: %v", err)
			return
		}
		a.Dispatch(editor.Replace{Size: size, Grid: g, Clues: a.State.Clues})
		a.setMessage("Loaded %s (%s)", filename, size)
	case "yank", "y":
		a.yank()
	case "help":
		a.HelpVisible = true
	default:
		a.setError("unknown command: %s", parts[0])
	}
}

func withExt(name, ext string) string {
	if filepath.Ext(name) == "" {
		return name + ext
	}
	return name
}

// ----------------------------- Projects -----------------------------

func (a *App) untitledName() string {
	return "Untitled " + a.now().Format("2006-01-02 15:04")
}

// save writes the puzzle to its project. A puzzle without a project, or
// asNew, creates one; the name is asked for when not given. Cancelling the
// prompt aborts without a message.
func (a *App) save(s tcell.Screen, name string, asNew bool) {
	data := storage.NewData(a.State.Size, a.State.Grid, a.State.ExportClues())

	var p *storage.Project
	if a.Project == nil || asNew {
		if name == "" {
			n, ok := a.PopupInput(s, "Project name:", a.untitledName())
			if !ok {
				return
			}
			name = strings.TrimSpace(n)
			if name == "" {
				name = a.untitledName()
			}
		}
		p = storage.NewProject(name, data)
	} else {
		cp := *a.Project
		p = &cp
		p.Data = data
		if name != "" {
			p.Name = name
		}
	}

	if err := a.Projects.Save(a.ctx, p); err != nil {
		a.Log.Error("project save failed", "name", p.Name, "err", err)
		a.setError("Save failed: %v", err)
		return
	}
	a.Project = p
	a.Dirty = false
	a.setMessage("Saved %q", p.Name)
}

// load replaces the puzzle with the stored project. Invalid projects leave
// the current puzzle untouched.
func (a *App) load(id string) {
	p, err := a.Projects.Load(a.ctx, id)
	if err != nil {
		a.Log.Error("project load failed", "id", id, "err", err)
		a.setError("Load failed: %v", err)
		return
	}
	size, g, clues, err := p.Data.Document()
	if err != nil {
		a.Log.Warn("project rejected", "id", id, "err", err)
		if errors.Is(err, storage.ErrInvalidProject) {
			a.setError("%q is not a valid puzzle", p.Name)
		} else {
			a.setError("Load failed: %v", err)
		}
		return
	}
	a.Dispatch(editor.Replace{Size: size, Grid: g, Clues: clues})
	a.Project = p
	a.Dirty = false
	a.setMessage("Loaded %q", p.Name)
}

// deleteProject removes p after confirmation. Deleting the open project
// keeps the puzzle but forgets where it came from.
func (a *App) deleteProject(s tcell.Screen, p *storage.Project) bool {
	if !a.Confirm(s, fmt.Sprintf("Delete %q?", p.Name)) {
		return false
	}
	if err := a.Projects.Delete(a.ctx, p.ID); err != nil {
		a.Log.Error("project delete failed", "id", p.ID, "err", err)
		a.setError("Delete failed: %v", err)
		return false
	}
	if a.Project != nil && a.Project.ID == p.ID {
		a.Project = nil
		a.Dirty = true
	}
	a.setMessage("Deleted %q", p.Name)
	return true
}

// ----------------------------- Editing -----------------------------

func (a *App) clear(s tcell.Screen) {
	if !a.Confirm(s, "Clear the puzzle and start over?") {
		return
	}
	a.Dispatch(editor.Clear{})
	a.Project = nil
	a.Dirty = false
	a.setMessage("Cleared")
}

func (a *App) promptResize(s tcell.Screen) {
	initial := fmt.Sprintf("%d %d", a.State.Size.Rows, a.State.Size.Cols)
	in, ok := a.PopupInput(s, "Size (rows cols):", initial)
	if !ok {
		return
	}
	a.resize(in)
}

// resize accepts "ROWS COLS" or "ROWSxCOLS".
func (a *App) resize(arg string) {
	fields := strings.FieldsFunc(strings.ToLower(arg), func(r rune) bool {
		return r == ' ' || r == 'x' || r == ','
	})
	if len(fields) != 2 {
		a.setError("size needs ROWS and COLS")
		return
	}
	rows, err1 := strconv.Atoi(fields[0])
	cols, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		a.setError("size needs numbers, got %q", arg)
		return
	}
	a.Dispatch(editor.Resize{Rows: rows, Cols: cols})
	a.setMessage("Size %s", a.State.Size)
}

func (a *App) editClue(s tcell.Screen) {
	key, ok := a.State.ActiveKey()
	if !ok {
		a.setError("Select a word to edit its clue")
		return
	}
	n, dir, err := clue.ParseKey(key)
	if err != nil {
		return
	}
	prompt := fmt.Sprintf("%d %s (%s):", n, dir, a.State.Word())
	text, ok := a.PopupInput(s, prompt, a.State.Clues[key])
	if !ok {
		return
	}
	a.Dispatch(editor.SetClue{Key: key, Text: strings.TrimSpace(text)})
}

func (a *App) yank() {
	text := clue.Format(a.State.ExportClues())
	if err := a.CopyText(text); err != nil {
		a.Log.Warn("clipboard unavailable", "err", err)
		a.setError("Clipboard: %v", err)
		return
	}
	a.setMessage("Copied %d clue(s)", len(a.State.ExportClues()))
}
