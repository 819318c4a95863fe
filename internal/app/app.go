package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"crossgrid/internal/editor"
	"crossgrid/internal/grid"
	"crossgrid/internal/storage"
)

// Projects is the project store the app saves to and loads from.
type Projects interface {
	List(ctx context.Context) ([]*storage.Project, error)
	Save(ctx context.Context, p *storage.Project) error
	Load(ctx context.Context, id string) (*storage.Project, error)
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, ref string) (*storage.Project, error)
}

// Session receives a copy of the puzzle after every change.
type Session interface {
	Save(ctx context.Context, snap storage.Snapshot) error
}

type watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// projectsChanged is posted as interrupt data when the project directory
// changes on disk.
type projectsChanged struct{}

// expired is posted when a status message times out.
type expired struct{}

type Options struct {
	Size       grid.Size
	Projects   Projects
	Session    Session
	Log        *slog.Logger
	MessageTTL time.Duration
}

type App struct {
	// layout
	LeftGutter  int
	TopMargin   int
	StatusLines int
	CellWidth   int
	CellHeight  int

	State editor.State

	// Project is the project the puzzle was last saved to or loaded from.
	Project *storage.Project
	Dirty   bool

	Projects Projects
	Session  Session
	Log      *slog.Logger

	// UI state
	HelpVisible bool
	Quit        bool

	Message    string
	MessageErr bool
	MessageTTL time.Duration
	messageAt  time.Time
	messageSeq int

	// CopyText puts text on the system clipboard.
	CopyText func(string) error

	ctx      context.Context
	now      func() time.Time
	buttons  tcell.ButtonMask
	pasting  bool
	pasteBuf []rune
	clueRows map[int]grid.Entry
	clueLeft int
}

func New(ctx context.Context, opts Options) *App {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.MessageTTL <= 0 {
		opts.MessageTTL = 4 * time.Second
	}
	return &App{
		LeftGutter:  3,
		TopMargin:   1,
		StatusLines: 2,
		CellWidth:   3,
		CellHeight:  2,
		State:       editor.New(opts.Size),
		Projects:    opts.Projects,
		Session:     opts.Session,
		Log:         opts.Log,
		MessageTTL:  opts.MessageTTL,
		CopyText:    clipboard.WriteAll,
		ctx:         ctx,
		now:         time.Now,
		clueRows:    map[int]grid.Entry{},
	}
}

// Run draws the app and processes events until the user quits. When the
// project store can be watched, changes on disk trigger a redraw.
func (a *App) Run(s tcell.Screen) {
	// Background posts stop once the context is done; the caller cancels it
	// before finalizing the screen.
	post := func(data any) {
		if a.ctx.Err() == nil {
			s.PostEvent(tcell.NewEventInterrupt(data))
		}
	}
	if w, ok := a.Projects.(watcher); ok {
		err := w.Watch(a.ctx, func() { post(projectsChanged{}) })
		if err != nil {
			a.Log.Warn("project watch unavailable", "err", err)
		}
	}

	var expiry *time.Timer
	defer func() {
		if expiry != nil {
			expiry.Stop()
		}
	}()

	posted := 0
	for !a.Quit {
		a.Draw(s)
		ev := s.PollEvent()
		if ev == nil {
			return
		}
		a.HandleEvent(s, ev)

		if a.messageSeq != posted && a.Message != "" {
			posted = a.messageSeq
			if expiry != nil {
				expiry.Stop()
			}
			expiry = time.AfterFunc(a.MessageTTL, func() { post(expired{}) })
		}
	}
}

// HandleEvent routes one terminal event.
func (a *App) HandleEvent(s tcell.Screen, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.HandleKeyEvent(s, ev)
	case *tcell.EventMouse:
		a.HandleMouseEvent(ev)
	case *tcell.EventPaste:
		a.handlePaste(ev)
	case *tcell.EventResize:
		s.Sync()
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(projectsChanged); ok {
			a.Log.Debug("project directory changed")
		}
	}
}

// Dispatch runs ev through the editor and mirrors changes to the session.
func (a *App) Dispatch(ev editor.Event) editor.Effect {
	next, eff := editor.Reduce(a.State, ev)
	a.State = next
	if eff.Changed {
		a.Dirty = true
		a.saveSession()
	}
	return eff
}

func (a *App) saveSession() {
	if a.Session == nil {
		return
	}
	snap := storage.Snapshot{
		Size:  a.State.Size,
		Grid:  a.State.Grid,
		Clues: a.State.Clues,
	}
	if err := a.Session.Save(a.ctx, snap); err != nil {
		a.Log.Warn("session save failed", "err", err)
		a.setError("Session not saved: %v", err)
	}
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.pasting {
		a.collectPaste(ev)
		return
	}

	// help popup consumes keys until closed
	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyF1 || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		a.Quit = true
	case tcell.KeyUp:
		a.Dispatch(editor.Key{Code: editor.KeyUp})
	case tcell.KeyDown:
		a.Dispatch(editor.Key{Code: editor.KeyDown})
	case tcell.KeyLeft:
		a.Dispatch(editor.Key{Code: editor.KeyLeft})
	case tcell.KeyRight:
		a.Dispatch(editor.Key{Code: editor.KeyRight})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.Dispatch(editor.Key{Code: editor.KeyBackspace})
	case tcell.KeyEsc:
		a.Dispatch(editor.ClickOutside{})
	case tcell.KeyTab, tcell.KeyF6:
		a.Dispatch(editor.ToggleMode{})
		a.setMessage("Mode: %s", modeLabel(a.State.Mode))
	case tcell.KeyEnter:
		a.editClue(s)
	case tcell.KeyF1:
		a.HelpVisible = true
	case tcell.KeyF2:
		a.save(s, "", false)
	case tcell.KeyF3:
		a.openPicker(s)
	case tcell.KeyF4:
		a.promptResize(s)
	case tcell.KeyF5:
		a.clear(s)
	case tcell.KeyF7:
		a.yank()
	case tcell.KeyF10:
		cmd, ok := a.PopupInput(s, ":", "")
		if ok {
			a.ExecuteCommand(s, cmd)
		}
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			a.Dispatch(editor.Key{Code: editor.KeySpace})
			return
		}
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return
		}
		a.Dispatch(editor.Input{Text: string(r)})
	}
}

// HandleMouseEvent reacts to button presses only; motion and releases are
// ignored. The primary button clicks, the secondary toggles black.
func (a *App) HandleMouseEvent(ev *tcell.EventMouse) {
	btn := ev.Buttons() & (tcell.Button1 | tcell.Button2)
	pressed := btn &^ a.buttons
	a.buttons = btn
	if pressed == 0 || a.HelpVisible {
		return
	}

	x, y := ev.Position()
	p, inGrid := a.hitCell(x, y)
	switch {
	case pressed&tcell.Button2 != 0:
		if inGrid {
			a.Dispatch(editor.ToggleBlack{Pos: p})
		}
	case inGrid:
		a.Dispatch(editor.Click{Pos: p})
	default:
		if e, ok := a.hitClue(x, y); ok {
			a.selectEntry(e)
			return
		}
		a.Dispatch(editor.ClickOutside{})
	}
}

// selectEntry moves the cursor to the start of e and points it along e.
func (a *App) selectEntry(e grid.Entry) {
	d := e.Direction
	a.Dispatch(editor.Select{Pos: e.Start, Direction: &d})
}

// Bracketed paste arrives as ordinary key events between a start and an
// end marker; the run is applied as one composed text.
func (a *App) handlePaste(ev *tcell.EventPaste) {
	switch {
	case ev.Start():
		a.pasting = true
		a.pasteBuf = a.pasteBuf[:0]
	case ev.End():
		a.pasting = false
		text := string(a.pasteBuf)
		a.pasteBuf = nil
		if text != "" {
			a.Dispatch(editor.Compose{Text: text})
		}
	}
}

func (a *App) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.pasteBuf = append(a.pasteBuf, ev.Rune())
	case tcell.KeyEnter, tcell.KeyTab:
		a.pasteBuf = append(a.pasteBuf, ' ')
	}
}

// ----------------------------- Messages -----------------------------

func (a *App) setMessage(format string, args ...any) {
	a.Message = fmt.Sprintf(format, args...)
	a.MessageErr = false
	a.messageAt = a.now()
	a.messageSeq++
}

func (a *App) setError(format string, args ...any) {
	a.setMessage(format, args...)
	a.MessageErr = true
}

// currentMessage returns the status message unless it has expired.
func (a *App) currentMessage() (string, bool) {
	if a.Message == "" || a.now().Sub(a.messageAt) >= a.MessageTTL {
		return "", false
	}
	return a.Message, true
}

func modeLabel(m editor.Mode) string {
	if m == editor.ModeEditBlack {
		return "EDIT BLACK"
	}
	return "INPUT"
}

// ----------------------------- Misc -----------------------------

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
