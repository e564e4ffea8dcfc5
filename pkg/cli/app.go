// Package cli implements the interactive terminal interface of nbted.
//
// An App shows the open documents of a doc.Set as collapsible trees, with a
// menu strip and a tab strip above them. It is driven by an event loop that
// serializes terminal input, signals and the results of background loads.
package cli

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/kregerl/nbt-editor/pkg/cli/term"
	"github.com/kregerl/nbt-editor/pkg/cli/tk"
	"github.com/kregerl/nbt-editor/pkg/doc"
	"github.com/kregerl/nbt-editor/pkg/filepick"
	"github.com/kregerl/nbt-editor/pkg/ingest"
	"github.com/kregerl/nbt-editor/pkg/logutil"
	"github.com/kregerl/nbt-editor/pkg/render"
	"github.com/kregerl/nbt-editor/pkg/store/storedefs"
	"github.com/kregerl/nbt-editor/pkg/sys"
	"github.com/kregerl/nbt-editor/pkg/tag"
	"github.com/kregerl/nbt-editor/pkg/ui"
	"github.com/kregerl/nbt-editor/pkg/uistate"
	"github.com/kregerl/nbt-editor/pkg/walk"
)

var logger = logutil.GetLogger("cli")

// Maximum number of notes shown below the main area.
const maxNotes = 3

// Number of entries of the Recent menu.
const recentLimit = 10

// AppSpec specifies the configuration and dependencies of an App.
type AppSpec struct {
	// Defaults to NewTTY(os.Stdin, os.Stderr).
	TTY TTY
	// Documents shown initially. Defaults to an empty set.
	Docs *doc.Set
	// Loads files requested with the Open menu. Defaults to a Loader with
	// the default codec.
	Loader *ingest.Loader
	// Optional. When set, opened files are recorded and the Recent menu is
	// shown.
	Store storedefs.Store
	// Optional. When nil, Open asks for a path in a window.
	Picker filepick.Picker
	// Passed to walk.Walker.
	MaxDepth int
	// Whether the hierarchy of all documents is shown initially.
	Hierarchy bool
}

// App is an interactive NBT viewer.
type App struct {
	loop    *loop
	reqRead chan struct{}

	TTY    TTY
	Docs   *doc.Set
	Loader *ingest.Loader
	Store  storedefs.Store
	Picker filepick.Picker

	view      *tk.View
	maxDepth  int
	hierarchy bool
	// View state of the hierarchy, by document title.
	side *uistate.Table
	// Non-nil when the open window is shown.
	prompt  *render.EditBuffer
	picking bool
	// Whether the recent list is shown, and its entries.
	recentOpen bool
	recent     []storedefs.Doc

	notesMutex sync.Mutex
	notes      []ui.Text
}

// Events generated by the app itself.
type (
	pickResult struct {
		path string
		ok   bool
		err  error
	}
)

// NewApp creates a new App from the given specification.
func NewApp(spec AppSpec) *App {
	a := &App{
		TTY:       spec.TTY,
		Docs:      spec.Docs,
		Loader:    spec.Loader,
		Store:     spec.Store,
		Picker:    spec.Picker,
		view:      tk.NewView(),
		maxDepth:  spec.MaxDepth,
		hierarchy: spec.Hierarchy,
		side:      uistate.NewTable(),
	}
	a.loop = newLoop(a)
	if a.TTY == nil {
		a.TTY = NewTTY(os.Stdin, os.Stderr)
	}
	if a.Docs == nil {
		a.Docs = doc.NewSet()
	}
	if a.Loader == nil {
		a.Loader = ingest.NewLoader(nil)
	}
	return a
}

// Run runs the app until it is quit, the terminal goes away or a fatal
// error occurs. It is not re-entrant.
func (a *App) Run() error {
	restore, err := a.TTY.Setup()
	if err != nil {
		return err
	}
	defer restore()

	// Warnings and errors logged while the app runs are shown as notes.
	defer logutil.AddHandler(&noteHandler{app: a})()

	a.refreshRecent()

	stop := make(chan struct{})
	defer a.loop.wait()
	defer close(stop)

	a.reqRead = make(chan struct{}, 1)
	a.reqRead <- struct{}{}
	defer close(a.reqRead)
	defer a.TTY.CloseReader()
	a.loop.spawn(a.readEvents)

	relay(a.loop, a.TTY.NotifySignals(), stop)
	defer a.TTY.StopSignals()
	relay(a.loop, a.Loader.Results(), stop)

	a.loop.Redraw(true)
	return a.loop.Run()
}

// readEvents reads one terminal event for each request on reqRead. Reading
// one event at a time lets the loop stop reading as soon as it returns.
func (a *App) readEvents() {
	for range a.reqRead {
		ev, err := a.TTY.ReadEvent()
		switch {
		case err == nil:
			a.loop.Input(ev)
		case errors.Is(err, term.ErrStopped):
			return
		case term.IsReadErrorRecoverable(err):
			a.loop.Input(term.NonfatalErrorEvent{Err: err})
		default:
			a.loop.Input(term.FatalErrorEvent{Err: err})
			return
		}
	}
}

// Redraw requests a redraw. It never blocks and can be called regardless of
// whether the App is active or not.
func (a *App) Redraw() { a.loop.Redraw(false) }

// RedrawFull requests a full redraw. It never blocks and can be called
// regardless of whether the App is active or not.
func (a *App) RedrawFull() { a.loop.Redraw(true) }

// Quit causes Run to return nil after the current event is handled.
func (a *App) Quit() { a.loop.Return(nil) }

// Notify adds a note and requests a redraw. Notes are shown below the main
// area until the next key press. It is safe for concurrent use.
func (a *App) Notify(note ui.Text) {
	a.notesMutex.Lock()
	a.notes = append(a.notes, note)
	if len(a.notes) > maxNotes {
		a.notes = a.notes[len(a.notes)-maxNotes:]
	}
	a.notesMutex.Unlock()
	a.Redraw()
}

func (a *App) clearNotes() {
	a.notesMutex.Lock()
	defer a.notesMutex.Unlock()
	a.notes = nil
}

func (a *App) copyNotes() []ui.Text {
	a.notesMutex.Lock()
	defer a.notesMutex.Unlock()
	return append([]ui.Text(nil), a.notes...)
}

func (a *App) handle(e event) {
	switch e := e.(type) {
	case os.Signal:
		switch e {
		case syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT:
			a.loop.Return(nil)
		case sys.SIGWINCH:
			a.RedrawFull()
		}
	case ingest.Result:
		a.installLoad(e)
	case pickResult:
		a.picking = false
		if e.err != nil {
			logger.Error("file dialog failed", "err", e.err)
		} else if e.ok {
			a.Loader.Request(e.path)
		}
	case term.Event:
		switch e := e.(type) {
		case term.KeyEvent:
			a.clearNotes()
			a.handleKey(ui.Key(e))
		case term.NonfatalErrorEvent:
			logger.Warn("error reading terminal input", "err", e.Err)
		case term.FatalErrorEvent:
			a.loop.Return(e.Err)
		}
		if !a.loop.HasReturned() {
			a.reqRead <- struct{}{}
		}
	}
}

// Keys that work regardless of focus. Only the quit keys work while a window
// is open.
var globalKeys = map[ui.Key]bool{
	ui.K('Q', ui.Ctrl): true, ui.K('C', ui.Ctrl): true,
	ui.K('O', ui.Ctrl): true, ui.K('W', ui.Ctrl): true,
	ui.K(ui.F2): true, ui.K(ui.Tab): true, ui.K(ui.Tab, ui.Shift): true,
}

// handleKey handles a global key or queues k for the view.
func (a *App) handleKey(k ui.Key) {
	if !globalKeys[k] {
		a.view.Queue(k)
		return
	}
	// Keys queued earlier may open or close windows.
	a.settle()
	if a.handleGlobal(k) {
		// Keys that follow see the windows k has opened.
		a.settle()
	} else {
		a.view.Queue(k)
	}
}

func (a *App) handleGlobal(k ui.Key) bool {
	switch k {
	case ui.K('Q', ui.Ctrl), ui.K('C', ui.Ctrl):
		a.loop.Return(nil)
		return true
	}
	if _, ok := a.view.TopWindow(); ok {
		return false
	}
	switch k {
	case ui.K('O', ui.Ctrl):
		a.open()
	case ui.K('W', ui.Ctrl):
		a.closeActive()
	case ui.K(ui.F2):
		a.hierarchy = !a.hierarchy
	case ui.K(ui.Tab):
		a.Docs.Cycle(1)
	case ui.K(ui.Tab, ui.Shift):
		a.Docs.Cycle(-1)
	default:
		return false
	}
	return true
}

// open asks for a file to load, either with the picker or in a window.
func (a *App) open() {
	if a.Picker == nil {
		if a.prompt == nil {
			a.prompt = &render.EditBuffer{}
		}
		return
	}
	if a.picking {
		return
	}
	a.picking = true
	go func() {
		path, ok, err := a.Picker.Pick()
		a.loop.Input(pickResult{path, ok, err})
	}()
}

func (a *App) closeActive() {
	d := a.Docs.Active()
	if d == nil {
		return
	}
	if d.Dirty {
		logger.Warn("closed with unsaved edits", "title", d.Title)
	}
	a.Docs.Close(d.Title)
	a.side.Evict(d.Title)
}

// installLoad adds a loaded document to the set. Results of superseded
// requests are dropped.
func (a *App) installLoad(r ingest.Result) {
	if !a.Loader.Current(r.Seq) {
		return
	}
	if r.Err != nil {
		logger.Error("cannot open", "path", r.Path, "err", r.Err)
		return
	}
	title := a.Docs.Open(r.Doc)
	logger.Info("opened", "path", r.Path, "title", title, "envelope", r.Doc.Envelope)
	if a.Store != nil {
		if _, err := a.Store.AddDoc(r.Path, r.Doc.Envelope); err != nil {
			logger.Warn("cannot record recent document", "path", r.Path, "err", err)
		}
		a.refreshRecent()
	}
}

func (a *App) refreshRecent() {
	if a.Store == nil {
		return
	}
	docs, err := a.Store.Docs(recentLimit)
	if err != nil {
		logger.Warn("cannot list recent documents", "err", err)
		return
	}
	a.recent = docs
}

func (a *App) redraw(flag redrawFlag) error {
	height, width := a.size()
	if flag&finalRedraw != 0 {
		err := a.TTY.UpdateBuffer(nil, &term.Buffer{Width: width, Lines: [][]term.Cell{{}}}, false)
		a.TTY.ResetBuffer()
		return err
	}
	return a.TTY.UpdateBuffer(nil, a.render(height, width), flag&fullRedraw != 0)
}

func (a *App) size() (h, w int) {
	h, w = a.TTY.Size()
	if h <= 0 || w <= 0 {
		return 24, 80
	}
	return h, w
}

// render builds frames until all queued keys are dispatched, and lays out the
// last one above the notes.
func (a *App) render(height, width int) *term.Buffer {
	bufNotes := renderNotes(a.copyNotes(), width)
	mainHeight := height
	if bufNotes != nil {
		mainHeight = max(height-len(bufNotes.Lines), 1)
	}
	buf := a.view.Draw(width, mainHeight, a.draw)
	if bufNotes != nil {
		buf.ExtendDown(bufNotes, false)
		buf.TrimToLines(0, height)
	}
	return buf
}

// settle dispatches queued keys without drawing to the terminal.
func (a *App) settle() {
	a.render(a.size())
}

// Renders notes, one line each.
func renderNotes(notes []ui.Text, width int) *term.Buffer {
	if len(notes) == 0 {
		return nil
	}
	bb := term.NewBufferBuilder(width)
	for i, note := range notes {
		if i > 0 {
			bb.Newline()
		}
		bb.WriteText(note)
	}
	return bb.Buffer()
}

// Identities of the fixed elements.
const (
	menuOpen      render.ID = "menu/open"
	menuClose     render.ID = "menu/close"
	menuRecent    render.ID = "menu/recent"
	menuHierarchy render.ID = "menu/hierarchy"
	menuQuit      render.ID = "menu/quit"

	recentID    render.ID = "recent"
	hierarchyID render.ID = "side"
	emptyID     render.ID = "empty"
	statusID    render.ID = "status"
	docID       render.ID = "doc"
	promptID    render.ID = "open"
)

func tabID(title string) render.ID { return render.ID("tab/" + strconv.Quote(title)) }

// draw emits one frame.
func (a *App) draw(s render.Surface) {
	a.drawMenu(s)
	if a.recentOpen && a.Store != nil {
		a.drawRecent(s)
	}
	if a.hierarchy {
		a.drawHierarchy(s)
	}
	a.drawTabs(s)
	a.drawActive(s)
	if a.prompt != nil {
		a.drawPrompt(s)
	}
}

func (a *App) drawMenu(s render.Surface) {
	if s.Selectable(menuOpen, "Open", false).Activated {
		a.open()
	}
	if s.Selectable(menuClose, "Close", false).Activated {
		a.closeActive()
	}
	if a.Store != nil && s.Selectable(menuRecent, "Recent", a.recentOpen).Activated {
		a.recentOpen = !a.recentOpen
		if a.recentOpen {
			a.refreshRecent()
		}
	}
	if s.Selectable(menuHierarchy, "Hierarchy", a.hierarchy).Activated {
		a.hierarchy = !a.hierarchy
	}
	if s.Selectable(menuQuit, "Quit", false).Activated {
		a.loop.Return(nil)
	}
}

func (a *App) drawRecent(s render.Surface) {
	if s.BeginCollapsible(recentID, "Recent", true).Clicked {
		a.recentOpen = false
	}
	if len(a.recent) == 0 {
		s.Line(recentID+"/none", "(none)")
	}
	for _, d := range a.recent {
		if s.Line(recentID+render.ID("/"+strconv.Quote(d.Path)), d.Path).Activated {
			a.Loader.Request(d.Path)
			a.recentOpen = false
		}
	}
	s.EndCollapsible()
}

// drawHierarchy shows every document read-only under a header of its own.
func (a *App) drawHierarchy(s render.Surface) {
	for _, title := range a.Docs.Titles() {
		d, _ := a.Docs.Get(title)
		scope := a.side.Scope(title)
		id := hierarchyID + render.ID("/"+strconv.Quote(title))
		open := scope.Expanded(id, true)
		if s.BeginCollapsible(id, "root ["+title+"]", open).Clicked {
			open = !open
			scope.SetExpanded(id, open)
		}
		if open {
			w := walk.Walker{Surface: s, Scope: scope, MaxDepth: a.maxDepth}
			w.Walk(id, d.Tree.Root)
		}
		s.EndCollapsible()
	}
}

func (a *App) drawTabs(s render.Surface) {
	active := ""
	if d := a.Docs.Active(); d != nil {
		active = d.Title
	}
	for _, title := range a.Docs.Titles() {
		label := title
		if d, ok := a.Docs.Get(title); ok && d.Dirty {
			label += " *"
		}
		if s.Selectable(tabID(title), label, title == active).Activated {
			a.Docs.Activate(title)
		}
	}
}

func (a *App) drawActive(s render.Surface) {
	d := a.Docs.Active()
	if d == nil {
		s.Line(emptyID, "No documents. Press Ctrl-O to open a file.")
		return
	}
	s.Line(statusID, status(d))
	w := walk.Walker{Surface: s, Scope: a.Docs.Scope(d.Title), MaxDepth: a.maxDepth}
	res := w.WalkMut(docID, d.Tree.Root)
	for _, e := range res.Edits {
		logger.Debug("edited", "title", d.Title, "id", string(e.ID))
		d.Dirty = true
	}
}

func status(d *doc.Document) string {
	var sb strings.Builder
	if d.Path != "" {
		sb.WriteString(d.Path)
	} else {
		sb.WriteString(d.Title)
	}
	sb.WriteString(" (" + d.Envelope.String())
	if d.Tree.Name != "" {
		sb.WriteString(", root " + strconv.Quote(d.Tree.Name))
	}
	n := tag.Count(d.Tree.Root)
	sb.WriteString(", " + strconv.Itoa(n))
	if n == 1 {
		sb.WriteString(" tag)")
	} else {
		sb.WriteString(" tags)")
	}
	return sb.String()
}

func (a *App) drawPrompt(s render.Surface) {
	wresp := s.BeginWindow(promptID, "Open file")
	tresp := s.TextEdit(promptID+".text", a.prompt)
	s.EndWindow()
	switch {
	case wresp.Closed:
		a.prompt = nil
	case tresp.Submitted:
		if path := strings.TrimSpace(a.prompt.Text); path != "" {
			a.Loader.Request(path)
		}
		a.prompt = nil
	}
}
