// Package session owns the journal buffer being edited. It decides when the
// buffer is loaded, saved and highlighted, and runs the commands bound to keys.
// A Session is driven from one goroutine, the host's update loop.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/index"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/markup"
	"github.com/vinayprograms/dayjot/internal/task"
	"github.com/vinayprograms/dayjot/internal/update"
)

// DefaultAutosaveDelay is how long an edit may stay unsaved.
const DefaultAutosaveDelay = 5 * time.Second

// SaveReason says what triggered a save.
type SaveReason int

const (
	SaveExplicit SaveReason = iota
	SaveAutosave
	SaveSwitch
	SaveQuit
)

func (r SaveReason) String() string {
	switch r {
	case SaveAutosave:
		return "autosave"
	case SaveSwitch:
		return "switch"
	case SaveQuit:
		return "quit"
	}
	return "save"
}

// Reporter receives failures on paths that carry on regardless.
type Reporter interface {
	Report(op string, err error)
}

// LogReporter reports through the standard logger.
type LogReporter struct{}

func (LogReporter) Report(op string, err error) {
	log.Printf("dayjot: %s: %v", op, err)
}

// Updater is the part of the update service the session talks to.
type Updater interface {
	State() update.State
	Apply() error
}

// Buffer is the resident day.
type Buffer struct {
	Day      day.ID
	Text     string
	Saved    bool
	LastEdit time.Time
	// Cursor is a byte offset into Text.
	Cursor int
	// unreadable is set when loading failed for a reason other than a
	// missing file, so the empty buffer must not be written back unedited.
	unreadable bool
}

// Effect tells the host what a call changed beyond the text it already shows.
type Effect struct {
	// Reload is set when the session replaced the text; the host should take
	// Text and Cursor from Buffer.
	Reload bool
	// Link is a hyperlink the user asked to open.
	Link string
}

// Status is what the host shows in its status bar.
type Status struct {
	Day      day.ID
	Path     string
	Saved    bool
	LastEdit time.Time
	LastSave time.Time
	// SeededFrom is the earlier day today's text was copied from at startup.
	SeededFrom day.ID
	Update     update.State
	Err        error
}

// Session is the composition root of the editor core.
type Session struct {
	store    *journal.Store
	hl       markup.Highlighter
	buf      Buffer
	days     index.Set
	keys     KeyMap
	now      func() time.Time
	delay    time.Duration
	reporter Reporter
	updater  Updater
	onSave   func(id day.ID, path string, reason SaveReason)

	seededFrom day.ID
	lastSave   time.Time
	lastErr    error
	// retryAt holds autosave back after a failed one; zero when none failed.
	retryAt time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithAutosaveDelay sets how long an edit may stay unsaved.
func WithAutosaveDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithReporter sets where best-effort failures go.
func WithReporter(r Reporter) Option {
	return func(s *Session) { s.reporter = r }
}

// WithUpdater attaches the update service.
func WithUpdater(u Updater) Option {
	return func(s *Session) { s.updater = u }
}

// WithKeyMap replaces the command bindings.
func WithKeyMap(k KeyMap) Option {
	return func(s *Session) { s.keys = k }
}

// WithOnSave registers a hook run after every successful save.
func WithOnSave(fn func(id day.ID, path string, reason SaveReason)) Option {
	return func(s *Session) { s.onSave = fn }
}

// New returns a session over store. Call Open before use.
func New(store *journal.Store, opts ...Option) *Session {
	s := &Session{
		store:    store,
		keys:     DefaultKeyMap(),
		now:      time.Now,
		delay:    DefaultAutosaveDelay,
		reporter: LogReporter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open makes today the resident buffer, seeding it from an earlier day when
// today has no file, and builds the index. Failures are reported, not returned.
func (s *Session) Open(ctx context.Context) {
	today := day.FromTime(s.now())
	res, err := s.store.Resolve(today)
	if err != nil {
		s.fail("open", err)
	}

	s.buf = Buffer{Day: today, Text: res.Text, Saved: true}
	if res.Seeded {
		s.seededFrom = res.From
		if !res.Persisted {
			// Copying into today failed; let autosave retry.
			s.buf.Saved = false
			s.buf.LastEdit = s.now()
		}
	}
	if err != nil && res.Persisted && !res.Seeded && journal.KindOf(err) != journal.NotFound {
		s.buf.unreadable = true
	}

	s.hl.Clear()
	s.rebuild(ctx)
}

// Buffer returns a copy of the resident buffer.
func (s *Session) Buffer() Buffer { return s.buf }

// Index returns the days found on disk at the last rebuild.
func (s *Session) Index() index.Set { return s.days }

// KeyMap returns the command bindings.
func (s *Session) KeyMap() KeyMap { return s.keys }

// SetCursor records the widget's cursor offset. It is not an edit and leaves
// the highlight cache alone.
func (s *Session) SetCursor(offset int) {
	s.buf.Cursor = offset
}

// Handle applies an input event. Every event may have changed what is on
// screen, so each one drops the cached highlighting.
func (s *Session) Handle(ev Event) Effect {
	s.hl.Clear()

	switch ev := ev.(type) {
	case ContentChanged:
		s.edit(ev.Text)
	case KeyPressed:
		switch {
		case key.Matches(ev, s.keys.Toggle):
			s.Toggle()
			return Effect{Reload: true}
		case key.Matches(ev, s.keys.Today):
			return s.Switch(day.FromTime(s.now()))
		case key.Matches(ev, s.keys.Save):
			s.Save()
		}
	case DoubleClickAt:
		if link, ok := markup.LinkAt(s.buf.Text, ev.Offset); ok {
			return Effect{Link: link}
		}
	}
	return Effect{}
}

func (s *Session) edit(text string) {
	if text == s.buf.Text {
		return
	}
	s.buf.Text = text
	s.buf.Saved = false
	s.buf.unreadable = false
	s.buf.LastEdit = s.now()
}

// Toggle cycles the task marker on the cursor's line.
func (s *Session) Toggle() {
	cursor := min(max(s.buf.Cursor, 0), len(s.buf.Text))
	out, e := task.Cycle(s.buf.Text, cursor)
	s.hl.Clear()
	s.edit(out)
	s.buf.Cursor = e.Shift(cursor)
}

// Tick autosaves once the last edit is older than the autosave delay. Hosts
// call it on every redraw.
func (s *Session) Tick(now time.Time) {
	if s.buf.Saved || s.buf.LastEdit.IsZero() {
		return
	}
	if now.Sub(s.buf.LastEdit) <= s.delay || now.Before(s.retryAt) {
		return
	}
	if err := s.save(SaveAutosave); err != nil {
		s.retryAt = now.Add(s.delay)
	}
}

// Save writes the buffer now, whatever its state.
func (s *Session) Save() error {
	return s.save(SaveExplicit)
}

// Close saves pending edits before the host exits.
func (s *Session) Close() error {
	if s.buf.Saved {
		return nil
	}
	return s.save(SaveQuit)
}

// Switch saves the resident buffer and makes id resident. A day without a file
// starts empty.
func (s *Session) Switch(id day.ID) Effect {
	s.switchOut()

	text, err := s.store.Load(id)
	s.buf = Buffer{Day: id, Text: text, Saved: true}
	if err != nil && journal.KindOf(err) != journal.NotFound {
		s.fail("switch", err)
		s.buf.unreadable = true
	}

	s.hl.Clear()
	s.rebuild(context.Background())
	return Effect{Reload: true}
}

func (s *Session) switchOut() {
	if s.buf.Day.IsZero() || s.buf.unreadable {
		return
	}
	// An empty day that was never written stays unwritten.
	if s.buf.Text == "" && !s.store.Has(s.buf.Day) {
		return
	}
	s.save(SaveSwitch)
}

func (s *Session) save(reason SaveReason) error {
	if s.buf.Day.IsZero() {
		return errors.New("no buffer open")
	}
	if err := s.store.Save(s.buf.Day, s.buf.Text); err != nil {
		s.fail(reason.String(), err)
		return err
	}

	s.buf.Saved = true
	s.buf.unreadable = false
	s.lastSave = s.now()
	s.lastErr = nil
	s.retryAt = time.Time{}
	if s.onSave != nil {
		s.onSave(s.buf.Day, s.store.PathFor(s.buf.Day), reason)
	}
	return nil
}

func (s *Session) fail(op string, err error) {
	s.lastErr = err
	if s.reporter != nil {
		s.reporter.Report(op, err)
	}
}

// Layout returns the highlighted text for the rendering layer.
func (s *Session) Layout(wrapWidth int) markup.Layout {
	return s.hl.Layout(s.buf.Text, wrapWidth)
}

// Highlighter exposes the span cache.
func (s *Session) Highlighter() *markup.Highlighter { return &s.hl }

// Status reports the state shown to the user.
func (s *Session) Status() Status {
	st := Status{
		Day:        s.buf.Day,
		Saved:      s.buf.Saved,
		LastEdit:   s.buf.LastEdit,
		LastSave:   s.lastSave,
		SeededFrom: s.seededFrom,
		Update:     update.Unavailable,
		Err:        s.lastErr,
	}
	if !s.buf.Day.IsZero() {
		st.Path = s.store.PathFor(s.buf.Day)
	}
	if s.updater != nil {
		st.Update = s.updater.State()
	}
	return st
}

// ApplyUpdate saves the buffer and swaps in the downloaded release. It refuses
// unless the update service has finished downloading.
func (s *Session) ApplyUpdate() error {
	if s.updater == nil || s.updater.State() != update.Downloaded {
		return update.ErrNotReady
	}
	if !s.buf.Saved {
		if err := s.save(SaveQuit); err != nil {
			return err
		}
	}
	return s.updater.Apply()
}

// StoreChanged handles a watcher event: the index is rebuilt and, when the
// resident day changed on disk while it has no pending edits, its text is
// reloaded.
func (s *Session) StoreChanged(ctx context.Context, ev journal.Event) Effect {
	s.rebuild(ctx)

	if !s.buf.Saved {
		return Effect{}
	}
	for _, id := range ev.Days {
		if id != s.buf.Day {
			continue
		}
		text, err := s.store.Load(id)
		if err != nil || text == s.buf.Text {
			return Effect{}
		}
		s.buf.Text = text
		if s.buf.Cursor > len(text) {
			s.buf.Cursor = len(text)
		}
		s.hl.Clear()
		return Effect{Reload: true}
	}
	return Effect{}
}

func (s *Session) rebuild(ctx context.Context) {
	s.days = index.Rebuild(ctx, s.store)
}
