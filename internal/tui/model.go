// Package tui is the terminal host of the journal editor. It owns the screen:
// the day tree, the highlighted editor pane and the status line. Editing keys
// go to a textarea; everything else is decided by the session.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/journal"
	"github.com/vinayprograms/dayjot/internal/markup"
	"github.com/vinayprograms/dayjot/internal/session"
	"github.com/vinayprograms/dayjot/internal/update"
)

// doubleClickWindow is the longest gap between two presses on the same cell
// that still counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

// Config wires the model to its collaborators. Only the session is required.
type Config struct {
	// Events are store changes from journal.Store.Watch.
	Events <-chan journal.Event
	// Updates is the update service's state cell.
	Updates *update.Cell
	Theme   Theme
	// Open opens a hyperlink; OpenURL when nil.
	Open func(url string) error
	// Now replaces time.Now for click timing and autosave ticks.
	Now func() time.Time
}

type tickMsg time.Time

type storeMsg journal.Event

type updateMsg update.State

type click struct {
	at   time.Time
	x, y int
}

// Model is the Bubble Tea model of the editor.
type Model struct {
	ctx     context.Context
	session *session.Session
	keys    KeyMap
	help    help.Model
	editor  textarea.Model
	theme   Theme
	events  <-chan journal.Event
	updates *update.Cell
	open    func(string) error
	now     func() time.Time

	// view is the buffer as loaded into the textarea; cursor positions and
	// edits go through it back to the buffer.
	view projection
	tree []treeEntry

	width, height int
	top           int
	lastClick     click
	message       string
	updateState   update.State
	relaunch      bool
	quitting      bool
}

// New builds the model over an opened session.
func New(ctx context.Context, s *session.Session, cfg Config) Model {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	// The pane draws its own cursor.
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.Focus()

	m := Model{
		ctx:     ctx,
		session: s,
		keys:    DefaultKeyMap(s.KeyMap()),
		help:    help.New(),
		editor:  ta,
		theme:   cfg.Theme,
		events:  cfg.Events,
		updates: cfg.Updates,
		open:    cfg.Open,
		now:     cfg.Now,
	}
	if m.open == nil {
		m.open = OpenURL
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.theme.Markup == (markup.Theme{}) {
		m.theme = DefaultTheme()
	}
	if m.updates != nil {
		m.setUpdateState(m.updates.State())
	}

	m.load()
	m.tree = treeEntries(s.Index())
	return m
}

// Relaunch reports whether the user quit to restart into a downloaded update.
func (m Model) Relaunch() bool { return m.relaunch }

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForStoreChange(m.events), m.waitForUpdate())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForStoreChange(events <-chan journal.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return storeMsg(ev)
	}
}

func (m Model) waitForUpdate() tea.Cmd {
	if m.updates == nil || update.Settled(m.updateState) {
		return nil
	}
	cell, ctx, last := m.updates, m.ctx, m.updateState
	return func() tea.Msg {
		st, err := cell.Wait(ctx, func(s update.State) bool { return s != last })
		if err != nil {
			return nil
		}
		return updateMsg(st)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(m.editorWidth())
		m.editor.SetHeight(m.editorHeight())
		m.scroll()
		return m, nil

	case tickMsg:
		m.session.Tick(m.now())
		return m, tick()

	case storeMsg:
		eff := m.session.StoreChanged(m.ctx, journal.Event(msg))
		m.tree = treeEntries(m.session.Index())
		cmd := m.apply(eff)
		return m, tea.Batch(cmd, waitForStoreChange(m.events))

	case updateMsg:
		m.setUpdateState(update.State(msg))
		return m, m.waitForUpdate()

	case openedMsg:
		if msg.err != nil {
			log.Printf("dayjot: open %s: %v", msg.url, msg.err)
			m.message = fmt.Sprintf("could not open %s", msg.url)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) setUpdateState(st update.State) {
	m.updateState = st
	m.keys.ApplyUpdate.SetEnabled(st == update.Downloaded)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.session.Close(); err != nil {
			log.Printf("dayjot: save on quit: %v", err)
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.ApplyUpdate):
		m.syncCursor()
		if err := m.session.ApplyUpdate(); err != nil {
			m.message = fmt.Sprintf("update: %v", err)
			return m, nil
		}
		m.relaunch = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.OpenLink):
		m.syncCursor()
		buf := m.session.Buffer()
		if link, ok := markup.LinkAt(buf.Text, buf.Cursor); ok {
			return m, openCmd(m.open, link)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDay, m.keys.NextDay):
		dir := 1
		if key.Matches(msg, m.keys.PrevDay) {
			dir = -1
		}
		if id, ok := neighbour(m.session.Index(), m.session.Buffer().Day, dir); ok {
			return m, m.switchTo(id)
		}
		return m, nil
	}

	// Every key may change the text, so every key reaches the session.
	m.syncCursor()
	eff := m.session.Handle(session.ParseKey(msg.String()))
	if key.Matches(msg, m.keys.Toggle, m.keys.Today, m.keys.Save) {
		cmd := m.apply(eff)
		if key.Matches(msg, m.keys.Today) {
			m.tree = treeEntries(m.session.Index())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if value := m.editor.Value(); value != m.view.shown {
		text := m.view.splice(m.session.Buffer().Text, value)
		m.session.Handle(session.ContentChanged{Text: text})
		m.view = project(text)
		if m.view.shown != value {
			// The edit joined a CR with a newline; reload around the cursor.
			at := m.shownCursor(value)
			m.editor.SetValue(m.view.shown)
			m.moveShown(min(at, len(m.view.shown)))
		}
	}
	m.syncCursor()
	m.scroll()
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.top = max(m.top-3, 0)
		return m, nil
	case tea.MouseButtonWheelDown:
		rows := layoutRows(m.session.Buffer().Text, m.editorWidth())
		m.top = min(m.top+3, max(len(rows)-m.editorHeight(), 0))
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	if msg.Y >= m.editorHeight() {
		return m, nil
	}

	if msg.X < treeWidth {
		top := treeTop(m.tree, m.session.Buffer().Day, m.editorHeight())
		if i := top + msg.Y; i < len(m.tree) && !m.tree[i].day.IsZero() {
			return m, m.switchTo(m.tree[i].day)
		}
		return m, nil
	}

	x := msg.X - treeWidth - 1
	if x < 0 {
		return m, nil
	}
	text := m.session.Buffer().Text
	rows := layoutRows(text, m.editorWidth())
	vrow := m.top + msg.Y
	if vrow >= len(rows) {
		vrow = len(rows) - 1
	}
	offset := offsetAtCell(text, rows[vrow], x)

	now := m.now()
	double := m.lastClick.x == msg.X && m.lastClick.y == msg.Y &&
		!m.lastClick.at.IsZero() && now.Sub(m.lastClick.at) <= doubleClickWindow
	m.lastClick = click{at: now, x: msg.X, y: msg.Y}

	m.session.SetCursor(offset)
	m.moveCursor(offset)
	if !double {
		return m, nil
	}
	m.lastClick = click{}
	return m, m.apply(m.session.Handle(session.DoubleClickAt{Offset: offset}))
}

func (m *Model) switchTo(id day.ID) tea.Cmd {
	m.syncCursor()
	cmd := m.apply(m.session.Switch(id))
	m.tree = treeEntries(m.session.Index())
	return cmd
}

// apply carries out what a session call asks of the host.
func (m *Model) apply(eff session.Effect) tea.Cmd {
	if eff.Reload {
		m.load()
	}
	if eff.Link != "" {
		return openCmd(m.open, eff.Link)
	}
	return nil
}

// load puts the session buffer into the textarea and restores its cursor.
func (m *Model) load() {
	buf := m.session.Buffer()
	m.view = project(buf.Text)
	m.editor.SetValue(m.view.shown)
	if got := m.editor.Value(); got != m.view.shown {
		log.Printf("dayjot: textarea altered %s on load", buf.Day)
		m.view = opaque(got, len(buf.Text))
	}
	m.moveCursor(buf.Cursor)
	m.syncCursor()
	m.scroll()
}

// syncCursor tells the session where the textarea cursor is.
func (m *Model) syncCursor() {
	m.session.SetCursor(m.view.toText(m.shownCursor(m.view.shown)))
}

// shownCursor is the textarea cursor as a byte offset into value.
func (m *Model) shownCursor(value string) int {
	info := m.editor.LineInfo()
	return offsetOf(value, m.editor.Line(), info.StartColumn+info.ColumnOffset)
}

// moveCursor walks the textarea cursor to a buffer offset.
func (m *Model) moveCursor(offset int) {
	m.moveShown(m.view.toShown(offset))
}

// moveShown walks the textarea cursor to an offset into its text. The
// textarea only moves by rows, so it steps until it reaches the right line.
func (m *Model) moveShown(d int) {
	line, col := lineCol(m.view.shown, d)
	for i := 0; m.editor.Line() > line && i <= len(m.view.shown); i++ {
		m.editor.CursorUp()
	}
	for i := 0; m.editor.Line() < line && i <= len(m.view.shown); i++ {
		m.editor.CursorDown()
	}
	m.editor.SetCursor(col)
}

// scroll keeps the cursor row inside the editor pane.
func (m *Model) scroll() {
	buf := m.session.Buffer()
	rows := layoutRows(buf.Text, m.editorWidth())
	cur := rowOf(rows, buf.Cursor)
	h := max(m.editorHeight(), 1)
	if cur < m.top {
		m.top = cur
	}
	if cur >= m.top+h {
		m.top = cur - h + 1
	}
	m.top = min(max(m.top, 0), max(len(rows)-1, 0))
}

func (m Model) editorWidth() int {
	return max(m.width-treeWidth-1, 10)
}

// editorHeight leaves a row each for the status and help lines.
func (m Model) editorHeight() int {
	return max(m.height-2, 1)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	h := m.editorHeight()
	sep := lipgloss.NewStyle().Foreground(m.theme.Tree).Render(strings.Repeat("│\n", h-1) + "│")
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewTree(h), sep, m.viewEditor(h))

	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus(), m.help.View(m.keys))
}

func (m Model) viewTree(h int) string {
	resident := m.session.Buffer().Day
	top := treeTop(m.tree, resident, h)

	normal := lipgloss.NewStyle().Foreground(m.theme.Tree)
	selected := lipgloss.NewStyle().Foreground(m.theme.Selected).Bold(true)

	lines := make([]string, 0, h)
	for i := top; i < len(m.tree) && len(lines) < h; i++ {
		e := m.tree[i]
		if !e.day.IsZero() && e.day == resident {
			lines = append(lines, selected.Render(e.label))
			continue
		}
		lines = append(lines, normal.Render(e.label))
	}
	return lipgloss.NewStyle().Width(treeWidth).Height(h).MaxHeight(h).Render(strings.Join(lines, "\n"))
}

func (m Model) viewEditor(h int) string {
	w := m.editorWidth()
	layout := m.session.Layout(w)
	cursor := m.session.Buffer().Cursor
	rows := layoutRows(layout.Text, w)
	cur := rowOf(rows, cursor)

	var b strings.Builder
	for i := m.top; i < len(rows) && i < m.top+h; i++ {
		if i > m.top {
			b.WriteByte('\n')
		}
		c := -1
		if i == cur {
			c = cursor
		}
		renderRow(&b, layout.Text, layout.Spans, rows[i], c, m.theme.Markup)
	}
	return lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h).Render(b.String())
}

func (m Model) viewStatus() string {
	st := m.session.Status()
	parts := []string{st.Day.String()}

	if st.Saved {
		saved := "saved"
		if !st.LastSave.IsZero() {
			saved += " " + humanize.Time(st.LastSave)
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Saved).Render(saved))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Unsaved).Render("unsaved"))
	}

	if !st.SeededFrom.IsZero() && st.Day == day.FromTime(m.now()) {
		parts = append(parts, "copied from "+st.SeededFrom.String())
	}

	switch st.Update {
	case update.UpdateAvailable, update.Downloading:
		parts = append(parts, "update "+st.Update.String())
	case update.Downloaded:
		parts = append(parts, "update ready, ctrl+r restarts")
	}

	if st.Err != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Unsaved).Render("error: "+st.Err.Error()))
	}
	if m.message != "" {
		parts = append(parts, m.message)
	}

	return xansi.Truncate(strings.Join(parts, "  ·  "), m.width, "…")
}
