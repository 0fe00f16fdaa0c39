package teaui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/livedex/pkg/app"
	"tableflip.dev/livedex/pkg/runner/tea/internal/theme"
	"tableflip.dev/livedex/pkg/slots"
)

const (
	columns   = 6
	cellWidth = 15
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeHelp
)

type namesMsg map[int]string

type errMsg struct{ err error }

// Model is the box browser state.
type Model struct {
	tracker *app.Tracker
	ctx     context.Context
	theme   theme.Theme
	offline bool

	mode   mode
	boxes  []slots.Box
	box    int
	cursor int
	names  map[int]string

	input textinput.Model
	query string
	hits  []slots.Cell
	hit   int

	status string

	termWidth  int
	termHeight int
}

// New creates a browser over an opened tracker. With offline set only
// cached names are shown.
func New(t *app.Tracker, offline bool) Model {
	ti := textinput.New()
	ti.Placeholder = "name or number"
	ti.CharLimit = 64
	ti.Prompt = ""

	m := Model{
		tracker: t,
		ctx:     context.Background(),
		theme:   theme.Default(),
		offline: offline,
		input:   ti,
		status:  "←/→/↑/↓ move, space toggle, b box, [/] boxes, / search, ? help, q quit",
	}
	if t != nil {
		m.boxes = t.Layout().Boxes()
		m.names = t.CachedNames()
	}
	return m
}

// Init starts name hydration unless running offline.
func (m Model) Init() tea.Cmd {
	if m.offline || m.tracker == nil {
		return nil
	}
	t, ctx := m.tracker, m.ctx
	return func() tea.Msg {
		return namesMsg(t.Names(ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case namesMsg:
		m.names = msg
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
			}
		case modeSearch:
			switch msg.String() {
			case "enter":
				m.search(strings.TrimSpace(m.input.Value()))
				m.mode = modeNormal
				m.input.Reset()
				m.input.Blur()
			case "esc":
				m.mode = modeNormal
				m.input.Reset()
				m.input.Blur()
				m.status = "Search cancelled"
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		default:
			cmds = append(cmds, m.handleKey(msg.String()))
		}
	}
	return m, tea.Batch(cmds...)
}

// handleKey applies one key in normal mode.
func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "left", "h":
		m.move(-1)
	case "right", "l":
		m.move(1)
	case "up", "k":
		m.move(-columns)
	case "down", "j":
		m.move(columns)
	case "]", "pgdown", "tab":
		m.selectBox(m.box + 1)
	case "[", "pgup", "shift+tab":
		m.selectBox(m.box - 1)
	case "g", "home":
		m.selectBox(0)
	case "G", "end":
		m.selectBox(len(m.boxes) - 1)
	case "space", " ", "enter", "x":
		m.toggleCurrent()
	case "b":
		m.toggleBox()
	case "n":
		m.nextHit(1)
	case "N":
		m.nextHit(-1)
	case "r":
		m.tracker.Reload()
		m.status = "Reloaded progress"
	case "/":
		m.mode = modeSearch
		m.input.Reset()
		m.status = "SEARCH: enter to jump, esc to cancel"
		return tea.Batch(m.input.Focus(), textinput.Blink)
	case "?":
		m.mode = modeHelp
	}
	return nil
}

func (m *Model) current() (slots.Box, bool) {
	if m.box < 0 || m.box >= len(m.boxes) {
		return slots.Box{}, false
	}
	return m.boxes[m.box], true
}

// move shifts the cursor within the real cells of the current box.
func (m *Model) move(delta int) {
	b, ok := m.current()
	if !ok {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= b.Filled() {
		return
	}
	m.cursor = next
}

func (m *Model) selectBox(i int) {
	if i < 0 || i >= len(m.boxes) {
		return
	}
	m.box = i
	if filled := m.boxes[i].Filled(); m.cursor >= filled {
		m.cursor = filled - 1
	}
}

// jumpTo moves the cursor onto slot.
func (m *Model) jumpTo(slot int) bool {
	for i, b := range m.boxes {
		if slot >= b.FirstSlot && slot <= b.LastSlot {
			m.box = i
			m.cursor = slot - b.FirstSlot
			return true
		}
	}
	return false
}

func (m *Model) toggleCurrent() {
	b, ok := m.current()
	if !ok {
		return
	}
	c := b.Cells[m.cursor]
	if c.Placeholder {
		return
	}
	now, err := m.tracker.Toggle(c.Slot)
	if err != nil {
		m.status = "ERR: " + err.Error()
		return
	}
	state := "uncaught"
	if now {
		state = "caught"
	}
	m.status = fmt.Sprintf("#%s %s %s", c.Display, slots.DisplayName(m.names, c.SpeciesID), state)
}

func (m *Model) toggleBox() {
	now, err := m.tracker.ToggleBox(m.box)
	if err != nil {
		m.status = "ERR: " + err.Error()
		return
	}
	verb := "cleared"
	if now {
		verb = "caught"
	}
	m.status = fmt.Sprintf("Box %d %s", m.box+1, verb)
}

func (m *Model) search(query string) {
	m.query = query
	m.hits = nil
	m.hit = 0
	if query == "" {
		m.status = "Search cleared"
		return
	}
	m.hits = m.tracker.Search(query)
	if len(m.hits) == 0 {
		m.status = fmt.Sprintf("No match for %q", query)
		return
	}
	m.jumpTo(m.hits[0].Slot)
	m.status = fmt.Sprintf("%d match(es) for %q, n/N to cycle", len(m.hits), query)
}

func (m *Model) nextHit(step int) {
	if len(m.hits) == 0 {
		return
	}
	m.hit = (m.hit + step + len(m.hits)) % len(m.hits)
	m.jumpTo(m.hits[m.hit].Slot)
	m.status = fmt.Sprintf("Match %d of %d for %q", m.hit+1, len(m.hits), m.query)
}

func (m Model) isHit(slot int) bool {
	for _, h := range m.hits {
		if h.Slot == slot {
			return true
		}
	}
	return false
}

// View renders the progress header, the current box, and the footer.
func (m Model) View() string {
	th := m.theme
	if m.tracker == nil {
		return "no game loaded\n"
	}
	var body strings.Builder
	body.WriteString(th.Grid.Title.Render(m.tracker.Game.Title))
	body.WriteString("  " + m.tracker.Progress().String() + "\n\n")

	b, ok := m.current()
	if !ok {
		body.WriteString("Nothing to show, every segment is empty.\n")
		return body.String()
	}
	st := m.tracker.State()
	header := fmt.Sprintf("Box %d/%d  %s", b.Index+1, len(m.boxes), b.Label)
	body.WriteString(th.Grid.Label.Render(header))
	body.WriteString(th.Footer.Status.Render(fmt.Sprintf("  %d/%d", b.CaughtCount(st), b.Filled())) + "\n")

	rows := make([]string, 0, len(b.Cells)/columns+1)
	var row []string
	for i, c := range b.Cells {
		row = append(row, m.renderCell(c, i == m.cursor, st[c.Slot]))
		if len(row) == columns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	body.WriteString(th.Grid.Frame.Render(strings.Join(rows, "\n")) + "\n")

	if c := b.Cells[m.cursor]; !c.Placeholder {
		state := "not caught"
		if st[c.Slot] {
			state = "caught"
		}
		detail := fmt.Sprintf("#%s %s  slot %d  species %d  %s  %s",
			c.Display, slots.DisplayName(m.names, c.SpeciesID), c.Slot, c.SpeciesID, b.Title, state)
		body.WriteString(th.Footer.Detail.Render(detail) + "\n")
	}

	switch m.mode {
	case modeSearch:
		body.WriteString("\n" + th.Footer.Prompt.Render("/") + m.input.View() + "\n")
	case modeHelp:
		help := "Keys: ←/→/↑/↓ or h/l/k/j move, [/] or pgup/pgdown change box, g/G first/last box, " +
			"space or x toggle slot, b catch or clear the box, / search, n/N next/previous match, r reload, q quit"
		body.WriteString("\n" + th.Footer.Help.Italic(true).Render(help) + "\n")
	}

	body.WriteString("\n" + th.Footer.Status.Render(m.status))
	return body.String()
}

func (m Model) renderCell(c slots.Cell, selected, isCaught bool) string {
	g := m.theme.Grid
	var text string
	style := g.Missing
	switch {
	case c.Placeholder:
		text = "  —"
		style = g.Placeholder
	default:
		mark := "○"
		if isCaught {
			mark = "●"
			style = g.Caught
		}
		text = fmt.Sprintf("%s %s %s", mark, c.Display, slots.DisplayName(m.names, c.SpeciesID))
		if m.isHit(c.Slot) {
			style = style.Inherit(g.Match)
		}
	}
	text = padding.String(truncate.StringWithTail(text, cellWidth-1, "…"), cellWidth-1)
	if selected {
		style = style.Inherit(g.Cursor)
	}
	return style.Render(text) + " "
}

// Run opens the browser full screen until the user quits.
func Run(t *app.Tracker, offline bool) error {
	p := tea.NewProgram(New(t, offline), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
