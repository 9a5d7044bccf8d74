package modal

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ActionOpen signals a diagram was chosen.
type ActionOpen struct{ Path string }

// Item is a single entry in the list.
type Item struct {
	Path   string
	Detail string
}

// SearchFunc is called with the current query to produce results.
type SearchFunc func(query string) []Item

const debounceDelay = 150 * time.Millisecond

// debounceMsg is sent after the debounce timer fires.
type debounceMsg struct{ seq int }

// Picker is a query input above a list of matching diagrams.
type Picker struct {
	input    []rune
	cursor   int
	items    []Item
	selected int
	inList   bool // true = list focused, false = input focused

	searchFn SearchFunc
	seq      int // debounce sequence counter

	colors Colors

	// Title shown above the input.
	Title string
}

// NewPicker creates a picker populated with the results for an empty query.
func NewPicker(searchFn SearchFunc, title string, colors Colors) Picker {
	return Picker{
		searchFn: searchFn,
		items:    searchFn(""),
		Title:    title,
		colors:   colors,
	}
}

// Query returns the text typed so far.
func (m *Picker) Query() string { return string(m.input) }

// Items returns the current results.
func (m *Picker) Items() []Item { return m.items }

func (m *Picker) debounceCmd() tea.Cmd {
	seq := m.seq
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// HandleMsg processes a tea.Msg and returns an optional Action.
// The second return is a tea.Cmd the parent must dispatch (for debounce).
func (m *Picker) HandleMsg(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case debounceMsg:
		if msg.seq == m.seq {
			m.items = m.searchFn(string(m.input))
			m.selected = 0
			m.inList = false
		}
	}
	return nil, nil
}

func (m *Picker) handleKey(msg tea.KeyPressMsg) (Action, tea.Cmd) {
	switch msg.Keystroke() {
	case "esc", "ctrl+o":
		return ActionClose{}, nil
	case "enter":
		if len(m.items) == 0 {
			return nil, nil
		}
		return ActionOpen{Path: m.items[min(m.selected, len(m.items)-1)].Path}, nil
	case "up":
		switch {
		case m.inList && m.selected > 0:
			m.selected--
		case m.inList:
			m.inList = false
		}
		return nil, nil
	case "down", "tab":
		switch {
		case !m.inList && len(m.items) > 0:
			m.inList = true
			m.selected = 0
		case m.inList && m.selected < len(m.items)-1:
			m.selected++
		}
		return nil, nil
	case "left":
		if !m.inList && m.cursor > 0 {
			m.cursor--
		}
		return nil, nil
	case "right":
		if !m.inList && m.cursor < len(m.input) {
			m.cursor++
		}
		return nil, nil
	case "backspace":
		if m.inList || m.cursor == 0 {
			return nil, nil
		}
		m.input = append(m.input[:m.cursor-1], m.input[m.cursor:]...)
		m.cursor--
		return nil, m.changed()
	case "ctrl+u":
		m.input = m.input[m.cursor:]
		m.cursor = 0
		return nil, m.changed()
	}

	if m.inList || msg.Text == "" || msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return nil, nil
	}
	for _, r := range msg.Text {
		m.input = append(m.input[:m.cursor], append([]rune{r}, m.input[m.cursor:]...)...)
		m.cursor++
	}
	return nil, m.changed()
}

func (m *Picker) changed() tea.Cmd {
	m.seq++
	return m.debounceCmd()
}

// View renders the picker at the given app width and height.
func (m *Picker) View(appWidth, appHeight int) string {
	w, h, innerW := frameSize(appWidth, appHeight)

	bg := lipgloss.Color(m.colors.Bg)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Dim)).Background(bg)
	titleStyle := lipgloss.NewStyle().Bold(true).Background(bg)

	count := dimStyle.Render(fmt.Sprintf("%d found", len(m.items)))
	title := truncate(m.Title, innerW-lipgloss.Width(count)-1)
	head := padRight(titleStyle.Render(title), innerW-lipgloss.Width(count)) + count

	listHeight := h - 5 // border (2) + title + input + divider
	if listHeight < 1 {
		listHeight = 1
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteByte('\n')
	b.WriteString(m.renderInput(innerW))
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))
	for _, l := range m.renderList(innerW, listHeight) {
		b.WriteByte('\n')
		b.WriteString(l)
	}
	return frame(m.colors, appWidth, appHeight, w, b.String())
}

func (m *Picker) renderInput(innerW int) string {
	const prompt = "> "
	if m.inList {
		return padRight(truncate(prompt+string(m.input), innerW), innerW)
	}
	before := string(m.input[:m.cursor])
	cursorChar, after := " ", ""
	if m.cursor < len(m.input) {
		cursorChar = string(m.input[m.cursor])
		after = string(m.input[m.cursor+1:])
	}
	line := prompt + before + lipgloss.NewStyle().Reverse(true).Render(cursorChar) + after
	return padRight(line, innerW)
}

func (m *Picker) renderList(innerW, listHeight int) []string {
	scrollOff := 0
	if m.selected >= listHeight {
		scrollOff = m.selected - listHeight + 1
	}

	bg := lipgloss.Color(m.colors.Bg)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colors.Dim)).Background(bg)
	selStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.colors.SelFg)).
		Background(lipgloss.Color(m.colors.SelBg))

	var lines []string
	if len(m.items) == 0 {
		lines = append(lines, padRight(dimStyle.Render("No diagrams found"), innerW))
	}
	for i := scrollOff; i < len(m.items) && len(lines) < listHeight; i++ {
		item := m.items[i]
		if i == m.selected && m.inList {
			lines = append(lines, selStyle.Render(padRight(truncate(item.Path, innerW), innerW)))
			continue
		}
		line := truncate(item.Path, innerW)
		if item.Detail != "" && lipgloss.Width(line)+2 < innerW {
			line += dimStyle.Render(truncate("  "+item.Detail, innerW-lipgloss.Width(line)))
		}
		lines = append(lines, padRight(line, innerW))
	}

	for len(lines) < listHeight {
		lines = append(lines, strings.Repeat(" ", innerW))
	}
	return lines
}
