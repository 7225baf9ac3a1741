// Package tui is a terminal keypad over the calculator engine.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keypad-calc/internal/engine"
)

type keyMap struct {
	Equals    key.Binding
	Backspace key.Binding
	Clear     key.Binding
	Sign      key.Binding
	Percent   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Equals:    key.NewBinding(key.WithKeys("enter", "="), key.WithHelp("enter", "equals")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Clear:     key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "clear")),
		Sign:      key.NewBinding(key.WithKeys("n", "s"), key.WithHelp("n", "±")),
		Percent:   key.NewBinding(key.WithKeys("%"), key.WithHelp("%", "percent")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Equals, k.Backspace, k.Clear, k.Sign, k.Percent, k.Quit}
}

var (
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	displayStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model drives one Calculator from keyboard input.
type Model struct {
	calc     *engine.Calculator
	keys     keyMap
	width    int
	quitting bool
}

func New(calc *engine.Calculator) Model {
	return Model{calc: calc, keys: defaultKeyMap(), width: 32}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			m.width = min(msg.Width-4, 48)
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Equals):
			m.calc.PressEquals()
		case key.Matches(msg, m.keys.Backspace):
			m.calc.PressBackspace()
		case key.Matches(msg, m.keys.Clear):
			m.calc.PressClear()
		case key.Matches(msg, m.keys.Sign):
			m.calc.PressSign()
		case key.Matches(msg, m.keys.Percent):
			m.calc.PressPercent()
		default:
			// Digits, '.', and operators go through the engine's key names.
			if k, err := engine.ParseKey(msg.String()); err == nil {
				m.calc.Press(k)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	right := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right)

	display := displayStyle.Render(m.calc.DisplayText())
	if m.calc.Mode() == engine.ModeError {
		display = errorStyle.Render(m.calc.DisplayText())
	}

	body := lipgloss.JoinVertical(lipgloss.Right,
		right.Render(historyStyle.Render(m.calc.HistoryText())),
		right.Render(display),
	)

	help := make([]string, 0, len(m.keys.bindings()))
	for _, b := range m.keys.bindings() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return frameStyle.Render(body) + "\n" + helpStyle.Render(strings.Join(help, " • ")) + "\n"
}

// Run starts the keypad on the terminal and blocks until the user quits.
func Run(calc *engine.Calculator) error {
	_, err := tea.NewProgram(New(calc)).Run()
	return err
}
