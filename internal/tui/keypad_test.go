package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keypad-calc/internal/engine"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m tea.Model, msgs ...tea.Msg) tea.Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestKeypadEvaluates(t *testing.T) {
	calc := engine.New()
	m := send(t, New(calc), runes("2"), runes("+"), runes("3"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "5", calc.DisplayText())
	assert.Equal(t, "2 + 3 =", calc.HistoryText())

	view := m.View()
	assert.Contains(t, view, "2 + 3 =")
	assert.Contains(t, view, "5")
}

func TestKeypadEditingKeys(t *testing.T) {
	calc := engine.New()
	send(t, New(calc),
		runes("1"), runes("2"), runes("5"),
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("n"),
		runes("%"),
	)

	assert.Equal(t, "−0.12", calc.DisplayText())

	send(t, New(calc), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "0", calc.DisplayText())
}

func TestKeypadIgnoresUnknownKeys(t *testing.T) {
	calc := engine.New()
	send(t, New(calc), runes("7"), runes("z"), tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, "7", calc.DisplayText())
}

func TestKeypadShowsError(t *testing.T) {
	calc := engine.New()
	m := send(t, New(calc), runes("8"), runes("/"), runes("0"), runes("="))

	require.Equal(t, engine.ModeError, calc.Mode())
	assert.Contains(t, m.View(), engine.ErrorText)
}

func TestKeypadQuit(t *testing.T) {
	m, cmd := New(engine.New()).Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
