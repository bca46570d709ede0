package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m LabelPicker, keys ...string) (LabelPicker, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(LabelPicker)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestLabelPickerSelect(t *testing.T) {
	m := NewLabelPicker([]string{"a", "b", "c", "d"})

	m, cmd := press(t, m, "down", "x", "j", "x", "enter")
	assert.True(t, m.Confirmed)
	assert.True(t, isQuit(cmd))
	assert.Equal(t, []string{"b", "c"}, m.Selected())
}

func TestLabelPickerToggleOff(t *testing.T) {
	m := NewLabelPicker([]string{"a", "b"})
	m, _ = press(t, m, "x", "x")
	assert.Empty(t, m.Selected())
}

func TestLabelPickerEnterNeedsSelection(t *testing.T) {
	m := NewLabelPicker([]string{"a", "b"})
	m, cmd := press(t, m, "enter")
	assert.False(t, m.Confirmed)
	assert.Nil(t, cmd)
}

func TestLabelPickerAll(t *testing.T) {
	m := NewLabelPicker([]string{"a", "b", "c"})

	m, _ = press(t, m, "x", "a")
	assert.Equal(t, []string{"a", "b", "c"}, m.Selected())

	m, _ = press(t, m, "a")
	assert.Empty(t, m.Selected())
}

func TestLabelPickerQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m := NewLabelPicker([]string{"a"})
		m, cmd := press(t, m, "x", k)
		assert.False(t, m.Confirmed, k)
		assert.True(t, isQuit(cmd), k)
	}
}

func TestLabelPickerCursorBounds(t *testing.T) {
	m := NewLabelPicker([]string{"a", "b"})
	m, _ = press(t, m, "up", "k")
	assert.Equal(t, 0, m.Cursor)
	m, _ = press(t, m, "down", "down", "down")
	assert.Equal(t, 1, m.Cursor)
}

func TestLabelPickerScroll(t *testing.T) {
	labels := make([]string, 20)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	m := NewLabelPicker(labels)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(LabelPicker)
	assert.Equal(t, 5, m.Height)

	for range 7 {
		m, _ = press(t, m, "down")
	}
	assert.Equal(t, 7, m.Cursor)
	assert.Equal(t, 3, m.Offset)

	view := m.View()
	assert.Contains(t, view, "Select Labels")
	assert.Contains(t, view, "[8/20]")
}

func TestLabelPickerUpdateIsPure(t *testing.T) {
	before := NewLabelPicker([]string{"a", "b"})
	after, _ := press(t, before, "x")
	assert.Empty(t, before.Selected())
	assert.Equal(t, []string{"a"}, after.Selected())
}

func TestLabelPickerView(t *testing.T) {
	m := NewLabelPicker([]string{"alpha", "beta"})
	m, _ = press(t, m, "x")
	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "1 selected")
}
