package term

import (
	"testing"

	"github.com/gdamore/tcell"
	"github.com/mnafees/c8vm/internal"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	assert.NoError(t, sim.Init())
	sim.SetSize(80, 25)
	t.Cleanup(sim.Fini)
	return newScreen(log.NewTestLogger(t), sim), sim
}

func TestKeymap(t *testing.T) {
	tests := []struct {
		r    rune
		want int8
	}{
		{'1', 0x1},
		{'4', 0xC},
		{'q', 0x4},
		{'Q', 0x4},
		{'x', 0x0},
		{'V', 0xF},
		{'p', -1},
		{' ', -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keymap(tt.r), "rune %q", tt.r)
	}
}

func TestCellRune(t *testing.T) {
	assert.Equal(t, '█', cellRune(true, true))
	assert.Equal(t, '▀', cellRune(true, false))
	assert.Equal(t, '▄', cellRune(false, true))
	assert.Equal(t, ' ', cellRune(false, false))
}

func TestPollInputHoldsKeys(t *testing.T) {
	s, _ := newTestScreen(t)
	s.holdPolls = 2
	var keys internal.Keyboard

	s.events <- tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)
	assert.False(t, s.PollInput(&keys))
	assert.True(t, keys.IsPressed(0x5))

	assert.False(t, s.PollInput(&keys))
	assert.True(t, keys.IsPressed(0x5))

	assert.False(t, s.PollInput(&keys))
	assert.False(t, keys.IsPressed(0x5))
}

func TestPollInputQuit(t *testing.T) {
	s, _ := newTestScreen(t)
	var keys internal.Keyboard

	s.events <- tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	assert.True(t, s.PollInput(&keys))

	s.events <- tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	assert.True(t, s.PollInput(&keys))
}

func TestRender(t *testing.T) {
	s, sim := newTestScreen(t)

	var frame internal.Frame
	frame[0] = true                      // (0, 0)
	frame[internal.ScreenWidth+1] = true // (1, 1)
	frame[2] = true                      // (2, 0)
	frame[internal.ScreenWidth+2] = true // (2, 1)
	s.Render(frame)

	cells, width, _ := sim.GetContents()
	assert.Equal(t, '▀', cells[0].Runes[0])
	assert.Equal(t, '▄', cells[1].Runes[0])
	assert.Equal(t, '█', cells[2].Runes[0])
	assert.Equal(t, ' ', cells[3].Runes[0])

	s.Audio(internal.AudioPlay)
	cells, _, _ = sim.GetContents()
	status := internal.ScreenHeight / 2 * width
	assert.Equal(t, 'B', cells[status].Runes[0])

	s.Audio(internal.AudioStop)
	cells, _, _ = sim.GetContents()
	assert.Equal(t, ' ', cells[status].Runes[0])
}
