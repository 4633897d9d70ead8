// Package term implements a terminal frontend. Two display rows share one character
// cell using half block characters.
package term

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell"
	"github.com/mnafees/c8vm/internal"
	"github.com/retroenv/retrogolib/log"
)

// Terminals only report key presses, a key counts as held for this many polls after
// its last press event. Key repeat keeps a held key alive.
const defaultHoldPolls = 8

var (
	pixelStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Screen renders the VM into a terminal and reads the keypad from it.
type Screen struct {
	logger *log.Logger
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	holdPolls int
	held      [internal.KeyCount]int // remaining polls per key
	playing   bool
}

// NewScreen takes over the terminal.
func NewScreen(logger *log.Logger) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	s := newScreen(logger, screen)
	go s.pollEvents()
	return s, nil
}

func newScreen(logger *log.Logger, screen tcell.Screen) *Screen {
	return &Screen{
		logger:    logger,
		screen:    screen,
		events:    make(chan tcell.Event, 64),
		done:      make(chan struct{}),
		holdPolls: defaultHoldPolls,
	}
}

// pollEvents forwards terminal events until the screen is finalized.
func (s *Screen) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Destroy restores the terminal.
func (s *Screen) Destroy() {
	close(s.done)
	s.screen.Fini()
}

// PollInput drains pending terminal events and reports whether Escape or Ctrl+C was pressed.
func (s *Screen) PollInput(keys *internal.Keyboard) bool {
drain:
	for {
		select {
		case ev := <-s.events:
			if s.handleEvent(ev) {
				return true
			}
		default:
			break drain
		}
	}

	for id := range s.held {
		keys.SetKey(uint8(id), s.held[id] > 0)
		if s.held[id] > 0 {
			s.held[id]--
		}
	}
	return false
}

func (s *Screen) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			if id := keymap(ev.Rune()); id != -1 {
				s.held[id] = s.holdPolls
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return false
}

// Render draws the frame, two rows per line.
func (s *Screen) Render(frame internal.Frame) {
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			r := cellRune(frame.At(x, y), frame.At(x, y+1))
			s.screen.SetContent(x, y/2, r, nil, pixelStyle)
		}
	}
	s.drawStatus()
	s.screen.Show()
}

// Audio shows the tone state in the status line, terminals have no tone generator.
func (s *Screen) Audio(signal internal.AudioSignal) {
	s.playing = signal == internal.AudioPlay
	s.drawStatus()
	s.screen.Show()
}

func (s *Screen) drawStatus() {
	status := "     "
	if s.playing {
		status = "BEEP "
	}
	status += "esc: quit"
	row := internal.ScreenHeight / 2
	for i, c := range status {
		s.screen.SetContent(i, row, c, nil, statusStyle)
	}
}

func cellRune(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}

// keymap uses the same QWERTY layout as the SDL frontend
// 1 2 3 4    1 2 3 C
// q w e r    4 5 6 D
// a s d f    7 8 9 E
// z x c v    A 0 B F
func keymap(r rune) int8 {
	switch unicode.ToLower(r) {
	case '1':
		return 0x1
	case '2':
		return 0x2
	case '3':
		return 0x3
	case '4':
		return 0xC
	case 'q':
		return 0x4
	case 'w':
		return 0x5
	case 'e':
		return 0x6
	case 'r':
		return 0xD
	case 'a':
		return 0x7
	case 's':
		return 0x8
	case 'd':
		return 0x9
	case 'f':
		return 0xE
	case 'z':
		return 0xA
	case 'x':
		return 0x0
	case 'c':
		return 0xB
	case 'v':
		return 0xF
	default:
		return -1
	}
}
