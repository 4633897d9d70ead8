// Package ebiten implements an Ebitengine frontend. Ebitengine owns the main loop and
// calls Update at the configured tick rate, each Update runs one VM cycle.
package ebiten

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/c8vm/internal"
	"github.com/retroenv/retrogolib/log"
)

// Colors as R, G, B
var (
	screenColor = [3]byte{0x1A, 0x23, 0x7E}
	spriteColor = [3]byte{0x9F, 0xA8, 0xDA}
)

// keypad layout, see the SDL frontend
var keymap = map[ebiten.Key]uint8{
	ebiten.KeyDigit1: 0x1,
	ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3,
	ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ:      0x4,
	ebiten.KeyW:      0x5,
	ebiten.KeyE:      0x6,
	ebiten.KeyR:      0xD,
	ebiten.KeyA:      0x7,
	ebiten.KeyS:      0x8,
	ebiten.KeyD:      0x9,
	ebiten.KeyF:      0xE,
	ebiten.KeyZ:      0xA,
	ebiten.KeyX:      0x0,
	ebiten.KeyC:      0xB,
	ebiten.KeyV:      0xF,
}

// Game implements ebiten.Game for the CHIP-8 VM
type Game struct {
	ctx    context.Context
	logger *log.Logger
	vm     *internal.C8VM

	keys   internal.Keyboard
	pixels []byte // RGBA buffer of the last frame
	dirty  bool

	player  *audio.Player
	playing bool
}

// NewGame creates the game and its tone player. The context stops the game when canceled.
func NewGame(ctx context.Context, logger *log.Logger, vm *internal.C8VM) (*Game, error) {
	g := &Game{
		ctx:    ctx,
		logger: logger,
		vm:     vm,
		pixels: make([]byte, 4*internal.ScreenWidth*internal.ScreenHeight),
		dirty:  true,
	}
	fillPixels(g.pixels, internal.Frame{})

	audioContext := audio.NewContext(sampleRate)
	player, err := audioContext.NewPlayer(newSquareWave(sampleRate, toneHz))
	if err != nil {
		return nil, fmt.Errorf("creating tone player: %w", err)
	}
	g.player = player
	return g, nil
}

// Update runs one cycle of the VM.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for key, id := range keymap {
		g.keys.SetKey(id, ebiten.IsKeyPressed(key))
	}
	if err := g.vm.Step(g.keys); err != nil {
		g.logger.Error("Program stopped", log.Err(err), log.String("cpu", g.vm.CPU().String()))
		return fmt.Errorf("program stopped: %w", err)
	}

	if frame, ok := g.vm.Frame(); ok {
		fillPixels(g.pixels, frame)
		g.dirty = true
	}

	playing := g.vm.Audio() == internal.AudioPlay
	if playing != g.playing {
		g.playing = playing
		if playing {
			g.player.Play()
		} else {
			g.player.Pause()
		}
	}
	return nil
}

// Draw copies the last frame to the screen. The screen keeps its content between
// frames, so it is only written after a change.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.dirty {
		return
	}
	screen.WritePixels(g.pixels)
	g.dirty = false
}

// Layout keeps the logical screen at the CHIP-8 resolution, Ebitengine scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// Run opens the window and blocks until the game ends. Quitting through the window or
// Escape is not an error.
func Run(g *Game, title string, scale, hz int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(internal.ScreenWidth*scale, internal.ScreenHeight*scale)
	ebiten.SetTPS(hz)
	ebiten.SetScreenClearedEveryFrame(false)

	defer func() {
		if err := g.player.Close(); err != nil {
			g.logger.Error("Closing tone player failed", log.Err(err))
		}
	}()

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		if ctxErr := g.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return nil
	}
	return err
}

// fillPixels converts a frame to RGBA.
func fillPixels(dst []byte, frame internal.Frame) {
	for i, lit := range frame {
		color := screenColor
		if lit {
			color = spriteColor
		}
		copy(dst[4*i:], color[:])
		dst[4*i+3] = 0xFF
	}
}
