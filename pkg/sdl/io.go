package sdl

import (
	"fmt"

	"github.com/mnafees/c8vm/internal"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	sampleRate = 44100
	toneHz     = 440
	toneVolume = 32
	// one chunk of the tone, topped up while the sound timer runs
	toneSeconds = 1
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	logger *log.Logger

	window    *sdl.Window
	surface   *sdl.Surface
	audio     sdl.AudioDeviceID
	tone      []byte
	playing   bool
	pixelSize int32
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(logger *log.Logger, pixelSize int) *IO {
	return &IO{
		logger:    logger,
		pixelSize: int32(pixelSize),
	}
}

// SetupWindow initialises and sets up the main SDL window and the audio device
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}

	// A missing audio device is not fatal, the VM runs silently.
	if err := io.setupAudio(); err != nil {
		io.logger.Warn("Audio disabled", log.Err(err))
	}
	return nil
}

func (io *IO) setupAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  2048,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	io.audio = dev
	io.tone = squareWave(sampleRate, toneHz, toneVolume, toneSeconds)
	return nil
}

// squareWave returns unsigned 8-bit mono samples centered on 128.
func squareWave(rate, hz int, volume uint8, seconds int) []byte {
	samples := make([]byte, rate*seconds)
	period := rate / hz
	for i := range samples {
		if i%period < period/2 {
			samples[i] = 128 + volume
		} else {
			samples[i] = 128 - volume
		}
	}
	return samples
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.audio != 0 {
		sdl.CloseAudioDevice(io.audio)
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// PollInput processes pending SDL events and reports whether the window was closed.
func (io *IO) PollInput(keys *internal.Keyboard) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			code := keymap(t.Keysym.Scancode)
			if code == -1 {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				keys.SetKey(uint8(code), true)
			case sdl.KEYUP:
				keys.SetKey(uint8(code), false)
			}
		case *sdl.QuitEvent:
			return true
		}
	}
	io.refillTone()
	return false
}

// Render draws the current sprite configuration on screen
func (io *IO) Render(frame internal.Frame) {
	_ = io.surface.FillRect(nil, screenColor)
	for h := int32(0); h < internal.ScreenHeight; h++ {
		for w := int32(0); w < internal.ScreenWidth; w++ {
			if frame.At(int(w), int(h)) {
				rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
				_ = io.surface.FillRect(rect, spriteColor)
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		io.logger.Error("Updating window surface failed", log.Err(err))
	}
}

// Audio starts or stops the tone
func (io *IO) Audio(signal internal.AudioSignal) {
	if io.audio == 0 {
		return
	}
	sdl.ClearQueuedAudio(io.audio)
	io.playing = signal == internal.AudioPlay
	if !io.playing {
		sdl.PauseAudioDevice(io.audio, true)
		return
	}
	if err := sdl.QueueAudio(io.audio, io.tone); err != nil {
		io.logger.Error("Queueing audio failed", log.Err(err))
		io.playing = false
		return
	}
	sdl.PauseAudioDevice(io.audio, false)
}

// refillTone queues another chunk of the tone once less than half a chunk is left,
// so it keeps playing until the VM signals a stop at any cycle rate.
func (io *IO) refillTone() {
	if !io.playing || !needsRefill(sdl.GetQueuedAudioSize(io.audio), len(io.tone)) {
		return
	}
	if err := sdl.QueueAudio(io.audio, io.tone); err != nil {
		io.logger.Error("Queueing audio failed", log.Err(err))
		io.playing = false
	}
}

func needsRefill(queued uint32, chunk int) bool {
	return int(queued) < chunk/2
}
