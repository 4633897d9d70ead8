package internal

import (
	"strings"
)

// Display constants
const (
	ScreenWidth  = 64
	ScreenHeight = 32

	spriteWidth = 8
)

// Frame is an immutable snapshot of the 64 px x 32 px display, stored row by row.
type Frame [ScreenWidth * ScreenHeight]bool

// At returns whether the pixel at column x and row y is lit.
func (f Frame) At(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return f[y*ScreenWidth+x]
}

// String renders the frame as text, one line per row.
func (f Frame) String() string {
	var b strings.Builder
	b.Grow((ScreenWidth + 1) * ScreenHeight)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if f[y*ScreenWidth+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// VideoMemory is the monochrome display buffer. Pixels only change through Clear and
// DrawSprite, both of which mark the buffer dirty until the next snapshot.
type VideoMemory struct {
	pixels Frame
	dirty  bool
}

// Clear turns every pixel off.
func (v *VideoMemory) Clear() {
	v.pixels = Frame{}
	v.dirty = true
}

// DrawSprite XORs a sprite of the given number of rows, read from memory starting at addr,
// onto the display at (x, y). Parts of the sprite outside the display are clipped.
// It returns whether any lit pixel was turned off.
func (v *VideoMemory) DrawSprite(mem *Memory, addr uint16, x, y, rows uint8) (bool, error) {
	// Fetch every visible row first so a failing read leaves the display untouched.
	var sprite [16]uint8
	for row := 0; row < int(rows) && row < len(sprite); row++ {
		if int(y)+row >= ScreenHeight {
			continue
		}
		b, err := mem.Read(addr + uint16(row))
		if err != nil {
			return false, err
		}
		sprite[row] = b
	}

	collided := false
	for row := 0; row < int(rows) && row < len(sprite); row++ {
		py := int(y) + row
		if py >= ScreenHeight {
			continue
		}
		for col := 0; col < spriteWidth; col++ {
			px := int(x) + col
			if px >= ScreenWidth {
				continue
			}
			if sprite[row]&(0x80>>col) == 0 {
				continue
			}
			pixel := &v.pixels[py*ScreenWidth+px]
			if *pixel {
				collided = true
			}
			*pixel = !*pixel
		}
	}
	v.dirty = true
	return collided, nil
}

// snapshot returns a copy of the display if it changed since the last snapshot.
func (v *VideoMemory) snapshot() (Frame, bool) {
	if !v.dirty {
		return Frame{}, false
	}
	v.dirty = false
	return v.pixels, true
}
