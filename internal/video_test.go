package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func newSpriteMemory(t *testing.T, addr uint16, rows ...uint8) *Memory {
	t.Helper()
	var mem Memory
	assert.NoError(t, mem.Load(nil))
	for i, row := range rows {
		assert.NoError(t, mem.Write(addr+uint16(i), row))
	}
	return &mem
}

func TestDrawSpriteXOR(t *testing.T) {
	mem := newSpriteMemory(t, 0x300, 0xFF)
	var video VideoMemory
	video.Clear()

	collided, err := video.DrawSprite(mem, 0x300, 0, 0, 1)
	assert.NoError(t, err)
	assert.False(t, collided)
	for x := 0; x < 8; x++ {
		assert.True(t, video.pixels.At(x, 0))
	}
	assert.False(t, video.pixels.At(8, 0))
	assert.False(t, video.pixels.At(0, 1))

	collided, err = video.DrawSprite(mem, 0x300, 0, 0, 1)
	assert.NoError(t, err)
	assert.True(t, collided)
	assert.Equal(t, Frame{}, video.pixels)
}

func TestDrawSpriteBitOrder(t *testing.T) {
	mem := newSpriteMemory(t, 0x300, 0x81)
	var video VideoMemory

	_, err := video.DrawSprite(mem, 0x300, 10, 5, 1)
	assert.NoError(t, err)
	assert.True(t, video.pixels.At(10, 5))
	assert.False(t, video.pixels.At(11, 5))
	assert.True(t, video.pixels.At(17, 5))
}

func TestDrawSpriteClipsWithoutWrapping(t *testing.T) {
	mem := newSpriteMemory(t, 0x300, 0xFF, 0xFF, 0xFF)
	var video VideoMemory

	collided, err := video.DrawSprite(mem, 0x300, ScreenWidth-4, ScreenHeight-1, 3)
	assert.NoError(t, err)
	assert.False(t, collided)

	for x := ScreenWidth - 4; x < ScreenWidth; x++ {
		assert.True(t, video.pixels.At(x, ScreenHeight-1))
	}
	lit := 0
	for _, px := range video.pixels {
		if px {
			lit++
		}
	}
	assert.Equal(t, 4, lit)
	assert.False(t, video.pixels.At(0, 0))
	assert.False(t, video.pixels.At(0, ScreenHeight-1))
}

func TestDrawSpriteReadOutOfBounds(t *testing.T) {
	mem := newSpriteMemory(t, 0xFFF, 0xFF)
	var video VideoMemory

	_, err := video.DrawSprite(mem, 0xFFF, 0, 0, 2)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, Frame{}, video.pixels)
}

func TestVideoSnapshot(t *testing.T) {
	mem := newSpriteMemory(t, 0x300, 0x80)
	var video VideoMemory

	_, ok := video.snapshot()
	assert.False(t, ok)

	_, err := video.DrawSprite(mem, 0x300, 1, 1, 1)
	assert.NoError(t, err)

	frame, ok := video.snapshot()
	assert.True(t, ok)
	assert.True(t, frame.At(1, 1))

	_, ok = video.snapshot()
	assert.False(t, ok)

	// the snapshot is a copy
	video.Clear()
	assert.True(t, frame.At(1, 1))
}

func TestFrameString(t *testing.T) {
	var frame Frame
	frame[0] = true
	frame[ScreenWidth+1] = true

	lines := strings.Split(frame.String(), "\n")
	assert.Len(t, lines, ScreenHeight+1)
	assert.True(t, strings.HasPrefix(lines[0], "# "))
	assert.True(t, strings.HasPrefix(lines[1], " #"))
	assert.False(t, frame.At(-1, 0))
	assert.False(t, frame.At(ScreenWidth, 0))

	// snapshots are read as values, including results that are not addressable
	assert.True(t, Frame(frame).At(1, 1))
	assert.False(t, Frame{}.At(0, 0))
}
