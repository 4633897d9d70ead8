package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeyboard(t *testing.T) {
	var k Keyboard
	_, ok := k.FirstPressed()
	assert.False(t, ok)

	k.SetKey(0xA, true)
	k.SetKey(0x3, true)
	assert.True(t, k.IsPressed(0xA))
	assert.True(t, k.IsPressed(0x3))
	assert.False(t, k.IsPressed(0x0))

	id, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x3), id)

	// releasing twice must not toggle the key back on
	k.SetKey(0x3, false)
	k.SetKey(0x3, false)
	assert.False(t, k.IsPressed(0x3))

	id, ok = k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0xA), id)

	k.Reset()
	_, ok = k.FirstPressed()
	assert.False(t, ok)
}

func TestKeyboardIDUsesLowNibble(t *testing.T) {
	var k Keyboard
	k.SetKey(0x15, true)
	assert.True(t, k.IsPressed(0x5))
	assert.True(t, k.IsPressed(0xF5))
}
