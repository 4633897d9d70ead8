package internal

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStackPushPop(t *testing.T) {
	var s Stack
	assert.NoError(t, s.Push(0x202))
	assert.NoError(t, s.Push(0x304))
	assert.Equal(t, 2, s.Depth())

	addr, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x304), addr)

	addr, err = s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), addr)
	assert.Equal(t, 0, s.Depth())
}

func TestStackOverflow(t *testing.T) {
	var s Stack
	for i := 0; i < stackDepth; i++ {
		assert.NoError(t, s.Push(uint16(0x200+2*i)))
	}

	err := s.Push(0x400)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, stackDepth, s.Depth())
}

func TestStackUnderflow(t *testing.T) {
	var s Stack
	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, 0, s.Depth())
}
