package internal

// KeyCount is the number of keys on the hex keypad
const KeyCount = 16

// Keyboard holds the state of the 16-key hex keypad in the form of individual bits.
// So when 0 is pushed in the keypad, the 0'th bit will be set and so on.
// The VM receives it by value, a step never observes the state changing mid-cycle.
type Keyboard struct {
	mask uint16
}

// SetKey marks a key as pressed or released. Only the low 4 bits of id are used.
func (k *Keyboard) SetKey(id uint8, pressed bool) {
	bit := uint16(1) << (id & 0x0F)
	if pressed {
		k.mask |= bit
	} else {
		k.mask &^= bit
	}
}

// IsPressed returns whether the key is held down.
func (k Keyboard) IsPressed(id uint8) bool {
	bit := uint16(1) << (id & 0x0F)
	return k.mask&bit == bit
}

// FirstPressed returns the lowest pressed key id.
func (k Keyboard) FirstPressed() (uint8, bool) {
	for id := uint8(0); id < KeyCount; id++ {
		if k.IsPressed(id) {
			return id, true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keyboard) Reset() {
	k.mask = 0
}
