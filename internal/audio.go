package internal

// AudioSignal is the state of the tone generator driven by the sound timer.
type AudioSignal uint8

// Audio signals
const (
	AudioStop AudioSignal = iota
	AudioPlay
)

func (a AudioSignal) String() string {
	if a == AudioPlay {
		return "play"
	}
	return "stop"
}
