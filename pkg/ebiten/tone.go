package ebiten

import "encoding/binary"

const (
	sampleRate = 44100
	toneHz     = 440
	amplitude  = 0x0FFF
)

// squareWave is an endless 16-bit little endian stereo square wave.
type squareWave struct {
	period int
	pos    int
}

func newSquareWave(rate, hz int) *squareWave {
	return &squareWave{period: rate / hz}
}

// Read fills p with whole stereo frames of 4 bytes.
func (s *squareWave) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4
	for i := 0; i < n; i += 4 {
		var sample int16 = amplitude
		if s.pos >= s.period/2 {
			sample = -amplitude
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))
		binary.LittleEndian.PutUint16(p[i+2:], uint16(sample))
		s.pos = (s.pos + 1) % s.period
	}
	return n, nil
}
