// Package live plays generator PCM output through the system's audio
// device in real time, via oto's blocking player.
package live

import (
	"github.com/hajimehoshi/oto"
)

// Sink writes interleaved stereo 16-bit PCM frames to the default
// audio output device.
type Sink struct {
	ctx    *oto.Context
	player *oto.Player
}

// New opens the default audio device at sampleRate, 2 channels, 2
// bytes/sample (matching pkg/pcm's packed frame layout). bufferBytes
// sizes oto's internal ring buffer; the generator's own backpressure
// comes from Write blocking once that buffer fills.
func New(sampleRate, bufferBytes int) (*Sink, error) {
	ctx, err := oto.NewContext(sampleRate, 2, 2, bufferBytes)
	if err != nil {
		return nil, err
	}
	return &Sink{ctx: ctx, player: ctx.NewPlayer()}, nil
}

// Write blocks until frames have been handed to the audio device.
func (s *Sink) Write(frames []byte) error {
	_, err := s.player.Write(frames)
	return err
}

// Close releases the audio device.
func (s *Sink) Close() error {
	return s.player.Close()
}
