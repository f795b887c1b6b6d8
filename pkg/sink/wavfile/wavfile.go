// Package wavfile writes generator PCM output to a 16-bit stereo WAV
// file, for offline inspection or feeding into an SDR tool.
package wavfile

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sink writes interleaved stereo 16-bit PCM frames to a WAV file on
// disk. Close must be called to finalize the RIFF header.
type Sink struct {
	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer
}

// New creates (or truncates) the WAV file at path for the given
// sample rate, 16-bit stereo PCM (audio format 1).
func New(path string, sampleRate int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	return &Sink{
		f:   f,
		enc: enc,
		buf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: 2, SampleRate: sampleRate},
			Data:   make([]int, 0, 4096),
		},
	}, nil
}

// Write appends packed little-endian int16 stereo frames (4 bytes per
// frame, matching pkg/pcm.Pack) to the file.
func (s *Sink) Write(frames []byte) error {
	s.buf.Data = s.buf.Data[:0]
	for i := 0; i+1 < len(frames); i += 2 {
		sample := int16(frames[i]) | int16(frames[i+1])<<8
		s.buf.Data = append(s.buf.Data, int(sample))
	}
	return s.enc.Write(s.buf)
}

// Close finalizes the WAV header and closes the underlying file.
func (s *Sink) Close() error {
	if err := s.enc.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
