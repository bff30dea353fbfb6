// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	beepflac "github.com/gopxl/beep/v2/flac"
	"github.com/ik5/audmix/audio"
)

// streamer is the part of beep.StreamSeekCloser the source needs, split out for testing
type streamer interface {
	Stream(samples [][2]float64) (int, bool)
	Err() error
	Len() int
	Close() error
}

type source struct {
	dec        streamer
	sampleRate int
	channels   int
	bitDepth   int
	frames     [][2]float64
}

func (s *source) SampleRate() int   { return s.sampleRate }
func (s *source) Channels() int     { return s.channels }
func (s *source) BitDepth() int     { return s.bitDepth }
func (s *source) FrameCount() int64 { return int64(s.dec.Len()) }
func (s *source) BufSize() int      { return cap(s.frames) * s.channels }

func (s *source) Close() error {
	if err := s.dec.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) / s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.frames) < want {
		s.frames = make([][2]float64, want)
	}
	frames := s.frames[:want]

	n, ok := s.dec.Stream(frames)
	for i := range n {
		if s.channels == 1 {
			dst[i] = float32(frames[i][0])
			continue
		}
		dst[2*i] = float32(frames[i][0])
		dst[2*i+1] = float32(frames[i][1])
	}

	if !ok {
		if err := s.dec.Err(); err != nil {
			return n * s.channels, fmt.Errorf("%w", err)
		}
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

type Decoder struct{}

// Decode reads a FLAC stream. Only the first two channels of a multichannel
// file are kept.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, format, err := beepflac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	return newSource(dec, format), nil
}

func newSource(dec streamer, format beep.Format) *source {
	return &source{
		dec:        dec,
		sampleRate: int(format.SampleRate),
		channels:   min(max(format.NumChannels, 1), 2),
		bitDepth:   format.Precision * 8,
		frames:     make([][2]float64, 1024),
	}
}
