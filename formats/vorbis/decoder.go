// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the part of oggvorbis.Reader the source needs, split out for testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// BitDepth reports 16 since Vorbis has no nominal sample size.
func (s *source) BitDepth() int { return 16 }

// FrameCount returns -1 when the stream is not seekable.
func (s *source) FrameCount() int64 {
	n := s.dec.Length()
	if n <= 0 {
		return -1
	}
	return n
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// oggvorbis reads whole frames and returns the number of values written
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if dec.Channels() < 1 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidChannels, dec.Channels())
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
