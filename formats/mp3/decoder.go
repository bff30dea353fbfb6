// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// bytesPerFrame is the size of one decoded go-mp3 frame: two channels of
// 16-bit little-endian PCM.
const bytesPerFrame = 4

// mp3Reader is the part of gomp3.Decoder the source needs, split out for testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	pending    int // bytes of a partial sample carried over from the last Read
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return 2 }
func (s *source) BitDepth() int   { return 16 }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// FrameCount returns -1 when the stream length is unknown.
func (s *source) FrameCount() int64 {
	n := s.dec.Length()
	if n < 0 {
		return -1
	}
	return n / bytesPerFrame
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		grown := make([]byte, need)
		copy(grown, s.buf[:s.pending])
		s.buf = grown
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.pending:])
	n += s.pending

	samples := utils.DecodePCM(dst, s.buf[:n], 16)

	// keep an odd trailing byte for the next call
	s.pending = n - samples*2
	if s.pending > 0 {
		copy(s.buf, s.buf[samples*2:n])
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	// go-mp3 always produces stereo
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
