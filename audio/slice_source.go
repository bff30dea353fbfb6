// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// SliceSource serves interleaved samples held in memory.
type SliceSource struct {
	samples    []float32
	sampleRate int
	channels   int
	pos        int
}

// NewSliceSource returns a Source reading samples. The slice is not copied.
func NewSliceSource(samples []float32, sampleRate, channels int) *SliceSource {
	return &SliceSource{
		samples:    samples,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

func (s *SliceSource) SampleRate() int { return s.sampleRate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return len(s.samples) }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) FrameCount() int64 {
	return int64(len(s.samples) / s.channels)
}

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}

	// whole frames only
	n := min(len(dst), len(s.samples)-s.pos)
	n -= n % s.channels
	copy(dst, s.samples[s.pos:s.pos+n])
	s.pos += n

	if s.pos >= len(s.samples) {
		return n, io.EOF
	}
	return n, nil
}
