// SPDX-License-Identifier: EPL-2.0

package mixer

import "sync/atomic"

// source produces a voice's frames in the voice's own format.
//
// readFrame, exhausted, rewind and finish run on the device thread. reset
// runs on the application side while the device is not reading the voice.
type source interface {
	readFrame(dst []float32) bool
	exhausted() bool
	rewind()
	finish()
	reset()
}

// pcmBuffer holds a sound's samples in the device format. Aliases share it.
type pcmBuffer struct {
	samples  []float32
	channels int
	refs     atomic.Int32
}

func newPCMBuffer(samples []float32, channels int) *pcmBuffer {
	b := &pcmBuffer{samples: samples, channels: channels}
	b.refs.Store(1)
	return b
}

func (b *pcmBuffer) frames() int { return len(b.samples) / b.channels }

func (b *pcmBuffer) acquire() { b.refs.Add(1) }

// release drops a reference and frees the samples with the last one.
func (b *pcmBuffer) release() bool {
	if b.refs.Add(-1) > 0 {
		return false
	}
	b.samples = nil
	return true
}

type pcmSource struct {
	buf *pcmBuffer
	pos int
}

func (s *pcmSource) readFrame(dst []float32) bool {
	ch := s.buf.channels
	if (s.pos+1)*ch > len(s.buf.samples) {
		return false
	}
	copy(dst[:ch], s.buf.samples[s.pos*ch:])
	s.pos++
	return true
}

func (s *pcmSource) exhausted() bool { return s.pos >= s.buf.frames() }
func (s *pcmSource) rewind()         { s.pos = 0 }
func (s *pcmSource) finish()         {}
func (s *pcmSource) reset()          { s.pos = 0 }

// StreamCallback fills samples with frames interleaved frames in the
// stream's sample rate and channel count. It runs on the device thread.
type StreamCallback func(samples []float32, frames int)

// streamSource reads a ring, or a callback when one is set.
type streamSource struct {
	ring *ring

	cb       atomic.Pointer[StreamCallback]
	cbBuf    []float32
	cbFrames int
	cbPos    int
	cbLen    int
}

func newStreamSource(r *ring, callbackFrames int) *streamSource {
	return &streamSource{
		ring:     r,
		cbBuf:    make([]float32, callbackFrames*r.channels),
		cbFrames: callbackFrames,
	}
}

func (s *streamSource) readFrame(dst []float32) bool {
	cb := s.cb.Load()
	if cb == nil {
		return s.ring.readFrame(dst)
	}

	ch := s.ring.channels
	if s.cbPos >= s.cbLen {
		clear(s.cbBuf)
		(*cb)(s.cbBuf, s.cbFrames)
		s.cbPos, s.cbLen = 0, s.cbFrames
	}
	copy(dst[:ch], s.cbBuf[s.cbPos*ch:])
	s.cbPos++
	return true
}

func (s *streamSource) exhausted() bool {
	return s.cb.Load() == nil && s.ring.exhausted()
}

func (s *streamSource) rewind() { s.ring.rewind() }
func (s *streamSource) finish() { s.ring.drain() }

func (s *streamSource) reset() {
	s.ring.reset()
	s.cbPos, s.cbLen = 0, 0
}
