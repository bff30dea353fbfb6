// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/audmix/utils"
)

// Stream is a streamed voice fed with raw PCM chunks by the application.
//
// A typical producer polls IsProcessed and pushes one chunk each time it
// reports true. Chunks hold whole frames in the stream's sample size and
// channel count, at most the slot size given by FrameCapacity.
type Stream struct {
	*voice
	stream *streamSource

	sampleSize int
}

// LoadStream creates a raw stream. sampleSize is 8, 16 or 32 bits; 32-bit
// samples are floats.
func (d *Device) LoadStream(sampleRate, sampleSize, channels int) (*Stream, error) {
	if sampleRate <= 0 || !utils.ValidSampleSize(sampleSize) || channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d Hz, %d bits, %d channels", ErrInvalidFormat, sampleRate, sampleSize, channels)
	}

	capFrames := int(d.streamFrames.Load())
	r := newRing(d.cfg.RingSlots, capFrames, sampleSize, channels)
	src := newStreamSource(r, d.cfg.PeriodFrames)

	s := &Stream{
		voice:      d.newVoice(Streamed, src, sampleRate, channels),
		stream:     src,
		sampleSize: sampleSize,
	}
	s.log.WithField("slot_frames", capFrames).Debug("stream loaded")
	return s, nil
}

func (s *Stream) SampleRate() int { return s.srcRate }
func (s *Stream) SampleSize() int { return s.sampleSize }
func (s *Stream) Channels() int   { return s.srcChannels }

// FrameCapacity returns the largest chunk, in frames, one Update accepts.
func (s *Stream) FrameCapacity() int { return s.stream.ring.capFrames }

// Play starts the stream, keeping chunks already queued.
func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.restart(func() error {
		s.stream.ring.rewind()
		return nil
	})
}

// IsProcessed reports whether a free slot can take the next chunk.
func (s *Stream) IsProcessed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.IsValid() && s.stream.ring.available()
}

// Update queues a chunk of PCM bytes. It returns ErrRingFull when no slot is
// free and ErrInvalidChunk when data is empty, holds a partial frame or does
// not fit in a slot. A successful Update clears the starved flag.
func (s *Stream) Update(data []byte) error {
	return s.push(data, false)
}

// UpdateLast queues a final chunk. A stream that is not looping stops once
// it has been played.
func (s *Stream) UpdateLast(data []byte) error {
	return s.push(data, true)
}

// End marks the end of the stream without more data.
func (s *Stream) End() error {
	return s.push(nil, true)
}

func (s *Stream) push(data []byte, eof bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unloaded.Load() {
		return ErrUnloaded
	}

	r := s.stream.ring
	starved := r.starved.Load()
	if err := r.push(data, eof); err != nil {
		return err
	}
	if starved && s.IsPlaying() {
		s.log.WithField("underruns", r.underruns.Load()).Warn("stream was starved")
	}
	return nil
}

// Starved reports whether the device ran out of queued chunks since the
// last successful Update.
func (s *Stream) Starved() bool { return s.stream.ring.starved.Load() }

// Underruns returns how many mix cycles found the ring empty.
func (s *Stream) Underruns() uint64 { return s.stream.ring.underruns.Load() }

// SetLooping makes the stream wrap its cursor to zero at each end marker
// instead of stopping.
func (s *Stream) SetLooping(loop bool) { s.looping.Store(loop) }

// SetCallback makes the device thread pull frames from fn instead of the
// ring. fn receives float samples in the stream's rate and channel count.
// A nil fn switches back to queued chunks.
func (s *Stream) SetCallback(fn StreamCallback) {
	if fn == nil {
		s.stream.cb.Store(nil)
		return
	}
	s.stream.cb.Store(&fn)
}

// Unload stops the stream and drops its queued chunks.
func (s *Stream) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unload()
}
