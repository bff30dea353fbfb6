// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audmix/utils"
)

const (
	slotEmpty int32 = iota
	slotFilled
	slotInUse
)

type slot struct {
	data   []byte
	frames int
	eof    bool
	state  atomic.Int32
}

// ring hands PCM chunks from the application to the device thread.
//
// The application owns write and moves slots Empty -> Filled. The device
// owns read, offset and atEOF and moves slots Filled -> InUse -> Empty. At
// most len(slots)-1 slots are outstanding at any time.
type ring struct {
	slots      []slot
	frameBytes int
	sampleSize int
	channels   int
	capFrames  int

	write   int
	pending atomic.Int32 // slots pushed and not yet released

	read   int
	offset int
	atEOF  bool

	starved   atomic.Bool
	underruns atomic.Uint64
}

func newRing(slots, capFrames, sampleSize, channels int) *ring {
	r := &ring{
		slots:      make([]slot, slots),
		frameBytes: channels * sampleSize / 8,
		sampleSize: sampleSize,
		channels:   channels,
		capFrames:  capFrames,
	}
	for i := range r.slots {
		r.slots[i].data = make([]byte, capFrames*r.frameBytes)
	}
	return r
}

// available reports whether push would accept a chunk.
func (r *ring) available() bool {
	return int(r.pending.Load()) < len(r.slots)-1 &&
		r.slots[r.write].state.Load() == slotEmpty
}

// push copies data into the next slot. An empty chunk is only valid as an
// end-of-stream marker.
func (r *ring) push(data []byte, eof bool) error {
	if len(data)%r.frameBytes != 0 || len(data) > len(r.slots[0].data) || (len(data) == 0 && !eof) {
		return fmt.Errorf("%w: %d bytes, frame is %d bytes, slot holds %d frames",
			ErrInvalidChunk, len(data), r.frameBytes, r.capFrames)
	}
	if !r.available() {
		return ErrRingFull
	}

	s := &r.slots[r.write]
	s.frames = copy(s.data, data) / r.frameBytes
	s.eof = eof
	s.state.Store(slotFilled)
	r.pending.Add(1)
	r.write = (r.write + 1) % len(r.slots)

	r.starved.Store(false)
	return nil
}

// reset empties every slot. Only call it while the device is not reading.
func (r *ring) reset() {
	for i := range r.slots {
		r.slots[i].state.Store(slotEmpty)
		r.slots[i].frames = 0
		r.slots[i].eof = false
	}
	r.write, r.read, r.offset = 0, 0, 0
	r.atEOF = false
	r.pending.Store(0)
	r.starved.Store(false)
}

// Device side.

// readFrame decodes the next frame into dst. It returns false on underrun
// or once the end-of-stream marker has been consumed.
func (r *ring) readFrame(dst []float32) bool {
	if r.atEOF {
		return false
	}

	s := &r.slots[r.read]
	switch s.state.Load() {
	case slotEmpty:
		return false
	case slotFilled:
		s.state.Store(slotInUse)
	}

	got := false
	if r.offset < s.frames {
		b := s.data[r.offset*r.frameBytes:]
		step := r.sampleSize / 8
		for c := range r.channels {
			dst[c] = utils.DecodeSample(b[c*step:], r.sampleSize)
		}
		r.offset++
		got = true
	}

	if r.offset >= s.frames {
		r.release(s)
	}
	return got
}

func (r *ring) release(s *slot) {
	eof := s.eof
	s.state.Store(slotEmpty)
	r.pending.Add(-1)
	r.read = (r.read + 1) % len(r.slots)
	r.offset = 0
	if eof {
		r.atEOF = true
	}
}

// drain releases every filled slot.
func (r *ring) drain() {
	for {
		s := &r.slots[r.read]
		if s.state.Load() == slotEmpty {
			return
		}
		r.release(s)
	}
}

func (r *ring) rewind()         { r.atEOF = false }
func (r *ring) exhausted() bool { return r.atEOF }

func (r *ring) underrun() {
	r.starved.Store(true)
	r.underruns.Add(1)
}
