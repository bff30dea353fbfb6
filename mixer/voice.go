// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// State of a voice.
type State int32

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Kind tells where a voice reads its frames from.
type Kind int

const (
	// OneShot voices play a sound buffer held in memory.
	OneShot Kind = iota
	// Streamed voices read chunks from a ring.
	Streamed
)

func (k Kind) String() string {
	if k == OneShot {
		return "oneshot"
	}
	return "streamed"
}

type atomicFloat struct{ bits atomic.Uint32 }

func (f *atomicFloat) Load() float32   { return math.Float32frombits(f.bits.Load()) }
func (f *atomicFloat) Store(v float32) { f.bits.Store(math.Float32bits(v)) }

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// voice is the playback state shared by Sound, Music and Stream.
type voice struct {
	dev  *Device
	id   uint64
	kind Kind
	log  logrus.FieldLogger

	// mu serializes application-side changes to src.
	mu  sync.Mutex
	src source

	srcRate     int
	srcChannels int

	state      atomic.Int32
	registered atomic.Bool
	unloaded   atomic.Bool
	looping    atomic.Bool

	volume atomicFloat
	pitch  atomicFloat
	pan    atomicFloat
	cursor atomic.Uint64

	rs    resampler
	procs chain
}

func (d *Device) newVoice(kind Kind, src source, rate, channels int) *voice {
	v := &voice{
		dev:         d,
		id:          d.nextID.Add(1),
		kind:        kind,
		src:         src,
		srcRate:     rate,
		srcChannels: channels,
		rs:          newResampler(channels),
	}
	v.log = d.log.WithFields(logrus.Fields{"voice": v.id, "kind": kind})
	v.volume.Store(1)
	v.pitch.Store(1)
	v.pan.Store(0.5)
	return v
}

// Play starts the voice from its first frame, restarting it when it is
// already playing or paused.
func (v *voice) Play() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.restart(func() error {
		v.src.reset()
		return nil
	})
}

// restart stops the voice, resets its position, runs prepare and registers
// it again. v.mu must be held.
func (v *voice) restart(prepare func() error) error {
	if v.unloaded.Load() {
		return ErrUnloaded
	}

	d := v.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deregister(v)
	d.quiesce()
	v.rs.reset()
	v.cursor.Store(0)

	if prepare != nil {
		if err := prepare(); err != nil {
			v.state.Store(int32(Stopped))
			return err
		}
	}

	v.state.Store(int32(Playing))
	d.register(v)
	v.log.Debug("voice playing")
	return nil
}

// rewind resets the source, the resampler and the cursor. The voice must not
// be registered.
func (v *voice) rewind() {
	v.src.reset()
	v.rs.reset()
	v.cursor.Store(0)
}

// Stop halts the voice and rewinds it. Streamed voices drop queued chunks.
func (v *voice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stop()
}

// stop requires v.mu.
func (v *voice) stop() {
	d := v.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deregister(v)
	d.quiesce()
	v.state.Store(int32(Stopped))
	v.rewind()
}

// Pause holds a playing voice at its current frame.
func (v *voice) Pause() {
	if v.state.CompareAndSwap(int32(Playing), int32(Paused)) {
		v.log.Debug("voice paused")
	}
}

// Resume continues a paused voice.
func (v *voice) Resume() {
	if v.unloaded.Load() {
		return
	}
	if v.state.CompareAndSwap(int32(Paused), int32(Playing)) {
		v.log.Debug("voice resumed")
	}
}

func (v *voice) State() State    { return State(v.state.Load()) }
func (v *voice) IsPlaying() bool { return v.State() == Playing }
func (v *voice) IsValid() bool   { return !v.unloaded.Load() }

// Cursor returns the number of source frames consumed since the voice
// started or last looped.
func (v *voice) Cursor() uint64 { return v.cursor.Load() }

// SetVolume sets the voice gain, clamped to [0, 1].
func (v *voice) SetVolume(vol float32) { v.volume.Store(clamp01(vol)) }
func (v *voice) Volume() float32       { return v.volume.Load() }

// SetPitch scales the playback rate. Values <= 0 are ignored.
func (v *voice) SetPitch(p float32) {
	if p > 0 && !math.IsInf(float64(p), 0) {
		v.pitch.Store(p)
	}
}

func (v *voice) Pitch() float32 { return v.pitch.Load() }

// SetPan places the voice between left (0) and right (1), clamped.
func (v *voice) SetPan(p float32) { v.pan.Store(clamp01(p)) }
func (v *voice) Pan() float32     { return v.pan.Load() }

// AttachProcessor appends p to the voice's processors. They run on the
// voice's samples, in attachment order, before volume and pan.
func (v *voice) AttachProcessor(p Processor) ProcessorID {
	id := ProcessorID(v.dev.nextID.Add(1))
	v.procs.attach(id, p)
	return id
}

// DetachProcessor removes a processor. When it returns the processor is no
// longer running. Unknown ids are ignored.
func (v *voice) DetachProcessor(id ProcessorID) {
	if v.procs.detach(id) {
		v.dev.quiesce()
	}
}

// unload stops the voice and marks it unusable. It reports false when the
// voice was already unloaded. v.mu must be held.
func (v *voice) unload() bool {
	if v.unloaded.Load() {
		return false
	}
	if v.State() != Stopped {
		v.log.Warn("unloading a voice that is still playing")
	}
	v.stop()
	v.unloaded.Store(true)
	v.log.Debug("voice unloaded")
	return true
}

// Device side.

// next reads one source frame, wrapping looping voices.
func (v *voice) next(dst []float32) bool {
	if v.src.readFrame(dst) {
		v.cursor.Add(1)
		return true
	}
	if !v.looping.Load() || !v.src.exhausted() {
		return false
	}

	v.src.rewind()
	v.cursor.Store(0)
	if v.src.readFrame(dst) {
		v.cursor.Add(1)
		return true
	}
	return false
}

// finished reports whether a non-looping voice has nothing left to play.
func (v *voice) finished() bool {
	return !v.looping.Load() && v.src.exhausted() && v.rs.pending() <= 0
}

// autoStop ends a finished voice from the device thread.
func (v *voice) autoStop() {
	v.state.Store(int32(Stopped))
	v.registered.Store(false)
	v.cursor.Store(0)
	v.rs.reset()
	v.src.finish()
}
