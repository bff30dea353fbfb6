// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/formats"
	"github.com/sirupsen/logrus"
)

// Device mixes every playing voice into the output of one Backend.
//
// All methods are safe for concurrent use from application goroutines.
// Render is called by the backend from its device thread; it never blocks,
// allocates or logs.
type Device struct {
	backend Backend
	cfg     Config
	format  Format
	log     logrus.FieldLogger

	// mu guards opened and changes to the active voice list.
	mu     sync.Mutex
	opened bool

	ready  atomic.Bool
	master atomicFloat
	voices atomic.Pointer[[]*voice]
	bus    chain

	// epoch is odd while Render is mixing.
	epoch  atomic.Uint64
	nextID atomic.Uint64

	streamFrames atomic.Int64

	scratch []float32
}

// New creates a device for backend. The device is silent until Init.
func New(backend Backend, cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if cfg.Registry == nil {
		cfg.Registry = formats.Default()
	}

	d := &Device{
		backend: backend,
		cfg:     cfg,
		format:  Format{SampleRate: cfg.SampleRate, Channels: cfg.Channels},
		log:     cfg.Logger.WithField("component", "mixer"),
		scratch: make([]float32, cfg.PeriodFrames*cfg.Channels),
	}
	d.master.Store(1)
	d.streamFrames.Store(int64(cfg.StreamBufferFrames))
	empty := []*voice{}
	d.voices.Store(&empty)

	return d, nil
}

// Format returns the device output format.
func (d *Device) Format() Format { return d.format }

// Init opens the backend. It is a no-op on a ready device. After the device
// was lost, Init closes the backend and opens it again.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opened {
		if d.ready.Load() {
			return nil
		}
		if err := d.backend.Close(); err != nil {
			d.log.WithError(err).Warn("closing lost audio device")
		}
		d.opened = false
	}

	if err := d.backend.Open(d.format, d); err != nil {
		d.log.WithError(err).Error("opening audio device")
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	d.opened = true
	d.ready.Store(true)
	d.log.WithFields(logrus.Fields{
		"sample_rate": d.format.SampleRate,
		"channels":    d.format.Channels,
		"period":      d.cfg.PeriodFrames,
	}).Info("audio device initialized")
	return nil
}

// Close stops the backend. Voices still registered are stopped and reported
// with ErrVoicesActive. Closing a device that is not open is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.opened {
		return nil
	}

	d.ready.Store(false)
	d.opened = false
	err := d.backend.Close()
	if err != nil {
		d.log.WithError(err).Error("closing audio device")
		err = fmt.Errorf("closing backend: %w", err)
	}

	active := d.activeLocked()
	if len(active) > 0 {
		for _, v := range active {
			v.registered.Store(false)
			v.state.Store(int32(Stopped))
		}
		empty := []*voice{}
		d.voices.Store(&empty)

		d.log.WithField("voices", len(active)).Warn("closing audio device with active voices")
		return errors.Join(fmt.Errorf("%w: %d", ErrVoicesActive, len(active)), err)
	}

	d.log.Info("audio device closed")
	return err
}

// IsReady reports whether the device is open and has not been lost.
func (d *Device) IsReady() bool { return d.ready.Load() }

// SetMasterVolume sets the output gain, clamped to [0, 1]. It applies from
// the current or the next mix cycle.
func (d *Device) SetMasterVolume(v float32) { d.master.Store(clamp01(v)) }
func (d *Device) MasterVolume() float32     { return d.master.Load() }

// SetStreamBufferSizeDefault sets the ring slot size, in frames, of streams
// loaded afterwards. Non-positive values are ignored.
func (d *Device) SetStreamBufferSizeDefault(frames int) {
	if frames > 0 {
		d.streamFrames.Store(int64(frames))
	}
}

// ActiveVoices returns the number of voices playing or paused.
func (d *Device) ActiveVoices() int {
	n := 0
	for _, v := range *d.voices.Load() {
		if v.registered.Load() {
			n++
		}
	}
	return n
}

// AttachMixedProcessor appends p to the mix bus. Bus processors run once per
// cycle on the summed output, after master volume.
func (d *Device) AttachMixedProcessor(p Processor) ProcessorID {
	id := ProcessorID(d.nextID.Add(1))
	d.bus.attach(id, p)
	return id
}

// DetachMixedProcessor removes a bus processor. When it returns the
// processor is no longer running. Unknown ids are ignored.
func (d *Device) DetachMixedProcessor(id ProcessorID) {
	if d.bus.detach(id) {
		d.quiesce()
	}
}

// DeviceLost marks the device as not ready. Render outputs silence until
// the device is closed and initialized again.
func (d *Device) DeviceLost(err error) {
	if d.ready.Swap(false) {
		d.log.WithError(err).Error("audio device lost")
	}
}

// activeLocked returns the registered voices. d.mu must be held.
func (d *Device) activeLocked() []*voice {
	var out []*voice
	for _, v := range *d.voices.Load() {
		if v.registered.Load() {
			out = append(out, v)
		}
	}
	return out
}

// register adds v to the active list. d.mu must be held.
func (d *Device) register(v *voice) {
	next := d.activeLocked()
	if !slices.Contains(next, v) {
		next = append(next, v)
	}
	v.registered.Store(true)
	d.voices.Store(&next)
}

// deregister removes v from the active list. d.mu must be held.
func (d *Device) deregister(v *voice) {
	v.registered.Store(false)
	next := d.activeLocked()
	d.voices.Store(&next)
}

// quiesce waits until a mix cycle in progress has finished.
func (d *Device) quiesce() {
	e := d.epoch.Load()
	if e%2 == 0 {
		return
	}
	for d.epoch.Load() == e {
		runtime.Gosched()
	}
}
