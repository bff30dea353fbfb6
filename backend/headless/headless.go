// SPDX-License-Identifier: EPL-2.0

// Package headless is a mixer backend with no audio hardware.
//
// In manual mode the caller drives the device with Pull. With WithInterval a
// goroutine renders one block per tick, optionally handing it to a sink.
package headless

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audmix/mixer"
)

// ErrNotOpen is returned by Lose when the backend is closed.
var ErrNotOpen = errors.New("headless backend is not open")

// Sink receives each block rendered in ticker mode. The slice is reused
// after Sink returns.
type Sink func(samples []float32)

type Option func(*Backend)

// WithInterval renders interval worth of frames on every tick from a
// device goroutine.
func WithInterval(interval time.Duration) Option {
	return func(b *Backend) { b.interval = interval }
}

// WithSink receives blocks rendered in ticker mode.
func WithSink(s Sink) Option {
	return func(b *Backend) { b.sink = s }
}

// WithOpenError makes Open fail with err.
func WithOpenError(err error) Option {
	return func(b *Backend) { b.openErr = err }
}

// Backend implements mixer.Backend.
type Backend struct {
	interval time.Duration
	sink     Sink
	openErr  error

	mu       sync.Mutex
	renderer mixer.Renderer
	format   mixer.Format
	open     atomic.Bool
	opens    int
	stop     chan struct{}
	wg       sync.WaitGroup

	buf []float32
}

func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Open(f mixer.Format, r mixer.Renderer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openErr != nil {
		return b.openErr
	}
	if b.open.Load() {
		return nil
	}

	b.renderer = r
	b.format = f
	b.opens++
	b.open.Store(true)

	if b.interval > 0 {
		frames := max(int(int64(f.SampleRate)*int64(b.interval)/int64(time.Second)), 1)
		b.stop = make(chan struct{})
		b.wg.Add(1)
		go b.run(frames)
	}
	return nil
}

func (b *Backend) run(frames int) {
	defer b.wg.Done()

	out := make([]float32, frames*b.format.Channels)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.renderer.Render(out)
			if b.sink != nil {
				b.sink(out)
			}
		}
	}
}

// Close stops the device goroutine and waits for it to exit.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open.Load() {
		return nil
	}
	b.open.Store(false)

	if b.stop != nil {
		close(b.stop)
		b.wg.Wait()
		b.stop = nil
	}
	return nil
}

// Pull renders frames frames on the calling goroutine and returns them. The
// slice is reused by the next Pull. It returns nil when the backend is
// closed or running in ticker mode.
func (b *Backend) Pull(frames int) []float32 {
	if !b.open.Load() || b.interval > 0 {
		return nil
	}

	n := frames * b.format.Channels
	if cap(b.buf) < n {
		b.buf = make([]float32, n)
	}
	b.buf = b.buf[:n]
	b.renderer.Render(b.buf)
	return b.buf
}

// Lose reports err to the renderer as a lost device.
func (b *Backend) Lose(err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open.Load() {
		return ErrNotOpen
	}
	b.renderer.DeviceLost(err)
	return nil
}

// IsOpen reports whether the backend is open.
func (b *Backend) IsOpen() bool { return b.open.Load() }

// Opens returns how many times Open has started the backend.
func (b *Backend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}
