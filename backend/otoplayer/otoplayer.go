// SPDX-License-Identifier: EPL-2.0

// Package otoplayer outputs the mixer through github.com/ebitengine/oto/v3.
//
// oto allows a single context per process. The first Open fixes the sample
// rate and channel count; later opens, from any Backend, must use the same
// format.
package otoplayer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audmix/mixer"
)

var (
	// ErrFormatMismatch is returned when Open asks for a format other than
	// the one the shared oto context was created with.
	ErrFormatMismatch = errors.New("oto context already created with another format")

	// ErrAlreadyOpen is returned by Open on an open backend.
	ErrAlreadyOpen = errors.New("oto backend already open")
)

var shared struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format mixer.Format
}

func sharedContext(f mixer.Format, bufferSize time.Duration) (*oto.Context, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.ctx != nil {
		if shared.format != f {
			return nil, fmt.Errorf("%w: have %+v, want %+v", ErrFormatMismatch, shared.format, f)
		}
		return shared.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("creating oto context: %w", err)
	}
	<-ready

	shared.ctx = ctx
	shared.format = f
	return ctx, nil
}

type Option func(*Backend)

// WithBufferSize sets the oto context buffer duration. Zero lets oto pick.
func WithBufferSize(d time.Duration) Option {
	return func(b *Backend) { b.bufferSize = d }
}

// WithPollInterval sets how often the player error is checked.
func WithPollInterval(d time.Duration) Option {
	return func(b *Backend) { b.poll = d }
}

// Backend implements mixer.Backend on an oto player.
type Backend struct {
	bufferSize time.Duration
	poll       time.Duration

	mu     sync.Mutex
	player *oto.Player
	stop   chan struct{}
	wg     sync.WaitGroup

	// device thread state
	renderer mixer.Renderer
	samples  []float32
	closed   atomic.Bool
	inflight atomic.Int32
}

func New(opts ...Option) *Backend {
	b := &Backend{poll: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Open(f mixer.Format, r mixer.Renderer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player != nil {
		return ErrAlreadyOpen
	}

	ctx, err := sharedContext(f, b.bufferSize)
	if err != nil {
		return err
	}

	b.renderer = r
	b.samples = make([]float32, 4096*f.Channels)
	b.closed.Store(false)

	b.player = ctx.NewPlayer(b)
	b.player.Play()

	b.stop = make(chan struct{})
	b.wg.Add(1)
	go b.monitor(ctx, b.player, b.stop)
	return nil
}

// Read is called by oto's device thread.
func (b *Backend) Read(p []byte) (int, error) {
	b.inflight.Add(1)
	defer b.inflight.Add(-1)

	n := len(p) / 4
	if b.closed.Load() || n == 0 {
		clear(p)
		return len(p), nil
	}

	// oto asks for at most its buffer size, so this only grows at startup
	if cap(b.samples) < n {
		b.samples = make([]float32, n)
	}
	out := b.samples[:n]
	b.renderer.Render(out)

	for i, x := range out {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(x))
	}
	clear(p[4*n:])
	return len(p), nil
}

func (b *Backend) monitor(ctx *oto.Context, player *oto.Player, stop <-chan struct{}) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := player.Err()
			if err == nil {
				err = ctx.Err()
			}
			if err != nil {
				b.renderer.DeviceLost(err)
				return
			}
		}
	}
}

// Close stops the player and returns once no Read is running and the
// monitor goroutine has exited. The shared oto context stays alive.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return nil
	}

	b.closed.Store(true)
	close(b.stop)
	b.wg.Wait()

	b.player.Pause()
	err := b.player.Close()
	b.player = nil

	for b.inflight.Load() > 0 {
		time.Sleep(time.Millisecond)
	}

	if err != nil {
		return fmt.Errorf("closing oto player: %w", err)
	}
	return nil
}
