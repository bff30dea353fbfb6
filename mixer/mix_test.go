// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pan         float32
		left, right float32
	}{
		{0, 1, 0},
		{0.25, 1, 0.5},
		{0.5, 1, 1},
		{0.75, 0.5, 1},
		{1, 0, 1},
	}

	for _, tt := range tests {
		left, right := gains(1, tt.pan)
		assert.InDelta(t, tt.left, left, 1e-6, "left at pan %v", tt.pan)
		assert.InDelta(t, tt.right, right, 1e-6, "right at pan %v", tt.pan)
	}

	left, right := gains(0.5, 0.5)
	assert.Equal(t, float32(0.5), left)
	assert.Equal(t, float32(0.5), right)
}

func TestChain(t *testing.T) {
	t.Parallel()

	var c chain
	var order []int
	add := func(n int) Processor {
		return ProcessorFunc(func(samples []float32, frames int) {
			order = append(order, n)
			samples[0] += float32(n)
		})
	}

	c.attach(1, add(1))
	c.attach(2, add(2))
	c.attach(3, add(3))
	assert.Equal(t, 3, c.len())

	assert.True(t, c.detach(2))
	assert.False(t, c.detach(2))
	assert.False(t, c.detach(42))

	buf := []float32{0}
	c.run(buf, 1)
	assert.Equal(t, []int{1, 3}, order)
	assert.Equal(t, float32(4), buf[0])
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero value", Config{}, false},
		{"explicit", Config{SampleRate: 48000, Channels: 1, PeriodFrames: 256, StreamBufferFrames: 1024, RingSlots: 2}, false},
		{"negative rate", Config{SampleRate: -1}, true},
		{"too many channels", Config{Channels: MaxChannels + 1}, true},
		{"negative period", Config{PeriodFrames: -1}, true},
		{"negative stream buffer", Config{StreamBufferFrames: -5}, true},
		{"single ring slot", Config{RingSlots: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Channels: 1}.withDefaults()
	assert.Equal(t, DefaultSampleRate, cfg.SampleRate)
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, DefaultPeriodFrames, cfg.PeriodFrames)
	assert.Equal(t, DefaultStreamBufferFrames, cfg.StreamBufferFrames)
	assert.Equal(t, DefaultRingSlots, cfg.RingSlots)
	assert.NotNil(t, cfg.Logger)
}

func TestPCMBuffer_Refs(t *testing.T) {
	t.Parallel()

	b := newPCMBuffer([]float32{1, 2, 3, 4}, 2)
	assert.Equal(t, 2, b.frames())

	b.acquire()
	assert.False(t, b.release())
	assert.NotNil(t, b.samples)
	assert.True(t, b.release())
	assert.Nil(t, b.samples)
}
