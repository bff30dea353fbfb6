// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSampleRate         = 44100
	DefaultChannels           = 2
	DefaultPeriodFrames       = 512
	DefaultStreamBufferFrames = 4096
	DefaultRingSlots          = 4

	// MaxChannels bounds the device and stream channel count.
	MaxChannels = 8
)

// Config describes the device format and the buffers the mixer preallocates.
// Zero fields take their default.
type Config struct {
	// SampleRate of the device in Hz.
	SampleRate int
	// Channels of the device output.
	Channels int
	// PeriodFrames is the mix quantum. Longer render requests are split.
	PeriodFrames int
	// StreamBufferFrames is the default ring slot size for new streams.
	StreamBufferFrames int
	// RingSlots is the number of slots in each stream ring, at least 2.
	RingSlots int
	// Registry selects decoders by file type. Nil means formats.Default().
	Registry *audio.Registry
	// Logger receives device and voice events. Nil means logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// DefaultConfig returns the configuration used for zero fields.
func DefaultConfig() Config {
	return Config{
		SampleRate:         DefaultSampleRate,
		Channels:           DefaultChannels,
		PeriodFrames:       DefaultPeriodFrames,
		StreamBufferFrames: DefaultStreamBufferFrames,
		RingSlots:          DefaultRingSlots,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SampleRate == 0 {
		c.SampleRate = def.SampleRate
	}
	if c.Channels == 0 {
		c.Channels = def.Channels
	}
	if c.PeriodFrames == 0 {
		c.PeriodFrames = def.PeriodFrames
	}
	if c.StreamBufferFrames == 0 {
		c.StreamBufferFrames = def.StreamBufferFrames
	}
	if c.RingSlots == 0 {
		c.RingSlots = def.RingSlots
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Validate reports the first invalid field after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()

	switch {
	case c.SampleRate < 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, c.SampleRate)
	case c.Channels < 0 || c.Channels > MaxChannels:
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, c.Channels)
	case c.PeriodFrames < 0:
		return fmt.Errorf("%w: period of %d frames", ErrInvalidFormat, c.PeriodFrames)
	case c.StreamBufferFrames < 0:
		return fmt.Errorf("%w: stream buffer of %d frames", ErrInvalidFormat, c.StreamBufferFrames)
	case c.RingSlots < 2:
		return fmt.Errorf("%w: %d ring slots, need at least 2", ErrInvalidFormat, c.RingSlots)
	}
	return nil
}
