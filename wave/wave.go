// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"fmt"

	"github.com/ik5/audmix/utils"
)

// Wave is an in-memory block of interleaved PCM frames.
//
// The data length always equals FrameCount*Channels*SampleSize/8. A Wave is
// only changed by Crop and Format; everything else reads it.
type Wave struct {
	frameCount int
	sampleRate int
	sampleSize int
	channels   int
	data       []byte
}

func checkFormat(sampleRate, sampleSize, channels int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, sampleRate)
	}
	if !utils.ValidSampleSize(sampleSize) {
		return fmt.Errorf("%w: sample size %d", ErrInvalidFormat, sampleSize)
	}
	if channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, channels)
	}
	return nil
}

// New wraps data as a wave. data is owned by the wave afterwards.
func New(frameCount, sampleRate, sampleSize, channels int, data []byte) (*Wave, error) {
	if err := checkFormat(sampleRate, sampleSize, channels); err != nil {
		return nil, err
	}
	if frameCount < 1 {
		return nil, ErrEmpty
	}
	if want := frameCount * channels * sampleSize / 8; len(data) != want {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidLength, len(data), want)
	}

	return &Wave{
		frameCount: frameCount,
		sampleRate: sampleRate,
		sampleSize: sampleSize,
		channels:   channels,
		data:       data,
	}, nil
}

// FromSamples encodes interleaved float samples into a new wave.
func FromSamples(samples []float32, sampleRate, sampleSize, channels int) (*Wave, error) {
	if err := checkFormat(sampleRate, sampleSize, channels); err != nil {
		return nil, err
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidLength, len(samples), channels)
	}

	data := make([]byte, len(samples)*sampleSize/8)
	utils.EncodePCM(data, samples, sampleSize)

	return New(len(samples)/channels, sampleRate, sampleSize, channels, data)
}

func (w *Wave) FrameCount() int { return w.frameCount }
func (w *Wave) SampleRate() int { return w.sampleRate }
func (w *Wave) SampleSize() int { return w.sampleSize }
func (w *Wave) Channels() int   { return w.channels }

// Data returns the raw PCM bytes. The slice is shared with the wave.
func (w *Wave) Data() []byte { return w.data }

// Duration in seconds.
func (w *Wave) Duration() float64 {
	return float64(w.frameCount) / float64(w.sampleRate)
}

// Valid reports whether w holds data consistent with its metadata.
func (w *Wave) Valid() bool {
	if w == nil || w.data == nil || w.frameCount < 1 {
		return false
	}
	if checkFormat(w.sampleRate, w.sampleSize, w.channels) != nil {
		return false
	}
	return len(w.data) == w.frameCount*w.channels*w.sampleSize/8
}

// Copy returns a deep copy of w.
func (w *Wave) Copy() *Wave {
	c := *w
	c.data = make([]byte, len(w.data))
	copy(c.data, w.data)
	return &c
}

func (w *Wave) frameBytes() int {
	return w.channels * w.sampleSize / 8
}

// Crop keeps frames in [initFrame, finalFrame).
func (w *Wave) Crop(initFrame, finalFrame int) error {
	if initFrame < 0 || initFrame >= finalFrame || finalFrame > w.frameCount {
		return fmt.Errorf("%w: [%d, %d) of %d frames", ErrInvalidRange, initFrame, finalFrame, w.frameCount)
	}

	fb := w.frameBytes()
	data := make([]byte, (finalFrame-initFrame)*fb)
	copy(data, w.data[initFrame*fb:finalFrame*fb])

	w.data = data
	w.frameCount = finalFrame - initFrame
	return nil
}

// Samples decodes the wave into interleaved float32 samples in [-1, 1].
func (w *Wave) Samples() []float32 {
	out := make([]float32, w.frameCount*w.channels)
	utils.DecodePCM(out, w.data, w.sampleSize)
	return out
}
