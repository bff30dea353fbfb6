// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Interpolation selects how the Resampler computes samples between source frames.
type Interpolation int

const (
	// Cubic uses Catmull-Rom interpolation over four frames.
	Cubic Interpolation = iota
	// Linear interpolates between the two neighbouring frames.
	Linear
)

// ResamplerOption configures a Resampler.
type ResamplerOption func(*Resampler)

// WithInterpolation selects the interpolation used by the Resampler.
func WithInterpolation(i Interpolation) ResamplerOption {
	return func(r *Resampler) {
		r.interp = i
	}
}

// WithAntiAliasing toggles the one-pole low-pass filter applied while
// downsampling. It is enabled by default.
func WithAntiAliasing(enabled bool) ResamplerOption {
	return func(r *Resampler) {
		r.useFilter = enabled && r.ratio > 1.0
	}
}

// Resampler streams from src to target sample rate.
// Works on interleaved samples; preserves channel count.
// The first output frame is the first source frame, and at equal rates the
// output is the input unchanged.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	ratio    float64 // srcRate / dstRate - how many source frames per output frame
	channels int
	interp   Interpolation

	// Window of 4 frames: frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Fractional position between frames[1] and frames[2]
	pos float64

	// Block read from source
	srcBuf []float32
	srcLen int
	srcPos int
	eof    bool

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int, opts ...ResamplerOption) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		ratio:       ratio,
		channels:    channels,
		interp:      Cubic,
		srcBuf:      make([]float32, 4096-4096%channels),
		useFilter:   ratio > 1.0,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame copies the next source frame into dst.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	// a source may return 0 samples without EOF, so keep reading
	for r.srcPos >= r.srcLen {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.srcLen = n - n%r.channels
		r.srcPos = 0

		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.srcBuf[r.srcPos:r.srcPos+r.channels])
	r.srcPos += r.channels

	if r.useFilter {
		for c := range r.channels {
			// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.readFrame(r.frames[1])
	if err != nil || !ok {
		return err
	}
	r.hasFrame[1] = true

	// Duplicate the first frame backwards and seed the filter with it
	copy(r.frames[0], r.frames[1])
	r.hasFrame[0] = true
	if r.useFilter {
		copy(r.filterState, r.frames[1])
	}

	for i := 2; i < 4; i++ {
		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		r.hasFrame[i] = ok
		if !ok {
			break
		}
	}
	return nil
}

// shift moves the window forward by one source frame.
func (r *Resampler) shift() error {
	r.frames[0], r.frames[1], r.frames[2], r.frames[3] = r.frames[1], r.frames[2], r.frames[3], r.frames[0]
	r.hasFrame[0], r.hasFrame[1], r.hasFrame[2] = r.hasFrame[1], r.hasFrame[2], r.hasFrame[3]

	if !r.hasFrame[2] {
		r.hasFrame[3] = false
		return nil
	}

	ok, err := r.readFrame(r.frames[3])
	r.hasFrame[3] = ok
	return err
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels:]

		for c := range r.channels {
			y1 := r.frames[1][c]
			y2 := y1
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
			}

			if r.interp == Linear {
				out[c] = utils.LinearInterpolate(y1, y2, alpha)
				continue
			}

			// Use available frames, duplicate edge frames if needed
			y0 := y1
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}
			y3 := y2
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}
			out[c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
