// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// Format converts w in place to the given sample rate, sample size and
// channel count. Channels are mapped first, then the rate is converted with
// linear interpolation. The new frame count is
// floor(FrameCount*sampleRate/SampleRate), never less than one.
func (w *Wave) Format(sampleRate, sampleSize, channels int) error {
	if err := checkFormat(sampleRate, sampleSize, channels); err != nil {
		return err
	}

	if sampleRate == w.sampleRate && sampleSize == w.sampleSize && channels == w.channels {
		return nil
	}

	var src audio.Source = audio.NewSliceSource(w.Samples(), w.sampleRate, w.channels)
	if channels != w.channels {
		src = audio.NewChannelMixer(src, channels)
	}
	if sampleRate != w.sampleRate {
		src = audio.NewResampler(src, sampleRate,
			audio.WithInterpolation(audio.Linear),
			audio.WithAntiAliasing(false))
	}

	target := max(int(int64(w.frameCount)*int64(sampleRate)/int64(w.sampleRate)), 1)

	samples, err := readFrames(src, target, channels)
	if err != nil {
		return fmt.Errorf("converting wave: %w", err)
	}

	data := make([]byte, len(samples)*sampleSize/8)
	utils.EncodePCM(data, samples, sampleSize)

	w.data = data
	w.frameCount = target
	w.sampleRate = sampleRate
	w.sampleSize = sampleSize
	w.channels = channels
	return nil
}

// readFrames reads exactly frames frames from src, repeating the last frame
// read when src ends early.
func readFrames(src audio.Source, frames, channels int) ([]float32, error) {
	out := make([]float32, frames*channels)

	got := 0
	for got < len(out) {
		n, err := src.ReadSamples(out[got:])
		got += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}

	got -= got % channels
	if got == 0 {
		return out, nil
	}
	last := out[got-channels : got]
	for i := got; i < len(out); i += channels {
		copy(out[i:], last)
	}
	return out, nil
}
