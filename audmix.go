// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"

	"github.com/ik5/audmix/backend/headless"
	"github.com/ik5/audmix/backend/otoplayer"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/utils"
	"github.com/ik5/audmix/wave"
)

// BounceBlockFrames is the number of frames Bounce renders between update
// calls.
const BounceBlockFrames = 1024

// NewDevice creates a device that plays through the system audio output and
// opens it.
func NewDevice(cfg mixer.Config, opts ...otoplayer.Option) (*mixer.Device, error) {
	d, err := mixer.New(otoplayer.New(opts...), cfg)
	if err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewOfflineDevice creates an opened device on a headless backend. Nothing
// is rendered until the caller pulls frames, for example with Bounce.
func NewOfflineDevice(cfg mixer.Config) (*mixer.Device, *headless.Backend, error) {
	b := headless.New()
	d, err := mixer.New(b, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Init(); err != nil {
		return nil, nil, err
	}
	return d, b, nil
}

// Bounce renders frames frames of d through b and encodes them into a wave
// with the given sample size. update, when not nil, runs before every block
// of BounceBlockFrames so music can refill its ring.
func Bounce(d *mixer.Device, b *headless.Backend, frames, sampleSize int, update func() error) (*wave.Wave, error) {
	if frames < 1 || !utils.ValidSampleSize(sampleSize) {
		return nil, fmt.Errorf("%w: %d frames of %d bits", wave.ErrInvalidFormat, frames, sampleSize)
	}

	f := d.Format()
	samples := make([]float32, 0, frames*f.Channels)

	for done := 0; done < frames; {
		if update != nil {
			if err := update(); err != nil {
				return nil, fmt.Errorf("bounce update: %w", err)
			}
		}

		n := min(BounceBlockFrames, frames-done)
		block := b.Pull(n)
		if block == nil {
			return nil, fmt.Errorf("%w: backend is not open", mixer.ErrDeviceUnavailable)
		}
		samples = append(samples, block...)
		done += n
	}

	return wave.FromSamples(samples, f.SampleRate, sampleSize, f.Channels)
}

// LoadWave decodes the file at path with the default decoders.
func LoadWave(path string) (*wave.Wave, error) {
	return wave.Load(path, nil)
}
