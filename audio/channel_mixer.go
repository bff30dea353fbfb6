// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts a source to a different channel count.
// Downmixing averages the source channels that fold onto each output channel,
// upmixing repeats the source channels in order.
type ChannelMixer struct {
	src      Source
	channels int
	tmp      []float32
}

// NewChannelMixer wraps src so that it produces the given channel count.
func NewChannelMixer(src Source, channels int) *ChannelMixer {
	if channels < 1 {
		channels = 1
	}
	return &ChannelMixer{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

// NewMonoMixer converts multi-channel audio to mono by averaging.
func NewMonoMixer(src Source) *ChannelMixer {
	return NewChannelMixer(src, 1)
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.channels }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	srcChannels := m.src.Channels()
	if srcChannels == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	samplesNeeded := frames * srcChannels

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}

	n, err := m.src.ReadSamples(m.tmp[:samplesNeeded])
	if n == 0 {
		return 0, err
	}
	got := n / srcChannels

	for f := range got {
		MapChannels(dst[f*m.channels:], m.tmp[f*srcChannels:], srcChannels, m.channels)
	}

	return got * m.channels, err
}

// MapChannels converts a single interleaved frame from srcCh to dstCh
// channels. dst must hold dstCh values and src srcCh values. It does not
// allocate, so it is safe to call from the device thread.
func MapChannels(dst, src []float32, srcCh, dstCh int) {
	switch {
	case srcCh == dstCh:
		copy(dst[:dstCh], src[:srcCh])
	case dstCh == 1 && srcCh == 2:
		dst[0] = (src[0] + src[1]) * 0.5
	case dstCh == 1:
		sum := float32(0)
		for c := range srcCh {
			sum += src[c]
		}
		dst[0] = sum / float32(srcCh)
	case srcCh == 1:
		for c := range dstCh {
			dst[c] = src[0]
		}
	case srcCh > dstCh:
		for c := range dstCh {
			sum := float32(0)
			count := 0
			for k := c; k < srcCh; k += dstCh {
				sum += src[k]
				count++
			}
			dst[c] = sum / float32(count)
		}
	default:
		for c := range dstCh {
			dst[c] = src[c%srcCh]
		}
	}
}
