// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
)

// mockSource generates audio frames from a waveform function.
type mockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame int, channel int) float32
}

func newMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

func newConstantSource(sampleRate, channels, totalFrames int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// newRampSource produces frame index as the sample value on every channel.
func newRampSource(sampleRate, channels, totalFrames int) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		return float32(frame)
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error    { return nil }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

// readAll drains src with a buffer of bufSize samples.
func readAll(src Source, bufSize int) ([]float32, error) {
	var out []float32
	buf := make([]float32, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
