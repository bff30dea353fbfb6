// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/utils"
)

// chunkSamples bounds the int buffer used while encoding.
const chunkSamples = 8192

// Encode writes interleaved float samples as an integer PCM WAV file.
// bitDepth may be 8, 16, 24 or 32. Samples outside [-1, 1] are clamped.
func Encode(w io.WriteSeeker, sampleRate, bitDepth, channels int, samples []float32) error {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if channels < 1 || sampleRate <= 0 {
		return ErrUnsupportedWavLayout
	}

	enc := gowav.NewEncoder(w, sampleRate, bitDepth, channels, 1)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 0, min(len(samples), chunkSamples)),
		SourceBitDepth: bitDepth,
	}

	step := chunkSamples - chunkSamples%channels
	for i := 0; i < len(samples); i += step {
		end := min(i+step, len(samples))
		buf.Data = buf.Data[:0]
		for _, x := range samples[i:end] {
			buf.Data = append(buf.Data, toInt(x, bitDepth))
		}

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func toInt(x float32, bitDepth int) int {
	switch bitDepth {
	case 8:
		return int(utils.Float32ToUint8(x))
	case 16:
		return int(utils.Float32ToInt16(x))
	}
	maxVal := float64(int64(1)<<(bitDepth-1) - 1)
	return int(float64(utils.Clamp(x)) * maxVal)
}
